package eventbus_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/hseworks/picatrack/pkg/eventbus"
)

type createdEvent struct{ ID uint }
type deletedEvent struct{ ID uint }

func TestEventBusDeliversToMatchingSubscribers(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	var created []*createdEvent
	var deleted []*deletedEvent
	bus.Subscribe(func(e *createdEvent) { created = append(created, e) })
	bus.Subscribe(func(e *deletedEvent) { deleted = append(deleted, e) })

	bus.Publish(&createdEvent{ID: 1})
	bus.Publish(&createdEvent{ID: 2})
	bus.Publish(&deletedEvent{ID: 3})

	assert.Len(t, created, 2)
	assert.Len(t, deleted, 1)
	assert.Equal(t, uint(3), deleted[0].ID)
}

func TestEventBusRecoversFromPanickingHandler(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())

	var delivered int
	bus.Subscribe(func(e *createdEvent) { panic("boom") })
	bus.Subscribe(func(e *createdEvent) { delivered++ })

	assert.NotPanics(t, func() {
		bus.Publish(&createdEvent{ID: 1})
	})
	assert.Equal(t, 1, delivered, "a panicking handler must not starve the others")
}

func TestEventBusClear(t *testing.T) {
	bus := eventbus.NewEventPublisher(logrus.New())
	bus.Subscribe(func(e *createdEvent) {})
	bus.Subscribe(func(e *deletedEvent) {})
	assert.Equal(t, 2, bus.SubscribersCount())

	bus.Clear()
	assert.Equal(t, 0, bus.SubscribersCount())
}
