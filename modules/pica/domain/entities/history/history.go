package history

import (
	"fmt"
	"time"

	"github.com/hseworks/picatrack/modules/pica/domain/aggregates/pica"
)

// Entry is one immutable fact about a status transition. Entries are only
// ever appended; nothing in the system mutates or deletes them.
type Entry struct {
	id        uint
	picaID    uint
	actorID   *uint
	oldStatus pica.Status
	newStatus pica.Status
	comment   string
	timestamp time.Time

	actorName string
}

type Option func(*Entry)

func WithID(id uint) Option {
	return func(e *Entry) {
		e.id = id
	}
}

// WithActorID records who made the transition; nil denotes a
// system-initiated one.
func WithActorID(actorID *uint) Option {
	return func(e *Entry) {
		e.actorID = actorID
	}
}

func WithComment(comment string) Option {
	return func(e *Entry) {
		e.comment = comment
	}
}

func WithTimestamp(timestamp time.Time) Option {
	return func(e *Entry) {
		e.timestamp = timestamp
	}
}

// WithActorName attaches the resolved actor name for presentation; it is not
// persisted on the entry itself.
func WithActorName(name string) Option {
	return func(e *Entry) {
		e.actorName = name
	}
}

func New(picaID uint, oldStatus, newStatus pica.Status, opts ...Option) *Entry {
	e := &Entry{
		picaID:    picaID,
		oldStatus: oldStatus,
		newStatus: newStatus,
		timestamp: time.Now(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.comment == "" {
		e.comment = DefaultComment(oldStatus, newStatus)
	}
	return e
}

// DefaultComment is the generated human-readable comment used when the caller
// supplies none.
func DefaultComment(oldStatus, newStatus pica.Status) string {
	return fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
}

func (e *Entry) ID() uint {
	return e.id
}

func (e *Entry) PicaID() uint {
	return e.picaID
}

func (e *Entry) ActorID() *uint {
	return e.actorID
}

func (e *Entry) OldStatus() pica.Status {
	return e.oldStatus
}

func (e *Entry) NewStatus() pica.Status {
	return e.newStatus
}

func (e *Entry) Comment() string {
	return e.comment
}

func (e *Entry) Timestamp() time.Time {
	return e.timestamp
}

func (e *Entry) ActorName() string {
	return e.actorName
}
