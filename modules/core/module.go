package core

import (
	"github.com/hseworks/picatrack/modules/core/infrastructure/persistence"
	"github.com/hseworks/picatrack/modules/core/services"
	"github.com/hseworks/picatrack/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "core"
}

func (m *Module) Register(app application.Application) error {
	organizationRepo := persistence.NewOrganizationRepository()
	actorRepo := persistence.NewActorRepository()

	app.RegisterServices(
		services.NewOrganizationService(organizationRepo),
		services.NewActorService(actorRepo, app.EventBus()),
	)
	return nil
}
