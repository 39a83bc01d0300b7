package pica

import (
	"github.com/hseworks/picatrack/modules/pica/infrastructure/persistence"
	"github.com/hseworks/picatrack/modules/pica/presentation/controllers"
	"github.com/hseworks/picatrack/modules/pica/services"
	"github.com/hseworks/picatrack/pkg/application"
)

type Module struct{}

func NewModule() application.Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "pica"
}

func (m *Module) Register(app application.Application) error {
	picaRepo := persistence.NewPicaRepository()
	historyRepo := persistence.NewHistoryRepository()

	picaService := services.NewPicaService(picaRepo, historyRepo, app.EventBus())
	historyService := services.NewHistoryService(historyRepo)

	app.RegisterServices(picaService, historyService)
	app.RegisterControllers(controllers.NewPicaAPIController(picaService, historyService))
	return nil
}
