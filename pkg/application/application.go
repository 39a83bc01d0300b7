package application

import (
	"fmt"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/hseworks/picatrack/pkg/eventbus"
)

// Controller is anything that can mount routes on the application router.
type Controller interface {
	Register(r *mux.Router)
}

// Module groups the domain, persistence and service wiring for one bounded
// context.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	Pool() *pgxpool.Pool
	EventBus() eventbus.EventBus
	Logger() *logrus.Logger

	RegisterControllers(controllers ...Controller)
	Controllers() []Controller

	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	Middleware() []mux.MiddlewareFunc

	RegisterServices(services ...any)
	Service(service any) any
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:     opts.Pool,
		eventBus: opts.EventBus,
		logger:   opts.Logger,
		services: make(map[reflect.Type]any),
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	controllers []Controller
	middleware  []mux.MiddlewareFunc
	services    map[reflect.Type]any
}

func (a *application) Pool() *pgxpool.Pool {
	return a.pool
}

func (a *application) EventBus() eventbus.EventBus {
	return a.eventBus
}

func (a *application) Logger() *logrus.Logger {
	return a.logger
}

func (a *application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *application) Controllers() []Controller {
	return a.controllers
}

func (a *application) RegisterMiddleware(middleware ...mux.MiddlewareFunc) {
	a.middleware = append(a.middleware, middleware...)
}

func (a *application) Middleware() []mux.MiddlewareFunc {
	return a.middleware
}

func (a *application) RegisterServices(services ...any) {
	for _, service := range services {
		a.services[reflect.TypeOf(service)] = service
	}
}

// Service returns the registered service matching the type of the given
// (typically nil-pointer) example value. Panics on a missing registration;
// that is always a wiring bug, not a runtime condition.
func (a *application) Service(service any) any {
	t := reflect.TypeOf(service)
	registered, ok := a.services[t]
	if !ok {
		panic(fmt.Sprintf("service %s not registered", t))
	}
	return registered
}
