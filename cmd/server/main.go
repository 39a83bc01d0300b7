package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hseworks/picatrack/modules"
	corepersistence "github.com/hseworks/picatrack/modules/core/infrastructure/persistence"
	"github.com/hseworks/picatrack/pkg/application"
	"github.com/hseworks/picatrack/pkg/configuration"
	"github.com/hseworks/picatrack/pkg/eventbus"
	"github.com/hseworks/picatrack/pkg/metrics"
	"github.com/hseworks/picatrack/pkg/middleware"
	"github.com/hseworks/picatrack/pkg/server"
)

func runMigrations(conf *configuration.Configuration) error {
	db, err := sql.Open("pgx", conf.Database.Opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			conf.Logger().WithError(err).Warn("failed to close migration connection")
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, conf.MigrationsDir)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if conf.AutoMigrate {
		if err := runMigrations(conf); err != nil {
			logger.WithError(err).Fatal("failed to run migrations")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer pool.Close()

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		logger.WithError(err).Fatal("failed to load modules")
	}

	app.RegisterMiddleware(
		middleware.RequestLogger(logger),
		middleware.WithPool(pool),
		middleware.ActorFromHeader(corepersistence.NewActorRepository()),
	)
	if conf.Prometheus.Enabled {
		app.RegisterMiddleware(metrics.RequestMetrics())
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	srv := server.NewHTTPServer(app)
	logger.Infof("listening on %s", conf.SocketAddress)
	if err := srv.Start(conf.SocketAddress); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
