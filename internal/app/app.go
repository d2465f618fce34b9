package app

import (
	"context"

	"estimator/config"
	"estimator/internal/controllers"
	"estimator/internal/database"
	"estimator/internal/events"
	"estimator/internal/handlers/middleware"
	"estimator/internal/jobs"
	"estimator/internal/repositories"
	"estimator/internal/services"
	"estimator/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New(db, config.CacheTTL)

	services, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers.New(services, repos),
		Middleware:  middleware.New(services.Auth, repos),
		Websocket:   websockets.New(eventBus, services.Auth, repos.User),
	}

	if err := jobs.RegisterAllJobs(services.Scheduler, config, services, repos); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	if err := services.Scheduler.Start(context.Background()); err != nil {
		return &App{}, log.Err("failed to start scheduler", err)
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []struct {
		name  string
		isNil bool
	}{
		{"websocket", a.Websocket == nil},
		{"eventBus", a.EventBus == nil},
		{"authService", a.Services.Auth == nil},
		{"transactionService", a.Services.Transaction == nil},
		{"schedulerService", a.Services.Scheduler == nil},
		{"cacheInvalidationService", a.Services.CacheInvalidation == nil},
		{"estimateController", a.Controllers.Estimate == nil},
		{"stageController", a.Controllers.Stage == nil},
		{"userController", a.Controllers.User == nil},
	}

	for _, check := range nilChecks {
		if check.isNil {
			return log.ErrMsg("nil check failed: " + check.name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
