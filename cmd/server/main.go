package main

import (
	"context"
	"os/signal"
	"syscall"

	_ "github.com/aircha/todo-web/docs" // swagger docs

	"github.com/aircha/todo-web/internal/api"
	"github.com/aircha/todo-web/internal/api/middleware"
	"github.com/aircha/todo-web/internal/core/service"
	"github.com/aircha/todo-web/internal/infrastructure/config"
	httpserver "github.com/aircha/todo-web/internal/infrastructure/http"
	"github.com/aircha/todo-web/internal/infrastructure/http/handlers"
	"github.com/aircha/todo-web/internal/infrastructure/janitor"
	"github.com/aircha/todo-web/internal/infrastructure/storage"
	"github.com/aircha/todo-web/pkg/logger"
)

// @title           Todo API
// @version         1.0
// @description     Owner-scoped todo API. Authenticate through the /login page; the session cookie authorizes API calls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey SessionCookie
// @in              cookie
// @name            todo_session
func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		panic("config: validation failed: " + err.Error())
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "todo-web",
	})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("store", cfg.Store.Driver).
		Str("sessions", cfg.Session.Driver).
		Msg("service starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	stores, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open store")
	}
	sessions, err := storage.OpenSessions(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}

	if sessions.Purger != nil {
		janitor.New("sessions", sessions.Purger, cfg.Session.TTL/2, log).Start(ctx)
	}

	authService := service.NewAuthService(stores.Users, cfg.BcryptCost, log)
	todoService := service.NewTodoService(stores.Todos, stores.Users, log)
	sessionGate := service.NewSessionGate(sessions.Store, cfg.Session.Secret, cfg.Session.TTL, log)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Todos:    todoService,
		Sessions: sessionGate,
		Cookie: middleware.SessionCookie{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			TTL:    sessionGate.TTL(),
		},
		Checks: []handlers.Check{
			{Name: stores.Driver, Ping: stores.Ping},
			{Name: "sessions_" + sessions.Driver, Ping: sessions.Ping},
		},
		Logger: log,
	})

	srv := httpserver.NewServer(":"+cfg.Port, e)
	if err := httpserver.Run(ctx, srv, cfg.ShutdownTimeout, log); err != nil {
		log.Error().Err(err).Msg("http server stopped with error")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := sessions.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("session store close error")
	}
	if err := stores.Close(closeCtx); err != nil {
		log.Error().Err(err).Msg("store close error")
	}
	log.Info().Msg("graceful shutdown complete")
}
