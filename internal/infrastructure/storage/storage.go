// Package storage opens the configured backends and hands back the ports the
// services depend on.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aircha/todo-web/internal/core/ports"
	"github.com/aircha/todo-web/internal/infrastructure/config"
	"github.com/aircha/todo-web/internal/infrastructure/db/gormdb"
	"github.com/aircha/todo-web/internal/infrastructure/db/memory"
	mongodb "github.com/aircha/todo-web/internal/infrastructure/db/mongo"
	"github.com/aircha/todo-web/internal/infrastructure/db/postgres"
	redisdb "github.com/aircha/todo-web/internal/infrastructure/db/redis"
	"github.com/aircha/todo-web/internal/infrastructure/janitor"
)

// Stores is the durable store for users and todos.
type Stores struct {
	Driver string
	Users  ports.UserRepository
	Todos  ports.TodoRepository
	Ping   func(ctx context.Context) error
	Close  func(ctx context.Context) error
}

// Sessions is the session store. Purger is set for backends that do not
// expire records themselves.
type Sessions struct {
	Driver string
	Store  ports.SessionStore
	Purger janitor.Purger
	Ping   func(ctx context.Context) error
	Close  func(ctx context.Context) error
}

func noopClose(context.Context) error { return nil }

// Open connects the durable store selected by cfg.Store.Driver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.Store.Driver {
	case "memory":
		s := memory.NewStore()
		return &Stores{Driver: "memory", Users: s, Todos: s.Todos(), Ping: s.Ping, Close: noopClose}, nil

	case "sqlite", "mysql":
		db, err := gormdb.Open(cfg.Store.Driver, cfg.Store.DSN, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Driver: cfg.Store.Driver,
			Users:  gormdb.NewUserRepository(db),
			Todos:  gormdb.NewTodoRepository(db),
			Ping:   func(ctx context.Context) error { return gormdb.Ping(ctx, db) },
			Close:  func(context.Context) error { return gormdb.Close(db) },
		}, nil

	case "postgres":
		db, err := postgres.Connect(ctx, cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return &Stores{
			Driver: "postgres",
			Users:  postgres.NewUserRepository(db),
			Todos:  postgres.NewTodoRepository(db),
			Ping:   db.PingContext,
			Close:  func(context.Context) error { return db.Close() },
		}, nil

	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &Stores{
			Driver: "mongo",
			Users:  mongodb.NewUserRepository(db),
			Todos:  mongodb.NewTodoRepository(db),
			Ping:   func(ctx context.Context) error { return mongodb.Ping(ctx, db) },
			Close:  client.Disconnect,
		}, nil
	}
	return nil, fmt.Errorf("storage: unknown store driver %q", cfg.Store.Driver)
}

// OpenSessions connects the session store selected by cfg.Session.Driver.
func OpenSessions(ctx context.Context, cfg *config.Config) (*Sessions, error) {
	switch cfg.Session.Driver {
	case "memory":
		s := memory.NewSessionStore()
		return &Sessions{Driver: "memory", Store: s, Purger: s, Ping: s.Ping, Close: noopClose}, nil

	case "redis":
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		s := redisdb.NewSessionStore(client)
		return &Sessions{
			Driver: "redis",
			Store:  s,
			Ping:   s.Ping,
			Close:  func(context.Context) error { return client.Close() },
		}, nil
	}
	return nil, fmt.Errorf("storage: unknown session driver %q", cfg.Session.Driver)
}
