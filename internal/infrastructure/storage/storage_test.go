package storage

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aircha/todo-web/internal/core/domain"
	"github.com/aircha/todo-web/internal/infrastructure/config"
)

func TestOpen_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "memory"}}
	ctx := context.Background()

	stores, err := Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "memory", stores.Driver)
	require.NoError(t, stores.Ping(ctx))

	user, err := stores.Users.Create(ctx, &domain.User{Email: "a@b.com", Nickname: "A"})
	require.NoError(t, err)
	_, err = stores.Todos.Create(ctx, &domain.Todo{OwnerID: user.ID, Title: "buy milk"})
	require.NoError(t, err)

	require.NoError(t, stores.Close(ctx))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "oracle"}}, zerolog.Nop())
	assert.ErrorContains(t, err, `unknown store driver "oracle"`)
}

func TestOpenSessions_Memory(t *testing.T) {
	sessions, err := OpenSessions(context.Background(), &config.Config{Session: config.SessionConfig{Driver: "memory"}})
	require.NoError(t, err)
	assert.NotNil(t, sessions.Purger)
	assert.NotNil(t, sessions.Store)
}

func TestOpenSessions_UnknownDriver(t *testing.T) {
	_, err := OpenSessions(context.Background(), &config.Config{Session: config.SessionConfig{Driver: "memcached"}})
	assert.ErrorContains(t, err, `unknown session driver "memcached"`)
}
