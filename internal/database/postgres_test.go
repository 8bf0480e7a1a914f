package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"example.com/financial-health/internal/config"
)

// TestOpenStopsOnCanceledContext проверяет, что ретраи прекращаются при отмене контекста.
func TestOpenStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.DatabaseConfig{
		Host:         "127.0.0.1",
		Port:         1,
		User:         "nobody",
		Password:     "nothing",
		Name:         "missing",
		SSLMode:      "disable",
		MaxOpenConns: 2,
		MaxIdleConns: 0,
	}

	pool, err := Open(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Nil(t, pool)
	assert.ErrorIs(t, err, context.Canceled)
}
