package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubStore struct{ err error }

func (s stubStore) Health(context.Context) error { return s.err }

func TestHealthCheck(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	status := NewHealthService(stubStore{}, log).Check(ctx)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "healthy", status.Components["database"].Status)

	status = NewHealthService(stubStore{err: errors.New("refused")}, log).Check(ctx)
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "refused", status.Components["database"].Message)

	status = NewHealthService(nil, log).Check(ctx)
	assert.Equal(t, "ok", status.Status)
	assert.Empty(t, status.Components)
}
