package adapter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thefixer3x/onasis-gateway-sub003/gwerrors"
)

func TestBaseAdapter_CallTool(t *testing.T) {
	t.Run("given unregistered tool name, then returns TOOL_NOT_FOUND", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		b.MarkReady()

		_, err := b.CallTool(context.Background(), "missing", nil, nil)
		require.Error(t, err)

		ge, ok := gwerrors.As(err)
		require.True(t, ok)
		assert.Equal(t, gwerrors.CodeToolNotFound, ge.Code)
	})

	t.Run("given registered tool, then invokes handler and records stats", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		b.RegisterTool(Tool{Name: "ping"}, func(ctx context.Context, args map[string]any, rc *RequestContext) (any, error) {
			return "pong", nil
		})
		b.MarkReady()

		result, err := b.CallTool(context.Background(), "ping", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "pong", result)

		info := b.Info()
		assert.Equal(t, uint64(1), info.Stats.Calls)
		assert.Equal(t, uint64(0), info.Stats.Errors)
	})

	t.Run("given handler error, then increments error count and propagates", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		wantErr := errors.New("upstream boom")
		b.RegisterTool(Tool{Name: "fail"}, func(ctx context.Context, args map[string]any, rc *RequestContext) (any, error) {
			return nil, wantErr
		})
		b.MarkReady()

		_, err := b.CallTool(context.Background(), "fail", nil, nil)
		require.ErrorIs(t, err, wantErr)
		assert.Equal(t, uint64(1), b.Info().Stats.Errors)
	})
}

func TestBaseAdapter_RegisterTool_DuplicatePanics(t *testing.T) {
	b := NewBaseAdapter("demo", "Demo", "v1", "misc")
	noop := func(ctx context.Context, args map[string]any, rc *RequestContext) (any, error) { return nil, nil }
	b.RegisterTool(Tool{Name: "dup"}, noop)

	assert.Panics(t, func() {
		b.RegisterTool(Tool{Name: "dup"}, noop)
	})
}

func TestBaseAdapter_ResetTools(t *testing.T) {
	t.Run("given tools registered, then reset clears them and the same name can be re-registered", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		noop := func(ctx context.Context, args map[string]any, rc *RequestContext) (any, error) { return nil, nil }
		b.RegisterTool(Tool{Name: "dup"}, noop)

		b.ResetTools()
		assert.Empty(t, b.ListTools())

		assert.NotPanics(t, func() {
			b.RegisterTool(Tool{Name: "dup"}, noop)
		})
		assert.Len(t, b.ListTools(), 1)
	})
}

func TestBaseAdapter_HealthCheck(t *testing.T) {
	t.Run("given not yet ready, then reports unhealthy", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		status := b.HealthCheck(context.Background())
		assert.False(t, status.Healthy)
	})

	t.Run("given ready with no custom probe, then reports healthy", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		b.MarkReady()
		status := b.HealthCheck(context.Background())
		assert.True(t, status.Healthy)
	})

	t.Run("given custom probe, then defers to it", func(t *testing.T) {
		b := NewBaseAdapter("demo", "Demo", "v1", "misc")
		b.MarkReady()
		b.SetHealthProbe(func(ctx context.Context) HealthStatus {
			return HealthStatus{Healthy: false, Detail: "upstream degraded"}
		})

		status := b.HealthCheck(context.Background())
		assert.False(t, status.Healthy)
		assert.Equal(t, "upstream degraded", status.Detail)
	})
}

func TestBaseAdapter_ListTools_ReturnsCopy(t *testing.T) {
	b := NewBaseAdapter("demo", "Demo", "v1", "misc")
	b.RegisterTool(Tool{Name: "one"}, func(ctx context.Context, args map[string]any, rc *RequestContext) (any, error) {
		return nil, nil
	})

	tools := b.ListTools()
	require.Len(t, tools, 1)

	tools[0].Name = "mutated"

	assert.Equal(t, "one", b.ListTools()[0].Name)
}
