package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	reqctx "github.com/Ramsey-B/marigold/pkg/context"
)

func TestValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, reqctx.GetRequestID(ctx))
	assert.Empty(t, reqctx.GetForm(ctx))

	ctx = reqctx.SetRequestID(ctx, "req-1")
	ctx = reqctx.SetRoute(ctx, "/matchmaking")
	ctx = reqctx.SetRemoteIP(ctx, "10.0.0.1")
	ctx = reqctx.SetForm(ctx, "matchmaking")

	assert.Equal(t, "req-1", reqctx.GetRequestID(ctx))
	assert.Equal(t, "/matchmaking", reqctx.GetRoute(ctx))
	assert.Equal(t, "10.0.0.1", reqctx.GetRemoteIP(ctx))
	assert.Equal(t, "matchmaking", reqctx.GetForm(ctx))
}

func TestValues_IgnoresPlainStringKeys(t *testing.T) {
	ctx := context.WithValue(context.Background(), "X-Request-Id", "spoofed") //nolint:staticcheck
	assert.Empty(t, reqctx.GetRequestID(ctx))
}
