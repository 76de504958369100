package contextutil_test

import (
	"context"
	"testing"

	"go-leave/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMetadata(t *testing.T) {
	ctx := contextutil.WithRequestID(context.Background(), "rid-1")
	ctx = contextutil.WithUserID(ctx, "user-1")

	assert.Equal(t, contextutil.Metadata{RequestID: "rid-1", UserID: "user-1"}, contextutil.ExtractMetadata(ctx))
	assert.Empty(t, contextutil.GetRequestID(context.Background()))
}

func TestGetLogger(t *testing.T) {
	reqLogger := zap.NewExample()
	fallback := zap.NewNop()

	t.Run("success - request logger wins", func(t *testing.T) {
		ctx := contextutil.WithLogger(context.Background(), reqLogger)
		assert.Same(t, reqLogger, contextutil.GetLogger(ctx, fallback))
	})

	t.Run("success - fallback", func(t *testing.T) {
		assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	})

	t.Run("success - never nil", func(t *testing.T) {
		assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
	})
}
