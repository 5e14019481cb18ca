package log

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestCorrelationID(t *testing.T) {
	ctx := ContextWithCorrelationID(context.Background(), "abc123")

	assert.Equal(t, "abc123", CorrelationIDFromContext(ctx))
	assert.Equal(t, "abc123", FromContext(ctx).Data["correlation_id"])
}

func TestCorrelationID_GeneratedWhenMissing(t *testing.T) {
	id := CorrelationIDFromContext(context.Background())
	assert.NotEmpty(t, id)
}

func TestFromContext_Default(t *testing.T) {
	logger := FromContext(context.Background())
	assert.Equal(t, logrus.StandardLogger(), logger.Logger)
}

func TestInitFromString(t *testing.T) {
	InitFromString("debug")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	InitFromString("nonsense")
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}
