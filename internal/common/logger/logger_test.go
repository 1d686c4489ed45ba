package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter_FieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).WithFields(map[string]interface{}{"component": "sql-generator"})

	log.Info("generated statement", map[string]interface{}{"statement": "SELECT 1", "attempt": 1})
	log.WithError(errors.New("boom")).Error("provider call failed", nil)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		ctx := entries[0].ContextMap()
		assert.Equal(t, "sql-generator", ctx["component"])
		assert.Equal(t, "SELECT 1", ctx["statement"])

		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, "boom", entries[1].ContextMap()["error"])
	}
}

func TestMapToZapFields_SortedKeys(t *testing.T) {
	fields := mapToZapFields(map[string]interface{}{"b": 2, "a": 1, "c": 3})
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"a", "b", "c"}, keys)
	assert.Nil(t, mapToZapFields(nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestContextLogger(t *testing.T) {
	fallback := NewNoOpLogger()
	assert.Equal(t, fallback, FromContext(context.Background(), fallback))

	scoped := NewTestLogger(t)
	ctx := IntoContext(context.Background(), scoped)
	assert.Equal(t, scoped, FromContext(ctx, fallback))
}
