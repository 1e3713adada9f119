package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	in := []interface{}{"db_password", "hunter2", "tab_id", "abc", "dangling"}

	out := sanitizeKVs(in)

	assert.Equal(t, []interface{}{"db_password", "[REDACTED]", "tab_id", "abc", "dangling"}, out)
	assert.Equal(t, "hunter2", in[1])
}

func TestLogger_WithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := &Logger{SugaredLogger: zap.New(core).Sugar()}

	log.With("service", "tab-svc").Info("event committed", "sequence", 3)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "tab-svc", fields["service"])
		assert.Equal(t, int64(3), fields["sequence"])
	}
}
