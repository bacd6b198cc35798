package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/seaplane/config"
	coremon "github.com/kilianp07/seaplane/core/monitoring"
)

func TestNewSentryMonitor_EmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, m)
}

func TestNewSentryMonitor_InvalidDSN(t *testing.T) {
	_, err := NewSentryMonitor(config.SentryConfig{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitor_CaptureWithoutTransport(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{DSN: "https://public@example.com/1", Environment: "test"})
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.CaptureException(errors.New("boom"), map[string]string{"op": "submit"})
		m.CaptureException(nil, nil)
		m.Flush(10 * time.Millisecond)
	})
}
