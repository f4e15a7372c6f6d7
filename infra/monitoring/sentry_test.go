package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremon "github.com/kilianp07/evac/core/monitoring"
)

func TestNewSentryMonitor_EmptyDSN(t *testing.T) {
	m, err := NewSentryMonitor(Config{})
	require.NoError(t, err)
	_, ok := m.(coremon.NopMonitor)
	assert.True(t, ok)
}

func TestNewSentryMonitor_InvalidDSN(t *testing.T) {
	_, err := NewSentryMonitor(Config{DSN: "not a dsn"})
	assert.Error(t, err)
}

func TestSentryMonitor_CaptureException(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(data))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dsn := strings.Replace(srv.URL, "http://", "http://public@", 1) + "/1"
	m, err := NewSentryMonitor(Config{DSN: dsn, Environment: "test"})
	require.NoError(t, err)

	m.CaptureException(errors.New("trial store unavailable"), map[string]string{"run_id": "r1"})
	m.Flush(2 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, bodies)
	assert.Contains(t, bodies[0], "trial store unavailable")
	assert.Contains(t, bodies[0], "r1")
}
