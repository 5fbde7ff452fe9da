package metrics_test

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrypToolProject/CrypTool-2-sub021/module/irrecoverable"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/metrics"
	"github.com/CrypToolProject/CrypTool-2-sub021/utils/unittest"
)

func TestAttackCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := metrics.NewAttackCollector(registry)

	collector.AttackStarted("cipher2")
	collector.AttackStarted("cipher2")
	collector.RoundCompleted("cipher2", 2, 20*time.Millisecond)
	collector.KeyCandidatesTested("cipher2", 256)
	collector.PairRequested("cipher2")
	collector.AttackFinished("cipher2", "succeeded", time.Second)

	count, err := testutil.GatherAndCount(registry,
		"dca_attack_started_total",
		"dca_attack_finished_total",
		"dca_search_candidates_tested_total",
		"dca_last_round_pairs_requested_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	server := metrics.NewServer(unittest.Logger(), 0, registry)
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.Contains(t, body, `dca_attack_started_total{algorithm="cipher2"} 2`)
	assert.Contains(t, body, `dca_search_candidates_tested_total{algorithm="cipher2"} 256`)
	assert.Contains(t, body, `dca_attack_finished_total{algorithm="cipher2",status="succeeded"} 1`)
	assert.Contains(t, body, `dca_search_round_duration_seconds_count{algorithm="cipher2",round="2"} 1`)

	count, err = testutil.GatherAndCount(registry, "dca_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "scrape of the metrics endpoint not measured")
}

// TestServer_ListenFailureThrows occupies the port of the server, whose failure
// to listen must reach the signaler.
func TestServer_ListenFailureThrows(t *testing.T) {
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	server := metrics.NewServer(unittest.Logger(), uint(port), prometheus.NewRegistry())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signalerCtx, errChan := irrecoverable.WithSignaler(ctx)
	server.Start(signalerCtx)

	select {
	case err := <-errChan:
		assert.Contains(t, err.Error(), "metrics server on")
	case <-time.After(time.Second):
		require.Fail(t, "listen failure was not thrown")
	}
	unittest.RequireCloseBefore(t, server.Done(), time.Second, "server did not shut down")
}

func TestNoopCollector(t *testing.T) {
	collector := metrics.NewNoopCollector()
	collector.AttackStarted("cipher1")
	collector.AttackFinished("cipher1", "stopped", time.Millisecond)
}
