package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	metricsprom "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	"github.com/slok/go-http-metrics/middleware/std"

	"github.com/CrypToolProject/CrypTool-2-sub021/module/component"
	"github.com/CrypToolProject/CrypTool-2-sub021/module/irrecoverable"
)

const shutdownTimeout = 5 * time.Second

// Server is the http server that serves the `/metrics` endpoint for prometheus.
type Server struct {
	*component.ComponentManager
	log    zerolog.Logger
	server *http.Server
}

// NewServer creates a server listening on the given port. It serves the metrics
// of registry and shuts down when the context given to Start is cancelled. The
// requests to the endpoint are measured into registry as well.
func NewServer(log zerolog.Logger, port uint, registry *prometheus.Registry) *Server {
	addr := ":" + strconv.Itoa(int(port))

	measure := middleware.New(middleware.Config{
		Recorder: metricsprom.NewRecorder(metricsprom.Config{
			Prefix:   namespaceDCA,
			Registry: registry,
		}),
	})
	router := mux.NewRouter()
	router.Handle("/metrics", std.Handler("metrics", measure, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))).Methods(http.MethodGet)

	m := &Server{
		log:    log.With().Str("component", "metrics_server").Str("address", addr).Logger(),
		server: &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
	}
	m.ComponentManager = component.NewComponentManagerBuilder().
		AddWorker(m.serve).
		Build()
	return m
}

// Handler returns the http handler of the server.
func (m *Server) Handler() http.Handler {
	return m.server.Handler
}

func (m *Server) serve(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	m.log.Info().Msg("starting metrics server")

	errChan := make(chan error, 1)
	go func() {
		errChan <- m.server.ListenAndServe()
	}()
	ready()

	select {
	case err := <-errChan:
		// http.ErrServerClosed is returned when Close or Shutdown is called
		if !errors.Is(err, http.ErrServerClosed) {
			m.log.Err(err).Msg("metrics server failed")
			irrecoverable.Throwf(ctx, "metrics server on %s failed: %w", m.server.Addr, err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := m.server.Shutdown(shutdownCtx); err != nil {
			m.log.Warn().Err(err).Msg("could not shut down metrics server")
		}
		m.log.Debug().Msg("metrics server shutdown")
	}
}
