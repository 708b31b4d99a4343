// Package prometheus exposes counters for the synchronization jobs.  The
// listener is optional and only runs for the duration of a batch, so every
// run builds its own registry instead of using the global one.
package prometheus

import (
	"context"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/IPBooks-Bridge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/IPBooks-Bridge/internal/reconcile"
)

// SyncMetrics counts per-kind reconciliation outcomes and recoverable
// errors.
type SyncMetrics struct {
	registry *prom.Registry
	outcomes *prom.CounterVec
	errors   *prom.CounterVec
}

// NewSyncMetrics builds the metric set on a fresh registry.
func NewSyncMetrics() *SyncMetrics {
	registry := prom.NewRegistry()
	m := &SyncMetrics{
		registry: registry,
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ipbooks",
			Subsystem: "sync",
			Name:      "records_total",
			Help:      "Reconciliation outcomes by list kind.",
		}, []string{"kind", "outcome"}),
		errors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "ipbooks",
			Subsystem: "sync",
			Name:      "record_errors_total",
			Help:      "Recoverable record errors by list kind and stage.",
		}, []string{"kind", "stage"}),
	}
	registry.MustRegister(m.outcomes, m.errors)
	return m
}

// Observe records the counts of one finished job.
func (m *SyncMetrics) Observe(s *reconcile.Summary) {
	add := func(outcome string, n int) {
		if n > 0 {
			m.outcomes.WithLabelValues(s.Kind, outcome).Add(float64(n))
		}
	}
	add("fetched", s.Fetched)
	add("candidate", s.Candidates)
	add("matched", s.Matched)
	add("mismatched", s.Mismatched)
	add("updated", s.Updated)
	add("created", s.Created)
	if s.ParseErrors > 0 {
		m.errors.WithLabelValues(s.Kind, "parse").Add(float64(s.ParseErrors))
	}
	if s.FormatErrors > 0 {
		m.errors.WithLabelValues(s.Kind, "format").Add(float64(s.FormatErrors))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *SyncMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs the metrics listener until ctx is canceled.  Listener errors
// are logged, not returned: metrics must never fail a batch.
func (m *SyncMetrics) Serve(ctx context.Context, addr string, log logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("metrics listener started", logging.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Warn("metrics listener stopped", logging.Err(err))
	}
}
