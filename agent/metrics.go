package agent

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lsnmpvs/lsnmpvs/codec"
)

// metricsRegistry exposes agent-side counters (requests served, per wire
// error code) on an optional HTTP endpoint using
// github.com/prometheus/client_golang. Metrics are excluded as a protocol
// feature, not as ambient instrumentation of the implementation.
type metricsRegistry struct {
	registry *prometheus.Registry

	requestsTotal   prometheus.Counter
	responsesTotal  prometheus.Counter
	errorCodeTotal  *prometheus.CounterVec
	notificationsTx prometheus.Counter
	beaconsTx       prometheus.Counter
}

func newMetricsRegistry() *metricsRegistry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &metricsRegistry{
		registry: reg,
		requestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lsnmpvs_agent_requests_total",
			Help: "Total request datagrams accepted by the agent.",
		}),
		responsesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "lsnmpvs_agent_responses_total",
			Help: "Total response datagrams sent by the agent.",
		}),
		errorCodeTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lsnmpvs_agent_error_code_total",
			Help: "Count of wire error codes observed, labeled by code.",
		}, []string{"code"}),
		notificationsTx: factory.NewCounter(prometheus.CounterOpts{
			Name: "lsnmpvs_agent_notifications_total",
			Help: "Total sensor notification datagrams broadcast.",
		}),
		beaconsTx: factory.NewCounter(prometheus.CounterOpts{
			Name: "lsnmpvs_agent_beacons_total",
			Help: "Total beacon datagrams broadcast.",
		}),
	}
}

func (m *metricsRegistry) observeError(code codec.ErrorCode) {
	if code == codec.ErrNone {
		return
	}
	m.errorCodeTotal.WithLabelValues(code.String()).Inc()
}

// serve starts an HTTP server exposing /metrics and blocks until ctx is
// cancelled. Returns nil if addr is empty (metrics disabled).
func (m *metricsRegistry) serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		return srv.Close()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("agent: metrics server failed", "error", err.Error())
			return err
		}
		return nil
	}
}
