package metricsrv

import (
	"fmt"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/chanconsole/chanconsole/internal/stats"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// adminHandler is adapted from the teacher repo's pkg/admin.go: the same
// ServeHTTP switch over /debug/pprof, /ping, /ready, repurposed here to
// describe the instrumentation library's own health (collator queue
// depth, registry size, applied-event count) instead of a control-plane
// process's health.
type adminHandler struct {
	promHandler http.Handler
	registry    *stats.Registry

	queueDepth    prometheus.GaugeFunc
	registrySize  prometheus.GaugeFunc
	appliedEvents prometheus.Counter
}

// NewAdminServer returns an initialized *http.Server exposing
// self-observability for registry: Prometheus gauges for collator queue
// depth and registry size, a counter for applied events, plus /ping,
// /ready and pprof debug routes.
func NewAdminServer(addr string, registry *stats.Registry) *http.Server {
	reg := prometheus.NewRegistry()

	h := &adminHandler{
		registry: registry,
		queueDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "chanconsole_collator_queue_depth",
			Help: "Number of lifecycle events buffered but not yet applied by the collator.",
		}, func() float64 { return float64(registry.QueueDepth()) }),
		registrySize: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "chanconsole_registry_channels",
			Help: "Number of distinct instrumented channels currently tracked.",
		}, func() float64 { return float64(registry.Len()) }),
		appliedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chanconsole_events_applied_total",
			Help: "Total number of lifecycle events applied by the collator.",
		}),
	}
	reg.MustRegister(h.queueDepth, h.registrySize, h.appliedEvents)
	h.promHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	previous := registry.OnApplied
	registry.OnApplied = func(ev stats.Event) {
		h.appliedEvents.Inc()
		if previous != nil {
			previous(ev)
		}
	}

	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

func (h *adminHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	const debugPathPrefix = "/debug/pprof/"
	if strings.HasPrefix(req.URL.Path, debugPathPrefix) {
		switch req.URL.Path {
		case debugPathPrefix + "cmdline":
			pprof.Cmdline(w, req)
		case debugPathPrefix + "profile":
			pprof.Profile(w, req)
		case debugPathPrefix + "trace":
			pprof.Trace(w, req)
		case debugPathPrefix + "symbol":
			pprof.Symbol(w, req)
		default:
			pprof.Index(w, req)
		}
		return
	}

	switch req.URL.Path {
	case "/metrics/process":
		h.promHandler.ServeHTTP(w, req)
	case "/ping":
		fmt.Fprintln(w, "pong")
	case "/ready":
		fmt.Fprintln(w, "ok")
	default:
		http.NotFound(w, req)
	}
}
