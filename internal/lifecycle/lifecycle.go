// Package lifecycle owns the process-wide singleton state spec.md §9
// describes: the statistics registry, its collator goroutine, the public
// metrics server, and the admin self-observability server, all lazily
// started exactly once on first instrumentation.
package lifecycle

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/chanconsole/chanconsole/internal/metricsrv"
	"github.com/chanconsole/chanconsole/internal/stats"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	initOnce sync.Once
	registry *stats.Registry
)

// Global returns the process-wide Registry, starting the collator and
// both HTTP servers on the first call. Bind failure on the public metrics
// server aborts the process with an actionable message naming the
// environment variable override, per spec.md §4.E; the admin server is
// best-effort (self-observability, not part of the channel-metrics
// contract) and only logs a warning on bind failure.
func Global() *stats.Registry {
	initOnce.Do(func() {
		registry = stats.NewRegistry()
		registry.Start()

		cfg, err := metricsrv.LoadConfig()
		if err != nil {
			log.WithError(err).Warn("chanconsole: falling back to default metrics config")
			cfg = metricsrv.Config{
				MetricsPort:  metricsrv.DefaultPort,
				EnableStream: true,
			}
		}

		metricsSrv := metricsrv.NewServer(registry, cfg.EnableStream)
		adminAddr := fmt.Sprintf("127.0.0.1:%d", cfg.ResolvedAdminPort())

		// Both listeners are bound concurrently and Wait returns once both
		// binds are done; the public metrics server starts serving as soon
		// as its own listener is bound, the admin server only after Wait.
		// Only the public metrics listener is fatal, per spec.md §4.E; the
		// admin listener is self-observability and degrades to a warning.
		var g errgroup.Group
		var adminLn net.Listener
		g.Go(func() error {
			return metricsSrv.Start(cfg.MetricsPort)
		})
		g.Go(func() error {
			ln, err := net.Listen("tcp", adminAddr)
			if err != nil {
				log.WithError(err).Warn("chanconsole: admin server failed to bind, self-observability disabled")
				return nil
			}
			adminLn = ln
			return nil
		})

		if err := g.Wait(); err != nil {
			log.WithError(err).Fatal("chanconsole: failed to start metrics server (override the port with CHANCONSOLE_METRICS_PORT)")
		}

		if adminLn != nil {
			adminSrv := metricsrv.NewAdminServer(adminAddr, registry)
			go func() {
				if err := adminSrv.Serve(adminLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.WithError(err).Warn("chanconsole: admin server stopped")
				}
			}()
		}
	})
	return registry
}
