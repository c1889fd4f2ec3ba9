package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/infra/chain/clique"
	redisclient "github.com/vietddude/nodewatch/internal/infra/redis"
	"github.com/vietddude/nodewatch/internal/infra/rpc"
	"github.com/vietddude/nodewatch/internal/monitoring/health"
	"github.com/vietddude/nodewatch/internal/monitoring/metrics"
	"github.com/vietddude/nodewatch/internal/monitoring/scan"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// Watcher owns the long-running components of `nodewatch watch`.
type Watcher struct {
	cfg          Config
	provider     *rpc.HTTPProvider
	poller       *health.Poller
	scanner      *scan.Scanner
	healthServer *health.Server
	redisClient  *redisclient.Client
	log          *slog.Logger
}

// Config holds the watcher configuration.
type Config struct {
	Node   config.NodeConfig
	Poll   config.PollConfig
	Server config.ServerConfig
	Redis  redisclient.Config
	Scan   bool // also run the chain status scanner
}

// NewWatcher creates a new Watcher instance with all dependencies initialized.
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.Poll.Interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.Poll.Interval)
	}

	log := slog.Default().With("node", cfg.Node.Name)

	provider := rpc.NewHTTPProvider(cfg.Node.Name, cfg.Node.RPCURL, cfg.Node.Timeout)
	adapter := clique.NewAdapter(provider, cfg.Node.HealthURL)

	w := &Watcher{
		cfg:      cfg,
		provider: provider,
		log:      log,
	}

	var sinks []health.Sink
	if cfg.Redis.Enabled() {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			_ = provider.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		w.redisClient = client
		sinks = append(sinks, redisclient.NewVerdictPublisher(client, 2*cfg.Poll.Interval))
		log.Info("Publishing verdicts to Redis", "key", redisclient.VerdictKey(cfg.Node.Name))
	}

	w.poller = health.NewPoller(health.NewChecker(cfg.Node.Name, adapter), cfg.Poll.Interval, sinks...)
	w.healthServer = health.NewServer(w.poller, cfg.Server.Port)

	if cfg.Scan {
		w.scanner = scan.NewScanner(cfg.Node.Name, adapter, cfg.Poll.ScanInterval)
	}

	return w, nil
}

// Poller returns the health poller, which also serves the latest result.
func (w *Watcher) Poller() *health.Poller {
	return w.poller
}

// Run starts every component and blocks until ctx is cancelled or one of
// them fails. The status server is shut down before Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return w.poller.Run(gctx)
	})

	if w.scanner != nil {
		g.Go(func() error {
			return w.scanner.Run(gctx)
		})
	}

	g.Go(func() error {
		w.log.Info("Status server listening", "port", w.cfg.Server.Port)
		return w.healthServer.Start()
	})

	g.Go(func() error {
		w.runMetricsUpdater(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return w.healthServer.Stop(shutdownCtx)
	})

	return g.Wait()
}

// Stop releases the watcher's connections. Call it after Run returns.
func (w *Watcher) Stop() error {
	w.log.Info("Stopping Watcher...")

	// Close Redis
	if w.redisClient != nil {
		if err := w.redisClient.Close(); err != nil {
			w.log.Warn("Failed to close Redis", "error", err)
		}
	}

	return w.provider.Close()
}

func (w *Watcher) runMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.Poll.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.updateProviderMetrics()
		}
	}
}

func (w *Watcher) updateProviderMetrics() {
	h := w.provider.GetHealth()
	name := w.provider.GetName()
	metrics.ProviderAvailable.WithLabelValues(name).Set(metrics.BoolValue(h.Available))
	metrics.ProviderErrorRate.WithLabelValues(name).Set(h.ErrorRate)
	w.log.Debug("Updating RPC metrics", "provider", name, "error_rate", h.ErrorRate)
}
