package cli

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/control"
)

var watchScan bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the node continuously and serve the latest verdict",
	Long: `Watch checks the node every poll interval and serves the latest result on
/health and Prometheus metrics on /metrics. When redis.url is configured the
latest result is also published to Redis with an expiry.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchScan, "scan", false, "also run the chain status scanner")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := control.NewWatcher(control.Config{
		Node:   cfg.Node,
		Poll:   cfg.Poll,
		Server: cfg.Server,
		Redis:  cfg.Redis,
		Scan:   watchScan,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(); err != nil {
			slog.Warn("Failed to stop watcher", "error", err)
		}
	}()

	err = app.Run(ctx)
	slog.Info("Watcher stopped", "node", cfg.Node.Name)
	return err
}
