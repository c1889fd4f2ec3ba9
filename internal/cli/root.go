package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/core/config"
	"github.com/vietddude/nodewatch/internal/infra/chain/clique"
	"github.com/vietddude/nodewatch/internal/infra/rpc"
	"github.com/vietddude/stylelog"
)

var (
	cfgPath string
	isDebug bool

	cfg *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "nodewatch",
	Short: "Health and liveness tooling for a clique chain node",
	Long: `nodewatch classifies the liveness of a proof-of-authority chain client from its
/health endpoint and clique signer set, and edits the network chainspec.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}

	slog.Error("Command failed", "error", err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "config file (YAML, or TOML by extension)")
	rootCmd.PersistentFlags().BoolVar(&isDebug, "debug", false, "enable debug logging")
}

func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	// Load Configuration
	loaded, err := config.Load(cfgPath)
	if err != nil {
		stylelog.InitDefault()
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg = loaded

	// Setup logging
	stylelog.InitDefault(&tint.Options{
		Level:      logLevel(cfg.Logging.Level),
		TimeFormat: time.RFC3339,
	})
	return nil
}

func logLevel(level string) slog.Level {
	if isDebug {
		return slog.LevelDebug
	}
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newAdapter() (*clique.Adapter, *rpc.HTTPProvider) {
	p := rpc.NewHTTPProvider(cfg.Node.Name, cfg.Node.RPCURL, cfg.Node.Timeout)
	return clique.NewAdapter(p, cfg.Node.HealthURL), p
}
