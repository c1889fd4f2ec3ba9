package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/monitoring/scan"
)

var scanOnce bool

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Periodically gather health, sync state, head block and signers",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanOnce, "once", false, "scan once, print the status as JSON and exit")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	adapter, p := newAdapter()
	defer func() {
		_ = p.Close()
	}()

	scanner := scan.NewScanner(cfg.Node.Name, adapter, cfg.Poll.ScanInterval)

	if scanOnce {
		status, err := scanner.Once(cmd.Context())
		data, mErr := json.MarshalIndent(status, "", "  ")
		if mErr != nil {
			return mErr
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return scanner.Run(ctx)
}
