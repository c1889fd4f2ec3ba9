package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/monitoring/health"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the node once and exit with its verdict",
	Long: `Check fetches the node's health report (and signer snapshot when needed),
classifies it and exits with:

  0  healthy, or a non-signer that is idle as expected
  1  genuine fault (stalled signer or other unhealthy state)
  2  indeterminate (health or RPC data could not be obtained)`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	adapter, p := newAdapter()
	defer func() {
		_ = p.Close()
	}()

	r := health.NewChecker(cfg.Node.Name, adapter).Check(cmd.Context())

	out := cmd.OutOrStdout()
	if checkJSON {
		data, err := json.Marshal(r)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(data))
	} else {
		_, _ = fmt.Fprintln(out, summary(r))
	}

	if code := r.ExitCode(); code != health.ExitHealthy {
		return &ExitError{Code: code}
	}
	return nil
}

func summary(r health.Result) string {
	if r.Outcome == health.OutcomeIndeterminate {
		return fmt.Sprintf("%s: %s (%v)", r.Node, r.Outcome, r.Err)
	}
	return fmt.Sprintf("%s: %s (%s)", r.Node, r.Outcome, r.Reason())
}
