package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/vietddude/nodewatch/internal/chainspec"
)

var (
	genesisSpecPath string
	genesisEnvPath  string
)

var setGenesisCmd = &cobra.Command{
	Use:   "set-genesis",
	Short: "Set the chainspec genesis extraData to seal with the configured signer",
	Long: `Set-genesis reads the signer wallet from the override env file, computes the
clique genesis extraData and writes it to genesis.extraData in the chainspec.
Only the genesis validator of the network should run this.`,
	RunE: runSetGenesis,
}

func init() {
	setGenesisCmd.Flags().StringVar(&genesisSpecPath, "spec", "", "chainspec path (default from config)")
	setGenesisCmd.Flags().StringVar(&genesisEnvPath, "env", "", "override env file path (default from config)")
	rootCmd.AddCommand(setGenesisCmd)
}

func runSetGenesis(cmd *cobra.Command, args []string) error {
	specPath := cfg.Chainspec.SpecPath
	if genesisSpecPath != "" {
		specPath = genesisSpecPath
	}
	envPath := cfg.Chainspec.EnvPath
	if genesisEnvPath != "" {
		envPath = genesisEnvPath
	}

	signer, err := chainspec.SignerFromEnv(envPath, cfg.Chainspec.SignerKey)
	if err != nil {
		return err
	}

	extraData, err := chainspec.ExtraData(signer)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "Genesis EXTRA_DATA:")
	_, _ = fmt.Fprintln(out, extraData)

	if err := chainspec.SetGenesisExtraData(specPath, extraData); err != nil {
		return err
	}

	slog.Info("Chainspec updated", "path", specPath, "signer", signer)
	_, _ = fmt.Fprintf(out, "%s updated\n", specPath)
	return nil
}
