package cmd

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string // overrides UTXO_CONFIG
	LogLevel   string // overrides LOG_LEVEL
}

// NewRootCommand creates the root command of the cardano-utxo CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cardano-utxo",
		Short: "Coin selection over multi-asset Cardano UTxOs",
		Long: `Pick the inputs that pay for a set of outputs, either once from a
request document (select) or from a persisted vault behind an http server (serve).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "configuration file (default $"+ENV_CONFIG_FILE_PATH+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "debug, info or production")

	cmd.AddCommand(NewSelectCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}
