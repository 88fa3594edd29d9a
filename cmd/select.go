package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TEENet-io/cardano-utxo/binding"
	"github.com/TEENet-io/cardano-utxo/common"
	"github.com/TEENet-io/cardano-utxo/logconfig"
	"github.com/TEENet-io/cardano-utxo/reporter"
)

// ErrInsufficient is returned when the inputs cannot pay for the outputs.
var ErrInsufficient = errors.New("insufficient")

type SelectOptions struct {
	Format       string // json | yaml, guessed from the file name if empty
	ThresholdAda string // minimal change in ADA, overrides the request
	Remote       string // url of a running server, select locally if empty
}

// NewSelectCommand creates the select command.
func NewSelectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SelectOptions{}

	cmd := &cobra.Command{
		Use:   "select [request-file]",
		Short: "Select inputs for the outputs of a request document",
		Long: `Read a request {inputs, outputs, threshold} as JSON or YAML from a file
(or stdin when omitted or "-") and print {selected, unselected, excess} as JSON.

Exits non-zero with "insufficient" when the inputs cannot cover the outputs
plus threshold.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSelect(rootOpts, opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "", "request format (json|yaml)")
	cmd.Flags().StringVar(&opts.ThresholdAda, "min-change", "", "minimal lovelace left as change, in ADA (eg. 1.5)")
	cmd.Flags().StringVar(&opts.Remote, "remote", "", "select through a running server, eg. http://127.0.0.1:8080")

	return cmd
}

func runSelect(rootOpts *RootOptions, opts *SelectOptions, path string, cmd *cobra.Command) error {
	if rootOpts.LogLevel != "" {
		logconfig.ConfigFromString(rootOpts.LogLevel)
	}
	if opts.Format != "" && opts.Format != binding.FORMAT_JSON && opts.Format != binding.FORMAT_YAML {
		return fmt.Errorf("invalid format %q: must be json or yaml", opts.Format)
	}

	req, err := readRequest(path, opts.Format, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if opts.ThresholdAda != "" {
		lovelace, err := common.AdaToLovelace(opts.ThresholdAda)
		if err != nil {
			return fmt.Errorf("min-change: %w", err)
		}
		if req.Threshold == nil {
			req.Threshold = &binding.Output{}
		}
		req.Threshold.Lovelace = lovelace
	}

	var (
		res *binding.SelectResult
		ok  bool
	)
	if opts.Remote != "" {
		res, ok, err = reporter.NewHttpReader(opts.Remote).PostSelect(req)
	} else {
		res, ok, err = binding.Select(req)
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrInsufficient
	}

	return binding.EncodeResult(cmd.OutOrStdout(), res)
}
