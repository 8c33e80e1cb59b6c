package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/logger"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
)

type globalOptions struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the archsim command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "archsim",
		Short: "archsim estimates capacity, latency and failure impact of an architecture",
		Long: `archsim evaluates an architecture diagram (components, edges and a traffic
profile) with a closed-form capacity model, injects failures into it and
reports the resulting bottlenecks, timeline and blast radius.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewWithFormat(opts.logFormat, opts.logLevel, cmd.ErrOrStderr()))
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	root.AddCommand(
		newSimulateCommand(),
		newInjectCommand(),
		newCompareCommand(),
		newOptimizeCommand(),
		newValidateCommand(),
		newServeCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addOutputFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "output", "o", outputText, "output format (text, json)")
}

func checkOutputFormat(format string) error {
	switch format {
	case outputText, outputJSON:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text or json)", format)
}
