package commands

import (
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/archsim-core/internal/engine"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
)

func newSimulateCommand() *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Evaluate an architecture under its declared traffic profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			in, err := config.LoadInput(file)
			if err != nil {
				return err
			}

			result := engine.Run(*in)
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "architecture file (YAML or JSON)")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
