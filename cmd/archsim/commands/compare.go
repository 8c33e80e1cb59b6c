package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
)

func newCompareCommand() *cobra.Command {
	var (
		file        string
		scenarios   string
		output      string
		maxParallel int
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank a set of failure scenarios by estimated user impact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			in, err := config.LoadInput(file)
			if err != nil {
				return err
			}
			set, err := config.LoadScenarioSet(scenarios)
			if err != nil {
				return err
			}
			for i, p := range set.Scenarios {
				if err := config.ValidateFailureProfile(p, in); err != nil {
					return fmt.Errorf("scenario %d (%s): %w", i, scenario.Name(p), err)
				}
			}

			report, err := scenario.Compare(cmd.Context(), *in, set.Scenarios, scenario.Options{MaxParallel: maxParallel})
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return printReport(cmd.OutOrStdout(), set.Name, report)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "architecture file (YAML or JSON)")
	cmd.Flags().StringVarP(&scenarios, "scenarios", "s", "", "scenario set file (YAML)")
	cmd.Flags().IntVar(&maxParallel, "parallel", 4, "maximum scenarios evaluated at once")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("scenarios")
	return cmd
}
