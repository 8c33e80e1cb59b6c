package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
)

func newValidateCommand() *cobra.Command {
	var scenarios string

	cmd := &cobra.Command{
		Use:   "validate <architecture-file...>",
		Short: "Parse and check architecture files without simulating",
		Long: `The validate command parses one or more architecture files and checks
their components, edges and traffic profile. With --scenarios, every scenario
is also checked against each architecture, including that targets exist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var set *config.ScenarioSet
			if scenarios != "" {
				var err error
				if set, err = config.LoadScenarioSet(scenarios); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				in, err := config.LoadInput(path)
				if err == nil && set != nil {
					for _, p := range set.Scenarios {
						if err = config.ValidateFailureProfile(p, in); err != nil {
							break
						}
					}
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "ok   %s (%d components, %d edges)\n", path, len(in.Components), len(in.Edges))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed validation", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&scenarios, "scenarios", "s", "", "scenario set to check against each architecture")
	return cmd
}
