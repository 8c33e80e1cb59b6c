package commands

import (
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/archsim-core/internal/improvement"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
)

func newOptimizeCommand() *cobra.Command {
	var (
		file          string
		output        string
		objectiveName string
		maxIterations int
		maxReplicas   int
		fixedTiers    bool
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Search for replica counts and tiers that improve an objective",
		Long: `optimize hill-climbs over replica counts and vertical tiers, one change per
step, re-evaluating the architecture after each change. Objectives:
  cost            smallest footprint with every component at or below 80% utilization
  p95_latency_ms  lowest p95 latency
  error_rate      lowest error rate
  throughput_rps  highest served throughput`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			objective, err := improvement.NewObjectiveFunction(objectiveName)
			if err != nil {
				return err
			}
			in, err := config.LoadInput(file)
			if err != nil {
				return err
			}

			explorer := improvement.NewDefaultExplorer().WithTiers(!fixedTiers).WithMaxReplicas(maxReplicas)
			result, err := improvement.NewOptimizer(objective, maxIterations).
				WithExplorer(explorer).
				Optimize(cmd.Context(), *in)
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printOptimization(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "architecture file (YAML or JSON)")
	cmd.Flags().StringVar(&objectiveName, "objective", string(improvement.ObjectiveMinimizeCost), "objective to optimize")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", improvement.DefaultMaxIterations, "maximum accepted changes")
	cmd.Flags().IntVar(&maxReplicas, "max-replicas", 20, "upper bound on replicas per component")
	cmd.Flags().BoolVar(&fixedTiers, "fixed-tiers", false, "only change replica counts")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
