package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/archsim-core/internal/failure"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/config"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func newInjectCommand() *cobra.Command {
	var (
		file          string
		output        string
		profile       models.FailureInjectionProfile
		mode          string
		requireTarget bool
	)

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Inject a failure and report the perturbed run and its blast radius",
		Example: `  archsim inject -f checkout.yaml --mode node-down --target db
  archsim inject -f checkout.yaml --mode az-down --az az-a
  archsim inject -f checkout.yaml --mode dependency-lag --target orders --lag-ms 400
  archsim inject -f checkout.yaml --mode traffic-surge --surge 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutputFormat(output); err != nil {
				return err
			}
			in, err := config.LoadInput(file)
			if err != nil {
				return err
			}

			profile.Mode = models.FailureMode(mode)
			var target *models.SimulationInput
			if requireTarget {
				target = in
			}
			if err := config.ValidateFailureProfile(profile, target); err != nil {
				return fmt.Errorf("invalid failure profile: %w", err)
			}

			outcome := failure.Simulate(*in, profile)
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), outcome)
			}
			return printInjection(cmd.OutOrStdout(), outcome)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "architecture file (YAML or JSON)")
	cmd.Flags().StringVar(&mode, "mode", "", "failure mode (node-down, az-down, dependency-lag, traffic-surge)")
	cmd.Flags().StringVar(&profile.TargetComponentID, "target", "", "target component id for node-down and dependency-lag")
	cmd.Flags().StringVar(&profile.AZName, "az", "", "availability zone for az-down (az-a, az-b)")
	cmd.Flags().Float64Var(&profile.LagMs, "lag-ms", 0, "added latency for dependency-lag (default 250)")
	cmd.Flags().Float64Var(&profile.SurgeMultiplier, "surge", 0, "baseline multiplier for traffic-surge (default 2)")
	cmd.Flags().BoolVar(&requireTarget, "require-target", false, "fail when the target component does not exist")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("mode")
	return cmd
}
