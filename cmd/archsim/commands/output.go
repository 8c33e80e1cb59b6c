package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/GoSim-25-26J-441/archsim-core/internal/failure"
	"github.com/GoSim-25-26J-441/archsim-core/internal/improvement"
	"github.com/GoSim-25-26J-441/archsim-core/internal/scenario"
	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printResult(w io.Writer, result models.SimulationResult) error {
	if err := printMetrics(w, result.Metrics); err != nil {
		return err
	}
	if err := printComponentLoads(w, result.ComponentLoads); err != nil {
		return err
	}
	if err := printBottlenecks(w, result.Bottlenecks); err != nil {
		return err
	}
	return printTimeline(w, result.Timeline)
}

func printMetrics(w io.Writer, m models.SimulationMetrics) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "METRIC\tVALUE")
	fmt.Fprintf(tw, "peak rps\t%.0f\n", m.PeakRPS)
	fmt.Fprintf(tw, "adjusted demand rps\t%.0f (burst x%.2f)\n", m.AdjustedDemandRPS, m.BurstFactor)
	fmt.Fprintf(tw, "capacity rps\t%.0f\n", m.CapacityRPS)
	fmt.Fprintf(tw, "throughput rps\t%.0f\n", m.ThroughputRPS)
	fmt.Fprintf(tw, "p50 latency ms\t%.1f\n", m.P50LatencyMs)
	fmt.Fprintf(tw, "p95 latency ms\t%.1f\n", m.P95LatencyMs)
	fmt.Fprintf(tw, "error rate %%\t%.2f\n", m.ErrorRatePercent)
	fmt.Fprintf(tw, "saturated\t%t\n", m.Saturated)
	return tw.Flush()
}

func printComponentLoads(w io.Writer, loads []models.ComponentLoad) error {
	if len(loads) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "COMPONENT\tTYPE\tCAPACITY RPS\tREQUIRED RPS\tUTILIZATION %")
	for _, l := range loads {
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.1f\n", l.ComponentID, l.ComponentType, l.CapacityRPS, l.RequiredRPS, l.UtilizationPercent)
	}
	return tw.Flush()
}

func printBottlenecks(w io.Writer, bottlenecks []models.Bottleneck) error {
	fmt.Fprintln(w)
	if len(bottlenecks) == 0 {
		fmt.Fprintln(w, "No bottlenecks.")
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "BOTTLENECK\tSEVERITY\tUTILIZATION %\tREASON")
	for _, b := range bottlenecks {
		fmt.Fprintf(tw, "%s\t%s\t%.1f\t%s\n", b.ComponentID, b.Severity, b.UtilizationPercent, b.Reason)
	}
	return tw.Flush()
}

func printTimeline(w io.Writer, events []models.TimelineEvent) error {
	if len(events) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "T+S\tSEVERITY\tEVENT")
	for _, e := range events {
		fmt.Fprintf(tw, "%.0f\t%s\t%s: %s\n", e.ElapsedSeconds, e.Severity, e.Title, e.Description)
	}
	return tw.Flush()
}

func printInjection(w io.Writer, outcome failure.Outcome) error {
	fmt.Fprintf(w, "Impacted: %s\n", joinOrNone(outcome.Injection.ImpactedComponentIDs))
	for _, note := range outcome.Injection.Notes {
		fmt.Fprintf(w, "  - %s\n", note)
	}
	fmt.Fprintln(w)
	if err := printResult(w, outcome.Result); err != nil {
		return err
	}
	return printBlastRadius(w, outcome.BlastRadius)
}

func printBlastRadius(w io.Writer, br models.BlastRadiusSummary) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, br.Summary)
	if len(br.ImpactedComponents) == 0 {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "IMPACTED\tTYPE\tSEVERITY\tUTILIZATION %")
	for _, c := range br.ImpactedComponents {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\n", c.ComponentID, c.ComponentType, c.Severity, c.UtilizationPercent)
	}
	return tw.Flush()
}

func printReport(w io.Writer, setName string, report *scenario.Report) error {
	if setName != "" {
		fmt.Fprintf(w, "Scenario set: %s\n", setName)
	}
	fmt.Fprintf(w, "Baseline: throughput %.0f rps, p95 %.1f ms, errors %.2f%%\n\n",
		report.Baseline.Metrics.ThroughputRPS, report.Baseline.Metrics.P95LatencyMs, report.Baseline.Metrics.ErrorRatePercent)

	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tSCENARIO\tUSER IMPACT %\tCRITICAL\tDELTA RPS\tDELTA P95 MS\tDELTA ERRORS %")
	for _, o := range report.Outcomes {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%d\t%+.0f\t%+.1f\t%+.2f\n",
			o.Rank, o.Name, o.BlastRadius.EstimatedUserImpactPercent, o.BlastRadius.CriticalCount,
			o.Delta.ThroughputRPS, o.Delta.P95LatencyMs, o.Delta.ErrorRatePercent)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\nMost disruptive: %s\n", report.MostDisruptive)
	return nil
}

func printOptimization(w io.Writer, result *improvement.OptimizationResult) error {
	fmt.Fprintf(w, "Objective: %s (score %.3f -> %.3f, %.1f%% better)\n",
		result.Objective, result.InitialScore, result.BestScore, result.ImprovementPercent)
	fmt.Fprintf(w, "Stopped after %d step(s): %s\n\n", result.Iterations, result.ConvergenceReason)

	if len(result.Adjustments) == 0 {
		fmt.Fprintln(w, "No changes recommended.")
	} else {
		tw := newTable(w)
		fmt.Fprintln(tw, "COMPONENT\tFIELD\tFROM\tTO")
		for _, a := range result.Adjustments {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.ComponentID, a.Field, a.From, a.To)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	tw := newTable(w)
	fmt.Fprintln(tw, "METRIC\tBEFORE\tAFTER")
	before, after := result.InitialMetrics, result.BestResult.Metrics
	fmt.Fprintf(tw, "throughput rps\t%.0f\t%.0f\n", before.ThroughputRPS, after.ThroughputRPS)
	fmt.Fprintf(tw, "p95 latency ms\t%.1f\t%.1f\n", before.P95LatencyMs, after.P95LatencyMs)
	fmt.Fprintf(tw, "error rate %%\t%.2f\t%.2f\n", before.ErrorRatePercent, after.ErrorRatePercent)
	fmt.Fprintf(tw, "saturated\t%t\t%t\n", before.Saturated, after.Saturated)
	return tw.Flush()
}

func joinOrNone(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	return strings.Join(ids, ", ")
}
