package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

const (
	checkoutFile = "../../../config/architectures/checkout.yaml"
	outagesFile  = "../../../config/scenarios/outages.yaml"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulateText(t *testing.T) {
	out, err := runCLI(t, "simulate", "-f", checkoutFile)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	for _, want := range []string{"METRIC", "throughput rps", "COMPONENT", "orders"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestSimulateJSON(t *testing.T) {
	out, err := runCLI(t, "simulate", "-f", checkoutFile, "-o", "json")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	var result models.SimulationResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if result.Metrics.PeakRPS != 4500 {
		t.Errorf("expected peak rps 4500, got %v", result.Metrics.PeakRPS)
	}
	if len(result.ComponentLoads) != 7 {
		t.Errorf("expected 7 component loads, got %d", len(result.ComponentLoads))
	}
}

func TestSimulateRejectsUnknownOutput(t *testing.T) {
	if _, err := runCLI(t, "simulate", "-f", checkoutFile, "-o", "xml"); err == nil {
		t.Fatalf("expected an error for unknown output format")
	}
}

func TestSimulateMissingFile(t *testing.T) {
	if _, err := runCLI(t, "simulate", "-f", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestInjectNodeDown(t *testing.T) {
	out, err := runCLI(t, "inject", "-f", checkoutFile, "--mode", "node-down", "--target", "db", "-o", "json")
	if err != nil {
		t.Fatalf("inject failed: %v", err)
	}
	var outcome struct {
		Injection   models.InjectionResult    `json:"injection"`
		BlastRadius models.BlastRadiusSummary `json:"blast_radius"`
	}
	if err := json.Unmarshal([]byte(out), &outcome); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if len(outcome.Injection.ImpactedComponentIDs) != 1 || outcome.Injection.ImpactedComponentIDs[0] != "db" {
		t.Errorf("expected db impacted, got %v", outcome.Injection.ImpactedComponentIDs)
	}
	if outcome.BlastRadius.Mode != models.FailureNodeDown {
		t.Errorf("expected node-down blast radius, got %s", outcome.BlastRadius.Mode)
	}
}

func TestInjectText(t *testing.T) {
	out, err := runCLI(t, "inject", "-f", checkoutFile, "--mode", "traffic-surge", "--surge", "3")
	if err != nil {
		t.Fatalf("inject failed: %v", err)
	}
	if !strings.Contains(out, "traffic surged") {
		t.Errorf("expected surge note in output:\n%s", out)
	}
	if !strings.Contains(out, "estimated user impact") {
		t.Errorf("expected blast radius summary in output:\n%s", out)
	}
}

func TestInjectValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing mode", []string{"inject", "-f", checkoutFile}},
		{"unknown mode", []string{"inject", "-f", checkoutFile, "--mode", "meteor"}},
		{"node-down without target", []string{"inject", "-f", checkoutFile, "--mode", "node-down"}},
		{"az-down without zone", []string{"inject", "-f", checkoutFile, "--mode", "az-down"}},
		{"unknown target when required", []string{"inject", "-f", checkoutFile, "--mode", "node-down", "--target", "ghost", "--require-target"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestCompare(t *testing.T) {
	out, err := runCLI(t, "compare", "-f", checkoutFile, "-s", outagesFile, "-o", "json")
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	var report struct {
		MostDisruptive string `json:"most_disruptive"`
		Outcomes       []struct {
			Name        string                    `json:"name"`
			Rank        int                       `json:"rank"`
			BlastRadius models.BlastRadiusSummary `json:"blast_radius"`
		} `json:"outcomes"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if len(report.Outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(report.Outcomes))
	}
	if report.MostDisruptive != report.Outcomes[0].Name {
		t.Errorf("expected most disruptive to be rank 1, got %q vs %q", report.MostDisruptive, report.Outcomes[0].Name)
	}
	for i := 1; i < len(report.Outcomes); i++ {
		prev, cur := report.Outcomes[i-1], report.Outcomes[i]
		if cur.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, cur.Rank)
		}
		if cur.BlastRadius.EstimatedUserImpactPercent > prev.BlastRadius.EstimatedUserImpactPercent {
			t.Errorf("outcomes not ordered by impact at %d", i)
		}
	}
}

func TestCompareText(t *testing.T) {
	out, err := runCLI(t, "compare", "-f", checkoutFile, "-s", outagesFile)
	if err != nil {
		t.Fatalf("compare failed: %v", err)
	}
	for _, want := range []string{"Scenario set: checkout-outages", "RANK", "Most disruptive:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestValidate(t *testing.T) {
	out, err := runCLI(t, "validate", checkoutFile, "-s", outagesFile)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.HasPrefix(out, "ok") {
		t.Errorf("expected ok line, got:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("components: []\nedges: []\ntraffic_profile: {baseline_rps: 0}\n"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	out, err = runCLI(t, "validate", checkoutFile, bad)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(out, "FAIL "+bad) {
		t.Errorf("expected FAIL line for %s, got:\n%s", bad, out)
	}
}

func TestOptimize(t *testing.T) {
	out, err := runCLI(t, "optimize", "-f", checkoutFile, "--objective", "cost", "--max-iterations", "60", "-o", "json")
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	var result struct {
		InitialScore float64 `json:"initial_score"`
		BestScore    float64 `json:"best_score"`
		History      []struct {
			Score float64 `json:"score"`
		} `json:"history"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if result.BestScore > result.InitialScore {
		t.Errorf("expected best score not above initial: %v > %v", result.BestScore, result.InitialScore)
	}
	if len(result.History) == 0 {
		t.Fatalf("expected history to include the initial step")
	}

	out, err = runCLI(t, "optimize", "-f", checkoutFile, "--fixed-tiers", "--max-iterations", "3")
	if err != nil {
		t.Fatalf("optimize failed: %v", err)
	}
	if !strings.Contains(out, "Objective: cost") {
		t.Errorf("expected objective header, got:\n%s", out)
	}

	if _, err := runCLI(t, "optimize", "-f", checkoutFile, "--objective", "vibes"); err == nil {
		t.Fatalf("expected an error for unknown objective")
	}
}
