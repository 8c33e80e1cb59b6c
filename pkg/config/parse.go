package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/GoSim-25-26J-441/archsim-core/pkg/models"
)

// ParseInputYAML parses an architecture document from YAML bytes, fills
// defaults and validates it.
// This is used for APIs where the document is provided as payload (not via filesystem).
func ParseInputYAML(data []byte) (*models.SimulationInput, error) {
	var in models.SimulationInput
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse architecture yaml: %w", err)
	}
	return finishInput(&in)
}

// ParseInputYAMLString parses an architecture document from a YAML string.
func ParseInputYAMLString(yamlText string) (*models.SimulationInput, error) {
	return ParseInputYAML([]byte(yamlText))
}

// ParseInputJSON parses an architecture document from JSON bytes. Unknown
// fields are rejected.
func ParseInputJSON(data []byte) (*models.SimulationInput, error) {
	var in models.SimulationInput
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("failed to parse architecture json: %w", err)
	}
	return finishInput(&in)
}

func finishInput(in *models.SimulationInput) (*models.SimulationInput, error) {
	ApplyInputDefaults(in)
	if err := ValidateInput(in); err != nil {
		return nil, fmt.Errorf("invalid architecture: %w", err)
	}
	return in, nil
}

// ParseScenarioSetYAML parses and validates a list of failure profiles.
func ParseScenarioSetYAML(data []byte) (*ScenarioSet, error) {
	var set ScenarioSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse scenario yaml: %w", err)
	}
	if err := validateScenarioSet(&set); err != nil {
		return nil, fmt.Errorf("invalid scenario set: %w", err)
	}
	return &set, nil
}

// ParseScenarioSetYAMLString parses a scenario set from a YAML string.
func ParseScenarioSetYAMLString(yamlText string) (*ScenarioSet, error) {
	return ParseScenarioSetYAML([]byte(yamlText))
}
