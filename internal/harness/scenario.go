package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Dictionary is the CUE file or directory defining the Data Dictionary.
	// Relative paths are resolved against the scenario file.
	Dictionary string `yaml:"dictionary"`

	// IDS names the IDS the data belongs to.
	IDS string `yaml:"ids"`

	// Data is the document content as a nested map, in the form accepted
	// by ids.Fill.
	Data map[string]any `yaml:"data"`

	// Mutations are applied in order after Data.
	Mutations []Mutation `yaml:"mutations,omitempty"`

	// Assertions are evaluated against the Result.
	Assertions []Assertion `yaml:"assertions"`
}

// Mutation assigns a value to one node after the document is filled.
//
// For a leaf, Value is converted as by Leaf.SetValue and a null value
// clears it. For an array of structures, Value is the new length.
type Mutation struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

// Assertion checks one property of the Result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Contains is a substring of the validation error (invalid).
	Contains string `yaml:"contains,omitempty"`

	// Variable is a tensor set variable name (sparse, dense, dims).
	Variable string `yaml:"variable,omitempty"`

	// Name is a tensor set dimension name (dimension).
	Name string `yaml:"name,omitempty"`

	// Size is the expected dimension size (dimension).
	Size *int `yaml:"size,omitempty"`

	// Dims are the expected dimensions of Variable (dims).
	Dims []string `yaml:"dims,omitempty"`

	// Count is the expected number of skipped variables (skipped).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertValid     = "valid"
	AssertInvalid   = "invalid"
	AssertRoundTrip = "roundtrip"
	AssertSparse    = "sparse"
	AssertDense     = "dense"
	AssertDimension = "dimension"
	AssertDims      = "dims"
	AssertSkipped   = "skipped"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The dictionary path is resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so typos like "assertion:" surface
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Dictionary != "" && !filepath.IsAbs(scenario.Dictionary) {
		scenario.Dictionary = filepath.Join(filepath.Dir(path), scenario.Dictionary)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and well-formed.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Dictionary == "" {
		return fmt.Errorf("dictionary is required")
	}
	if _, err := os.Stat(s.Dictionary); os.IsNotExist(err) {
		return fmt.Errorf("dictionary not found: %s", s.Dictionary)
	}
	if s.IDS == "" {
		return fmt.Errorf("ids is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, m := range s.Mutations {
		if m.Path == "" {
			return fmt.Errorf("mutations[%d]: path is required", i)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertValid, AssertInvalid, AssertRoundTrip:
	case AssertSparse, AssertDense:
		if a.Variable == "" {
			return fmt.Errorf("assertions[%d]: variable is required for %s", index, a.Type)
		}
	case AssertDims:
		if a.Variable == "" {
			return fmt.Errorf("assertions[%d]: variable is required for dims", index)
		}
	case AssertDimension:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for dimension", index)
		}
		if a.Size == nil || *a.Size < 0 {
			return fmt.Errorf("assertions[%d]: non-negative size is required for dimension", index)
		}
	case AssertSkipped:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for skipped", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
