package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evac/core/model"
)

// Outcome is the expected result of one strategy.
type Outcome struct {
	Assignment []int   `yaml:"assignment"`
	Cost       float64 `yaml:"cost"`
}

// Expected lists what a scenario asserts. Nil ratios must be undefined.
type Expected struct {
	Offline             Outcome  `yaml:"offline"`
	Online              Outcome  `yaml:"online"`
	CompetitiveRatio    *float64 `yaml:"competitive_ratio"`
	TheoreticalMaxRatio *float64 `yaml:"theoretical_max_ratio"`
	NormalizedRatio     *float64 `yaml:"normalized_ratio"`
}

// Scenario is a hand-checked instance with its expected solutions.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Instance    model.Instance `yaml:"instance"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
