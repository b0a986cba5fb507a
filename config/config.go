package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ResourcesConfig struct {
	CsvPath    string `json:"csvPath" yaml:"csvPath"`
	SqlitePath string `json:"sqlitePath" yaml:"sqlitePath"`
}

// MultiStageConfig enables the multi-stage formulation. The opex multiplier is either given explicitly or derived
// from the stage length and the weighted average cost of capital.
type MultiStageConfig struct {
	StageLengthYears int     `json:"stageLengthYears" yaml:"stageLengthYears"`
	WACC             float64 `json:"wacc" yaml:"wacc"`
	OpexMultiplier   float64 `json:"opexMultiplier" yaml:"opexMultiplier"`
}

type OutputConfig struct {
	LpPath     string `json:"lpPath" yaml:"lpPath"`         // where to write the program in LP format, skipped if empty
	RunsDbPath string `json:"runsDbPath" yaml:"runsDbPath"` // sqlite database that records each run, skipped if empty
}

type Config struct {
	Resources  ResourcesConfig   `json:"resources" yaml:"resources"`
	Zones      []int             `json:"zones" yaml:"zones"` // defaults to the zones of the resource table
	MultiStage *MultiStageConfig `json:"multiStage" yaml:"multiStage"`
	Solve      bool              `json:"solve" yaml:"solve"`
	Output     OutputConfig      `json:"output" yaml:"output"`
}

// Read loads the config at `path`, YAML is used for .yaml and .yml files and JSON otherwise.
func Read(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &config)
	default:
		err = json.Unmarshal(content, &config)
	}
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	return config, nil
}

// Validate checks that the config is usable.
func (c *Config) Validate() error {
	if (c.Resources.CsvPath == "") == (c.Resources.SqlitePath == "") {
		return errors.New("exactly one of resources.csvPath and resources.sqlitePath must be set")
	}

	if c.MultiStage != nil {
		ms := c.MultiStage
		if ms.OpexMultiplier < 0 {
			return fmt.Errorf("multiStage.opexMultiplier must be >= 0, got %v", ms.OpexMultiplier)
		}
		if ms.OpexMultiplier == 0 {
			if ms.StageLengthYears < 1 {
				return fmt.Errorf("multiStage.stageLengthYears must be >= 1 when no opexMultiplier is given, got %d", ms.StageLengthYears)
			}
			if ms.WACC <= -1 {
				return fmt.Errorf("multiStage.wacc must be > -1, got %v", ms.WACC)
			}
		}
	}

	return nil
}

// IsMultiStage returns true if the multi-stage formulation is enabled.
func (c *Config) IsMultiStage() bool {
	return c.MultiStage != nil
}

// OpexMultiplier returns the factor the host applies to yearly operating costs across a stage, or 1 when
// multi-stage is disabled.
func (c *Config) OpexMultiplier() float64 {
	if c.MultiStage == nil {
		return 1
	}
	if c.MultiStage.OpexMultiplier > 0 {
		return c.MultiStage.OpexMultiplier
	}
	return OpexMultiplier(c.MultiStage.StageLengthYears, c.MultiStage.WACC)
}

// OpexMultiplier returns the sum of the discount factors for each year of a stage, with the first year undiscounted:
//
//	sum_{i=1..years} 1/(1+wacc)^(i-1)
func OpexMultiplier(years int, wacc float64) float64 {
	total := 0.0
	for i := 0; i < years; i++ {
		total += 1 / math.Pow(1+wacc, float64(i))
	}
	return total
}
