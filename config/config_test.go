package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile writes `content` into a temporary file with the given name and returns its path
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, []byte(content), 0o600)
	require.NoError(t, err)
	return path
}

func TestReadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"resources": {"csvPath": "resources.csv"},
		"zones": [1, 2],
		"multiStage": {"opexMultiplier": 8.5},
		"solve": true,
		"output": {"lpPath": "model.lp", "runsDbPath": "runs.sqlite"}
	}`)

	cfg, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "resources.csv", cfg.Resources.CsvPath)
	assert.Equal(t, []int{1, 2}, cfg.Zones)
	assert.True(t, cfg.IsMultiStage())
	assert.Equal(t, 8.5, cfg.OpexMultiplier())
	assert.True(t, cfg.Solve)
	assert.Equal(t, "model.lp", cfg.Output.LpPath)
	assert.Equal(t, "runs.sqlite", cfg.Output.RunsDbPath)
}

func TestReadYAML(t *testing.T) {
	path := writeFile(t, "config.yml", `
resources:
  sqlitePath: resources.sqlite
multiStage:
  stageLengthYears: 2
  wacc: 0.25
`)

	cfg, err := Read(path)
	require.NoError(t, err)

	assert.Equal(t, "resources.sqlite", cfg.Resources.SqlitePath)
	assert.Nil(t, cfg.Zones)
	assert.False(t, cfg.Solve)
	// 1 + 1/1.25
	assert.InDelta(t, 1.8, cfg.OpexMultiplier(), 1e-12)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "malformed json",
			file:    "config.json",
			content: `{"resources": `,
		},
		{
			name:    "no resource source",
			file:    "config.json",
			content: `{"solve": true}`,
		},
		{
			name:    "two resource sources",
			file:    "config.json",
			content: `{"resources": {"csvPath": "a.csv", "sqlitePath": "b.sqlite"}}`,
		},
		{
			name:    "multi-stage without length or multiplier",
			file:    "config.yaml",
			content: "resources:\n  csvPath: a.csv\nmultiStage:\n  wacc: 0.05\n",
		},
		{
			name:    "negative multiplier",
			file:    "config.yaml",
			content: "resources:\n  csvPath: a.csv\nmultiStage:\n  opexMultiplier: -2\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}

	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestOpexMultiplier(t *testing.T) {
	tests := []struct {
		name     string
		years    int
		wacc     float64
		expected float64
	}{
		{name: "single year is undiscounted", years: 1, wacc: 0.07, expected: 1},
		{name: "zero wacc counts the years", years: 10, wacc: 0, expected: 10},
		{name: "three years at 10%", years: 3, wacc: 0.1, expected: 1 + 1/1.1 + 1/1.21},
		{name: "no years", years: 0, wacc: 0.1, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, OpexMultiplier(tt.years, tt.wacc), 1e-12)
		})
	}

	single := Config{}
	assert.False(t, single.IsMultiStage())
	assert.Equal(t, 1.0, single.OpexMultiplier())
}
