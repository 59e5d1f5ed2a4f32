package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Paths: PathsConfig{
			LayoutDoc:     "docs/overworld_cartesian_layout.md",
			BeatsDoc:      "docs/zone_beats.md",
			TodoDoc:       "docs/adventures_todo.md",
			OverworldYAML: "world/overworld.yaml",
			PairsTSV:      "world/overworld_pairs.tsv",
			SummaryJSON:   "world/overworld_summary.json",
			ZonesDir:      "world/zones",
			AreasDir:      "world/areas",
			ProtoDir:      "protoadventures",
		},
		World: WorldConfig{
			StarterZones: []string{"Meadowline"},
			DraftMargin:  1,
			StubMargin:   2,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "world/overworld.yaml", cfg.Paths.OverworldYAML)
	assert.Equal(t, "protoadventures", cfg.Paths.ProtoDir)
	assert.Contains(t, cfg.World.StarterZones, "Newbie School")
	assert.Equal(t, 1, cfg.World.DraftMargin)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
paths:
  zones_dir: out/zones
  areas_dir: out/areas
world:
  starter_zones:
    - Meadowline
  stub_margin: 3
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "out/zones", cfg.Paths.ZonesDir)
	assert.Equal(t, "out/areas", cfg.Paths.AreasDir)
	// Unset keys keep their defaults.
	assert.Equal(t, "world/overworld.yaml", cfg.Paths.OverworldYAML)
	assert.Equal(t, []string{"Meadowline"}, cfg.World.StarterZones)
	assert.Equal(t, 3, cfg.World.StubMargin)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidatePathsEmpty(t *testing.T) {
	cfg := validConfig()
	cfg.Paths.ZonesDir = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paths.zones_dir")
}

func TestValidateWorldMargins(t *testing.T) {
	cfg := validConfig()
	cfg.World.DraftMargin = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.World.StubMargin = -2
	assert.Error(t, cfg.Validate())
}

func TestValidateStarterZonesBlank(t *testing.T) {
	cfg := validConfig()
	cfg.World.StarterZones = []string{"Meadowline", "  "}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starter_zones")
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Format = "text"
	assert.Error(t, cfg.Validate())
}

func TestValidateMarginsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := validConfig()
		cfg.World.DraftMargin = rapid.IntRange(-10, 10).Draw(t, "draft")
		cfg.World.StubMargin = rapid.IntRange(-10, 10).Draw(t, "stub")
		err := cfg.Validate()
		if cfg.World.DraftMargin >= 0 && cfg.World.StubMargin >= 0 {
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		} else if err == nil {
			t.Fatal("expected validation error for negative margin")
		}
	})
}
