// Package config provides Viper-based configuration loading for the
// worldsmith pipeline tools.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PathsConfig holds the repository-relative locations of the authoring
// documents and generated world artifacts.
type PathsConfig struct {
	// LayoutDoc is the human-authored overworld cartesian layout document.
	LayoutDoc string `mapstructure:"layout_doc"`
	// BeatsDoc is the zone beats document declaring official clusters.
	BeatsDoc string `mapstructure:"beats_doc"`
	// TodoDoc is the adventures todo document listing adventure ids.
	TodoDoc string `mapstructure:"todo_doc"`
	// OverworldYAML is the exported overworld graph.
	OverworldYAML string `mapstructure:"overworld_yaml"`
	// PairsTSV is the flat portal-pair export next to the graph.
	PairsTSV string `mapstructure:"pairs_tsv"`
	// SummaryJSON is the per-zone summary export next to the graph.
	SummaryJSON string `mapstructure:"summary_json"`
	// ZonesDir holds one shape file per zone.
	ZonesDir string `mapstructure:"zones_dir"`
	// AreasDir holds one room-graph file per zone.
	AreasDir string `mapstructure:"areas_dir"`
	// ProtoDir holds the protoadventure markdown drafts.
	ProtoDir string `mapstructure:"proto_dir"`
}

// WorldConfig holds world-level generation settings.
type WorldConfig struct {
	// StarterZones are the zone names whose overworld edges must have len 1.
	StarterZones []string `mapstructure:"starter_zones"`
	// DraftMargin pads the computed bounds when drafting shape files.
	DraftMargin int `mapstructure:"draft_margin"`
	// StubMargin pads the computed bounds when generating full stubs.
	StubMargin int `mapstructure:"stub_margin"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// Config is the top-level application configuration.
type Config struct {
	Paths   PathsConfig   `mapstructure:"paths"`
	World   WorldConfig   `mapstructure:"world"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validatePaths(c.Paths); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateWorld(c.World); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePaths(p PathsConfig) error {
	var errs []string
	required := []struct {
		key, val string
	}{
		{"paths.layout_doc", p.LayoutDoc},
		{"paths.beats_doc", p.BeatsDoc},
		{"paths.todo_doc", p.TodoDoc},
		{"paths.overworld_yaml", p.OverworldYAML},
		{"paths.pairs_tsv", p.PairsTSV},
		{"paths.summary_json", p.SummaryJSON},
		{"paths.zones_dir", p.ZonesDir},
		{"paths.areas_dir", p.AreasDir},
		{"paths.proto_dir", p.ProtoDir},
	}
	for _, r := range required {
		if r.val == "" {
			errs = append(errs, r.key+" must not be empty")
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateWorld(w WorldConfig) error {
	var errs []string
	if w.DraftMargin < 0 {
		errs = append(errs, fmt.Sprintf("world.draft_margin must be >= 0, got %d", w.DraftMargin))
	}
	if w.StubMargin < 0 {
		errs = append(errs, fmt.Sprintf("world.stub_margin must be >= 0, got %d", w.StubMargin))
	}
	for _, z := range w.StarterZones {
		if strings.TrimSpace(z) == "" {
			errs = append(errs, "world.starter_zones must not contain blank names")
			break
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result. An empty path skips the file
// and uses defaults plus environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with WORLDSMITH_ prefix
	v.SetEnvPrefix("WORLDSMITH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("paths.layout_doc", "docs/overworld_cartesian_layout.md")
	v.SetDefault("paths.beats_doc", "docs/zone_beats.md")
	v.SetDefault("paths.todo_doc", "docs/adventures_todo.md")
	v.SetDefault("paths.overworld_yaml", "world/overworld.yaml")
	v.SetDefault("paths.pairs_tsv", "world/overworld_pairs.tsv")
	v.SetDefault("paths.summary_json", "world/overworld_summary.json")
	v.SetDefault("paths.zones_dir", "world/zones")
	v.SetDefault("paths.areas_dir", "world/areas")
	v.SetDefault("paths.proto_dir", "protoadventures")

	v.SetDefault("world.starter_zones", []string{
		"Newbie School",
		"Town: Gaia Gate",
		"Meadowline",
		"Scrap Orchard",
	})
	v.SetDefault("world.draft_margin", 1)
	v.SetDefault("world.stub_margin", 2)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
