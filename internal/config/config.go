// Package config loads the project context file: which glossaries and TM
// files to ingest and how matching should behave. Files are YAML, read
// with viper; every setting can be overridden through the environment
// (LOCALCAT_FUZZY_THRESHOLD and friends) for scripted runs.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/corey/localcat/internal/ports"
)

// Defaults applied when the project file leaves a setting out.
const (
	DefaultFuzzyThreshold    = 0.70
	DefaultFuzzyTopK         = 5
	DefaultNormalizationMode = ports.NormCase
)

// Load reads the project context at path. Returns the config and the
// directory all relative corpus paths resolve against. Malformed or
// unreadable files wrap ports.ErrConfig.
func Load(path string) (*ports.Config, string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("localcat")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("case_sensitive", true)
	v.SetDefault("fuzzy_threshold", DefaultFuzzyThreshold)
	v.SetDefault("fuzzy_top_k", DefaultFuzzyTopK)
	v.SetDefault("normalization_mode", DefaultNormalizationMode)
	v.SetDefault("max_term_hits", 0)
	v.SetDefault("max_candidates", 0)

	if err := v.ReadInConfig(); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ports.ErrConfig, path, err)
	}

	var cfg ports.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ports.ErrConfig, path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ports.ErrConfig, path, err)
	}

	return &cfg, filepath.Dir(path), nil
}

func validate(cfg *ports.Config) error {
	if cfg.FuzzyThreshold < 0 || cfg.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold %v outside [0,1]", cfg.FuzzyThreshold)
	}
	if cfg.FuzzyTopK < 0 {
		return fmt.Errorf("fuzzy_top_k %d is negative", cfg.FuzzyTopK)
	}
	switch cfg.NormalizationMode {
	case ports.NormWhitespace, ports.NormCase, ports.NormPunctuation:
	default:
		return fmt.Errorf("unknown normalization_mode %q", cfg.NormalizationMode)
	}
	return nil
}

// Resolve joins a corpus path with the project directory unless it is
// already absolute.
func Resolve(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}
