package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.routereel.yaml",               // project config (highest priority)
	"~/.config/routereel/config.yaml", // user config
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads configuration in priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (ROUTEREEL_*)
// 3. customPath, or else ./.routereel.yaml then ~/.config/routereel/config.yaml
// 4. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	mergeConfigs(config, &fileConfig)

	// keys where zero is a meaningful setting are applied whenever present
	var explicit zeroableKeys
	if err := yaml.Unmarshal(data, &explicit); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	explicit.apply(config)
	return nil
}

// zeroableKeys mirrors the numeric keys whose zero value is valid, so a
// file can set them to zero over a non-zero default.
type zeroableKeys struct {
	Output struct {
		LoopCount *int `yaml:"loop_count"`
	} `yaml:"output"`
	Animation struct {
		Margin      *float64 `yaml:"margin"`
		ShadowAlpha *float64 `yaml:"shadow_alpha"`
	} `yaml:"animation"`
	Overlay struct {
		LogoZoom *float64 `yaml:"logo_zoom"`
	} `yaml:"overlay"`
	Basemap struct {
		Timeout *time.Duration `yaml:"timeout"`
	} `yaml:"basemap"`
}

func (z zeroableKeys) apply(config *Config) {
	if z.Output.LoopCount != nil {
		config.Output.LoopCount = *z.Output.LoopCount
	}
	if z.Animation.Margin != nil {
		config.Animation.Margin = *z.Animation.Margin
	}
	if z.Animation.ShadowAlpha != nil {
		config.Animation.ShadowAlpha = *z.Animation.ShadowAlpha
	}
	if z.Overlay.LogoZoom != nil {
		config.Overlay.LogoZoom = *z.Overlay.LogoZoom
	}
	if z.Basemap.Timeout != nil {
		config.Basemap.Timeout = *z.Basemap.Timeout
	}
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"ROUTEREEL_DATA_DIR":         func(v string) error { config.Input.DataDir = v; return nil },
		"ROUTEREEL_OUTPUT":           func(v string) error { config.Output.Path = v; return nil },
		"ROUTEREEL_WIDTH":            func(v string) error { return parseInt(v, &config.Output.Width) },
		"ROUTEREEL_HEIGHT":           func(v string) error { return parseInt(v, &config.Output.Height) },
		"ROUTEREEL_STEP":             func(v string) error { return parseDuration(v, &config.Animation.StepDuration) },
		"ROUTEREEL_MARGIN":           func(v string) error { return parseFloat(v, &config.Animation.Margin) },
		"ROUTEREEL_TITLE":            func(v string) error { config.Overlay.Title = v; return nil },
		"ROUTEREEL_LOGO":             func(v string) error { config.Overlay.Logo = v; return nil },
		"ROUTEREEL_BASEMAP_PROVIDER": func(v string) error { config.Basemap.Provider = v; return nil },
		"ROUTEREEL_BASEMAP_URL":      func(v string) error { config.Basemap.URL = v; return nil },
		"ROUTEREEL_TILE_CACHE_DIR":   func(v string) error { config.Basemap.CacheDir = v; return nil },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// comma-separated list
	if exts := l.getenv("ROUTEREEL_EXTENSIONS"); exts != "" {
		config.Input.Extensions = nil
		for _, ext := range strings.Split(exts, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				config.Input.Extensions = append(config.Input.Extensions, strings.ToLower(ext))
			}
		}
	}
	return nil
}

// FindConfigFile returns the highest-priority config file that exists.
func (l *Loader) FindConfigFile() (string, bool) {
	for _, path := range l.configPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config.
// Only non-zero values from source overwrite destination (see zeroableKeys); maps and slices
// are replaced whole so a file can shrink a default table.
func mergeConfigs(dst, src *Config) {
	mergeInputConfig(&dst.Input, &src.Input)
	mergeOutputConfig(&dst.Output, &src.Output)
	mergeAnimationConfig(&dst.Animation, &src.Animation)
	mergeOverlayConfig(&dst.Overlay, &src.Overlay)
	mergeBasemapConfig(&dst.Basemap, &src.Basemap)
	mergePeriodConfig(&dst.Periods, &src.Periods)
}

func mergeInputConfig(dst, src *InputConfig) {
	mergeString(&dst.DataDir, src.DataDir)
	if len(src.Extensions) > 0 {
		dst.Extensions = make([]string, len(src.Extensions))
		for i, ext := range src.Extensions {
			dst.Extensions[i] = strings.ToLower(ext)
		}
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	mergeString(&dst.Path, src.Path)
	if src.Width != 0 {
		dst.Width = src.Width
	}
	if src.Height != 0 {
		dst.Height = src.Height
	}
	if src.LoopCount != 0 {
		dst.LoopCount = src.LoopCount
	}
}

func mergeAnimationConfig(dst, src *AnimationConfig) {
	if src.StepDuration != 0 {
		dst.StepDuration = src.StepDuration
	}
	if src.Margin != 0 {
		dst.Margin = src.Margin
	}
	if len(src.Colors) > 0 {
		dst.Colors = src.Colors
	}
	mergeString(&dst.DefaultColor, src.DefaultColor)
	mergeString(&dst.ShadowColor, src.ShadowColor)
	if src.TrackWidth != 0 {
		dst.TrackWidth = src.TrackWidth
	}
	if src.ShadowWidth != 0 {
		dst.ShadowWidth = src.ShadowWidth
	}
	if src.ShadowAlpha != 0 {
		dst.ShadowAlpha = src.ShadowAlpha
	}
}

func mergeOverlayConfig(dst, src *OverlayConfig) {
	mergeString(&dst.Title, src.Title)
	mergeString(&dst.Legend, src.Legend)
	mergeString(&dst.PeriodLabel, src.PeriodLabel)
	mergeString(&dst.CumulativeLabel, src.CumulativeLabel)
	mergeString(&dst.Unit, src.Unit)
	mergeString(&dst.Logo, src.Logo)
	if src.LogoZoom != 0 {
		dst.LogoZoom = src.LogoZoom
	}
}

func mergeBasemapConfig(dst, src *BasemapConfig) {
	mergeString(&dst.Provider, src.Provider)
	mergeString(&dst.URL, src.URL)
	mergeString(&dst.CacheDir, src.CacheDir)
	mergeString(&dst.UserAgent, src.UserAgent)
	mergeString(&dst.Background, src.Background)
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
}

func mergePeriodConfig(dst, src *PeriodConfig) {
	if len(src.Names) > 0 {
		dst.Names = src.Names
	}
	if len(src.Distances) > 0 {
		dst.Distances = src.Distances
	}
}

func mergeString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseFloat(s string, dst *float64) error {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
