package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input"`
	Output    OutputConfig    `yaml:"output"`
	Animation AnimationConfig `yaml:"animation"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Basemap   BasemapConfig   `yaml:"basemap"`
	Periods   PeriodConfig    `yaml:"periods"`
}

// InputConfig locates the period folders and track files.
type InputConfig struct {
	DataDir    string   `yaml:"data_dir" validate:"required"`
	Extensions []string `yaml:"extensions" validate:"min=1,dive,startswith=."`
}

// OutputConfig configures the written animation.
type OutputConfig struct {
	Path      string `yaml:"path" validate:"required"`
	Width     int    `yaml:"width" validate:"gte=64"`
	Height    int    `yaml:"height" validate:"gte=64"`
	LoopCount int    `yaml:"loop_count" validate:"gte=-1"` // 0 loops forever, -1 plays once
}

// AnimationConfig configures stroke styling and frame timing.
type AnimationConfig struct {
	StepDuration time.Duration     `yaml:"step_duration" validate:"gt=0"`
	Margin       float64           `yaml:"margin" validate:"gte=0"` // metres around the union bbox
	Colors       map[string]string `yaml:"colors" validate:"dive,keys,required,endkeys,hexcolor"`
	DefaultColor string            `yaml:"default_color" validate:"hexcolor"`
	TrackWidth   float64           `yaml:"track_width" validate:"gt=0"`
	ShadowColor  string            `yaml:"shadow_color" validate:"hexcolor"`
	ShadowWidth  float64           `yaml:"shadow_width" validate:"gt=0"`
	ShadowAlpha  float64           `yaml:"shadow_alpha" validate:"gte=0,lte=1"`
}

// OverlayConfig configures the stats panel and logo.
type OverlayConfig struct {
	Title           string  `yaml:"title"`
	Legend          string  `yaml:"legend"`
	PeriodLabel     string  `yaml:"period_label"`
	CumulativeLabel string  `yaml:"cumulative_label"`
	Unit            string  `yaml:"unit"`
	Logo            string  `yaml:"logo"`
	LogoZoom        float64 `yaml:"logo_zoom" validate:"gte=0"`
}

// BasemapConfig selects the background provider.
type BasemapConfig struct {
	Provider   string        `yaml:"provider" validate:"oneof=tiles plain"`
	URL        string        `yaml:"url" validate:"required_if=Provider tiles"`
	CacheDir   string        `yaml:"cache_dir"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout" validate:"gte=0"`
	Background string        `yaml:"background" validate:"hexcolor"`
}

// PeriodConfig holds the curated period tables.
// Distances are supplied, never derived from geometry.
type PeriodConfig struct {
	Names     []string        `yaml:"names"`
	Distances map[int]float64 `yaml:"distances" validate:"dive,keys,gte=0,endkeys,gte=0"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{
			DataDir:    "data",
			Extensions: []string{".gpx"},
		},
		Output: OutputConfig{
			Path:      "output/routes.gif",
			Width:     1000,
			Height:    1000,
			LoopCount: 0,
		},
		Animation: AnimationConfig{
			StepDuration: 500 * time.Millisecond,
			Margin:       500,
			Colors: map[string]string{
				"ride.gpx": "#0072B2",
				"hike.gpx": "#2E6F40",
			},
			DefaultColor: "#0000FF",
			TrackWidth:   2.5,
			ShadowColor:  "#000000",
			ShadowWidth:  3,
			ShadowAlpha:  0.2,
		},
		Overlay: OverlayConfig{
			Title:           "2025 Adventures",
			Legend:          "Green = Hike | Blue = Cycle",
			PeriodLabel:     "Month",
			CumulativeLabel: "Year Distance",
			Unit:            "km",
			Logo:            "logo.png",
			LogoZoom:        0.4,
		},
		Basemap: BasemapConfig{
			Provider:   "tiles",
			URL:        "https://a.basemaps.cartocdn.com/rastertiles/voyager/{z}/{x}/{y}.png",
			CacheDir:   "tiles",
			UserAgent:  "routereel/1.0",
			Timeout:    30 * time.Second,
			Background: "#F2EFE9",
		},
		Periods: PeriodConfig{
			// August has no entry; indices after July are not shifted here.
			Names: []string{
				"January", "February", "March", "April", "May", "June", "July",
				"September", "October", "November", "December",
			},
			Distances: map[int]float64{
				0: 14.3, 1: 14.2, 2: 10.9, 3: 50.8, 4: 14.2, 5: 44.9,
				6: 10.6, 7: 45.6, 8: 30.8, 9: 12.3, 10: 11.8,
			},
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and returns the first violations found.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
