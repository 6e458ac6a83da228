// Package config resolves job settings from defaults, an optional config
// file, the environment and command-line flags, and reads YAML job files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ivlev/kenburns/internal/director"
	"github.com/ivlev/kenburns/internal/effects"
	"github.com/ivlev/kenburns/internal/errdefs"
	"github.com/ivlev/kenburns/internal/geometry"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix namespaces environment overrides: KENBURNS_FRAMERATE=30.
const EnvPrefix = "KENBURNS"

// DefaultFeatures are looked for when an image does not name its own.
var DefaultFeatures = []string{"a human face", "a person", "a dog", "a cat"}

// Settings are the job-level values shared by every image. Keys match the
// command-line flag names.
type Settings struct {
	OutputPath                string   `mapstructure:"output"`
	Size                      string   `mapstructure:"size" validate:"required"`
	Framerate                 int      `mapstructure:"framerate" validate:"gt=0"`
	DefaultImageDuration      float64  `mapstructure:"default-image-duration" validate:"gt=0"`
	DefaultTransition         string   `mapstructure:"default-transition" validate:"required"`
	DefaultTransitionDuration float64  `mapstructure:"default-transition-duration" validate:"gte=0"`
	DefaultEasing             string   `mapstructure:"default-easing" validate:"required"`
	DefaultFit                string   `mapstructure:"default-fit" validate:"oneof=cover contain"`
	DefaultFeatures           []string `mapstructure:"default-feature"`
	Detector                  string   `mapstructure:"detector" validate:"oneof=ollama contrast none"`
	OllamaHost                string   `mapstructure:"ollama-host"`
	Model                     string   `mapstructure:"model"`
	ScoreThreshold            float64  `mapstructure:"score-threshold" validate:"gte=0,lte=1"`
	Region                    string   `mapstructure:"region" validate:"required"`
	Workers                   int      `mapstructure:"workers" validate:"gte=0"`
	FFmpeg                    string   `mapstructure:"ffmpeg" validate:"required"`
	PDFDPI                    int      `mapstructure:"pdf-dpi" validate:"gt=0"`
	Verbose                   int      `mapstructure:"verbose" validate:"gte=0"`
}

// SetDefaults registers the built-in value of every setting on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output", "")
	v.SetDefault("size", "640x360")
	v.SetDefault("framerate", 25)
	v.SetDefault("default-image-duration", 5.0)
	v.SetDefault("default-transition", effects.DefaultTransition.String())
	v.SetDefault("default-transition-duration", 1.0)
	v.SetDefault("default-easing", effects.DefaultEasing.String())
	v.SetDefault("default-fit", geometry.Cover.String())
	v.SetDefault("default-feature", DefaultFeatures)
	v.SetDefault("detector", "ollama")
	v.SetDefault("ollama-host", "")
	v.SetDefault("model", "")
	v.SetDefault("score-threshold", 0.5)
	v.SetDefault("region", "first")
	v.SetDefault("workers", 0)
	v.SetDefault("ffmpeg", "ffmpeg")
	v.SetDefault("pdf-dpi", 150)
	v.SetDefault("verbose", 0)
}

// Load layers defaults, the config file (if any), a .env file in the
// working directory, KENBURNS_* variables and flags, then validates the
// result. Later layers win.
func Load(v *viper.Viper, flags *pflag.FlagSet, configFile string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	SetDefaults(v)
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("mapstructure")
	})
	return v
}

// Validate checks the struct tags, then that every enumerated value parses.
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var all error
		for _, fe := range verrs {
			all = multierr.Append(all, errdefs.Misconfigured(fe.Field(), fmt.Sprint(fe.Value()),
				"must satisfy %s", strings.TrimSpace(fe.Tag()+" "+fe.Param())))
		}
		return all
	}

	_, err := s.OutputSize()
	_, derr := s.Defaults()
	_, rerr := s.RegionSelector()
	return multierr.Combine(err, derr, rerr)
}

// Defaults are the typed per-image fallbacks.
type Defaults struct {
	Duration           float64
	Transition         effects.Transition
	TransitionDuration float64
	Easing             effects.Easing
	Fit                geometry.Fit
	Features           []string
}

func (s *Settings) Defaults() (Defaults, error) {
	transition, err := effects.ParseTransition(s.DefaultTransition)
	easing, eerr := effects.ParseEasing(s.DefaultEasing)
	fit, ferr := geometry.ParseFit(s.DefaultFit)
	if err := multierr.Combine(err, eerr, ferr); err != nil {
		return Defaults{}, err
	}
	return Defaults{
		Duration:           s.DefaultImageDuration,
		Transition:         transition,
		TransitionDuration: s.DefaultTransitionDuration,
		Easing:             easing,
		Fit:                fit,
		Features:           append([]string(nil), s.DefaultFeatures...),
	}, nil
}

func (s *Settings) OutputSize() (geometry.Size, error) {
	return ParseSize(s.Size)
}

// RegionSelector maps the region setting to a strategy: "first",
// "largest" or "label:<text>".
func (s *Settings) RegionSelector() (director.RegionSelector, error) {
	switch r := strings.TrimSpace(s.Region); {
	case r == "first":
		return director.FirstRegion, nil
	case r == "largest":
		return director.LargestRegion, nil
	case strings.HasPrefix(r, "label:") && len(r) > len("label:"):
		return director.MatchLabel(strings.TrimPrefix(r, "label:")), nil
	}
	return nil, errdefs.Misconfigured("region", s.Region, "expected first, largest or label:<text>")
}

// Output describes the encoded file for the director. The output path is
// required here rather than in Validate so that commands that never
// encode can share the settings.
func (s *Settings) Output() (director.Output, error) {
	if s.OutputPath == "" {
		return director.Output{}, errdefs.Misconfigured("output", "", "an output path is required")
	}
	size, err := s.OutputSize()
	if err != nil {
		return director.Output{}, err
	}
	return director.Output{
		Size:     size,
		FPS:      s.Framerate,
		Path:     s.OutputPath,
		LogLevel: director.LogLevelFor(s.Verbose),
	}, nil
}
