// Package config loads markmin settings from a YAML file, MARKMIN_*
// environment variables and command-line overrides, and validates them
// before they reach the minifier.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/jmylchreest/markmin/pkg/markup"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// EnvPrefix is the prefix for environment overrides, e.g. MARKMIN_PRESET.
const EnvPrefix = "MARKMIN"

// File is the on-disk configuration. Minifier toggles are pointers so that an
// absent key keeps the preset's value.
type File struct {
	Preset string `mapstructure:"preset" validate:"omitempty,oneof=default safe aggressive"`

	RemoveComments        *bool `mapstructure:"remove_comments"`
	CollapseWhitespace    *bool `mapstructure:"collapse_whitespace"`
	TrimAttrWhitespace    *bool `mapstructure:"trim_attr_whitespace"`
	RemoveEmptyAttributes *bool `mapstructure:"remove_empty_attributes"`
	BooleanAttrShortening *bool `mapstructure:"boolean_attr_shortening"`
	RemoveDefaultType     *bool `mapstructure:"remove_default_type"`

	KeepMarkers  []string `mapstructure:"keep_markers" validate:"dive,marker"`
	PreserveTags []string `mapstructure:"preserve_tags" validate:"dive,required,alphanum"`
	Concurrency  int      `mapstructure:"concurrency" validate:"min=0,max=64"`

	Log   LogSettings   `mapstructure:"log"`
	Fetch FetchSettings `mapstructure:"fetch"`
}

// LogSettings configures internal/logger.
type LogSettings struct {
	Level string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	JSON  bool   `mapstructure:"json"`
}

// FetchSettings configures URL input.
type FetchSettings struct {
	Timeout   time.Duration `mapstructure:"timeout" validate:"min=0s"`
	UserAgent string        `mapstructure:"user_agent"`
	MaxSize   string        `mapstructure:"max_size" validate:"omitempty,bytesize"`
}

// Defaults for settings that have no markup.Config counterpart.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultMaxSize   = "10MB"
	DefaultUserAgent = "markmin"
)

// New returns a viper instance wired for markmin: the given config file, or
// .markmin.yaml in the home or working directory, plus MARKMIN_* variables.
func New(configFile string) *viper.Viper {
	v := viper.New()
	Configure(v, configFile)
	return v
}

// Configure applies markmin's search paths, environment binding and defaults
// to v. The CLI uses it on the global viper instance.
func Configure(v *viper.Viper, configFile string) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".markmin")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Toggles are bound, not defaulted, so unset keys stay nil.
	for _, key := range []string{
		"remove_comments", "collapse_whitespace", "trim_attr_whitespace",
		"remove_empty_attributes", "boolean_attr_shortening", "remove_default_type",
		"keep_markers", "preserve_tags",
	} {
		_ = v.BindEnv(key)
	}

	v.SetDefault("preset", markup.PresetNameDefault)
	v.SetDefault("concurrency", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("fetch.timeout", DefaultTimeout)
	v.SetDefault("fetch.user_agent", DefaultUserAgent)
	v.SetDefault("fetch.max_size", DefaultMaxSize)
}

// Load reads the config file if there is one, decodes every source into a
// File and validates it. A missing default config file is not an error.
func Load(v *viper.Viper) (*File, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if v.IsSet("preserve_tags") && f.PreserveTags == nil {
		f.PreserveTags = []string{}
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks f and reports every problem at once.
func (f *File) Validate() error {
	err := newValidator().Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s %s", fieldPath(e), formatValidationError(e)))
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
}

// MarkupConfig builds the minifier configuration: the preset first, then
// every toggle and list the file sets explicitly.
func (f *File) MarkupConfig() (*markup.Config, error) {
	cfg, err := markup.ConfigForPreset(f.Preset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	override := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	override(&cfg.RemoveComments, f.RemoveComments)
	override(&cfg.CollapseWhitespace, f.CollapseWhitespace)
	override(&cfg.TrimAttrWhitespace, f.TrimAttrWhitespace)
	override(&cfg.RemoveEmptyAttributes, f.RemoveEmptyAttributes)
	override(&cfg.BooleanAttrShortening, f.BooleanAttrShortening)
	override(&cfg.RemoveDefaultType, f.RemoveDefaultType)

	if len(f.KeepMarkers) > 0 {
		cfg.KeepMarkers = append([]string(nil), f.KeepMarkers...)
	}
	if f.PreserveTags != nil {
		cfg.PreserveTags = append([]string{}, f.PreserveTags...)
	}
	cfg.Concurrency = f.Concurrency
	return cfg, nil
}

// MaxBytes returns the fetch size limit in bytes. Zero means unlimited.
func (f *File) MaxBytes() (uint64, error) {
	if f.Fetch.MaxSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(f.Fetch.MaxSize)
	if err != nil {
		return 0, fmt.Errorf("%w: fetch.max_size: %v", ErrInvalid, err)
	}
	return n, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("marker", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s != "" && !strings.ContainsAny(s, " \t\r\n\f<>")
	})
	_ = v.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		_, err := humanize.ParseBytes(fl.Field().String())
		return err == nil
	})
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})
	return v
}

// fieldPath returns the config key of a failed field, e.g. "fetch.max_size".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	case "alphanum":
		return "must be an alphanumeric tag name"
	case "marker":
		return "must be a single word without whitespace or angle brackets"
	case "bytesize":
		return "must be a size such as 512KB or 10MB"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
