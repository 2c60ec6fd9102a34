// Package markup provides a safe, scanner-based HTML minifier.
// It never rewrites the content of preserve elements such as <pre> and
// <script>, and it passes malformed markup through instead of failing.
package markup

import (
	"fmt"
	"slices"
)

// Preset names accepted by ConfigForPreset.
const (
	PresetNameDefault    = "default"
	PresetNameSafe       = "safe"
	PresetNameAggressive = "aggressive"
)

// Config defines all options of the minifier. A Minifier copies its Config
// when created and never changes it afterwards.
type Config struct {
	// === Comments ===

	// RemoveComments drops <!-- --> comments outside preserve elements.
	// Conditional comments and comments carrying a keep marker survive.
	RemoveComments bool `json:"remove_comments" yaml:"remove_comments"`

	// KeepMarkers lists words that, opening a comment, protect it verbatim:
	// with "keep-me", "<!-- keep-me: do not touch -->" is never removed.
	KeepMarkers []string `json:"keep_markers,omitempty" yaml:"keep_markers,omitempty"`

	// === Whitespace ===

	// CollapseWhitespace removes whitespace between tags and shrinks runs of
	// whitespace inside text.
	CollapseWhitespace bool `json:"collapse_whitespace" yaml:"collapse_whitespace"`

	// === Attributes ===

	// TrimAttrWhitespace collapses whitespace in attribute lists, writes
	// name=value without spaces around '=' and trims quoted values.
	TrimAttrWhitespace bool `json:"trim_attr_whitespace" yaml:"trim_attr_whitespace"`

	// RemoveEmptyAttributes drops attributes with an empty value (a="", a='', a=).
	RemoveEmptyAttributes bool `json:"remove_empty_attributes" yaml:"remove_empty_attributes"`

	// BooleanAttrShortening writes boolean attributes such as disabled="disabled"
	// as a bare lowercase name.
	BooleanAttrShortening bool `json:"boolean_attr_shortening" yaml:"boolean_attr_shortening"`

	// RemoveDefaultType drops type="text/javascript" and type="text/css".
	RemoveDefaultType bool `json:"remove_default_type" yaml:"remove_default_type"`

	// === Preservation ===

	// PreserveTags names elements whose content is copied verbatim. A nil
	// slice means DefaultPreserveTags(); an empty, non-nil slice preserves
	// nothing.
	PreserveTags []string `json:"preserve_tags" yaml:"preserve_tags"`

	// === Execution ===

	// Concurrency is the number of plain regions rewritten in parallel.
	// Values below 2 process regions sequentially.
	Concurrency int `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
}

// DefaultConfig returns the documented defaults: comments removed, whitespace
// collapsed, attribute whitespace trimmed and default type attributes
// dropped. Empty-attribute removal and boolean shortening are off because
// they change attribute text that scripts may read.
func DefaultConfig() *Config {
	return &Config{
		RemoveComments:        true,
		CollapseWhitespace:    true,
		TrimAttrWhitespace:    true,
		RemoveEmptyAttributes: false,
		BooleanAttrShortening: false,
		RemoveDefaultType:     true,
		KeepMarkers:           []string{},
		PreserveTags:          DefaultPreserveTags(),
	}
}

// PresetSafe only removes comments and collapses whitespace. Attributes are
// left as written apart from the void-element slash.
func PresetSafe() *Config {
	return &Config{
		RemoveComments:     true,
		CollapseWhitespace: true,
		KeepMarkers:        []string{},
		PreserveTags:       DefaultPreserveTags(),
	}
}

// PresetAggressive enables every rewrite.
func PresetAggressive() *Config {
	cfg := DefaultConfig()
	cfg.RemoveEmptyAttributes = true
	cfg.BooleanAttrShortening = true
	return cfg
}

// ConfigForPreset returns the preset called name. The empty name selects the
// default preset.
func ConfigForPreset(name string) (*Config, error) {
	switch name {
	case "", PresetNameDefault:
		return DefaultConfig(), nil
	case PresetNameSafe:
		return PresetSafe(), nil
	case PresetNameAggressive:
		return PresetAggressive(), nil
	default:
		return nil, fmt.Errorf("unknown preset %q", name)
	}
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	cp := *c
	cp.KeepMarkers = slices.Clone(c.KeepMarkers)
	cp.PreserveTags = slices.Clone(c.PreserveTags)
	return &cp
}

// Merge returns a copy of c with other laid over it.
// Options set in other win, lists are appended without duplicates and a
// positive Concurrency replaces c's.
func (c *Config) Merge(other *Config) *Config {
	merged := c.Clone()
	if other == nil {
		return merged
	}

	if other.RemoveComments {
		merged.RemoveComments = true
	}
	if other.CollapseWhitespace {
		merged.CollapseWhitespace = true
	}
	if other.TrimAttrWhitespace {
		merged.TrimAttrWhitespace = true
	}
	if other.RemoveEmptyAttributes {
		merged.RemoveEmptyAttributes = true
	}
	if other.BooleanAttrShortening {
		merged.BooleanAttrShortening = true
	}
	if other.RemoveDefaultType {
		merged.RemoveDefaultType = true
	}
	if other.Concurrency > 0 {
		merged.Concurrency = other.Concurrency
	}

	merged.KeepMarkers = appendUnique(merged.KeepMarkers, other.KeepMarkers)
	if other.PreserveTags != nil {
		if merged.PreserveTags == nil {
			merged.PreserveTags = DefaultPreserveTags()
		}
		merged.PreserveTags = appendUnique(merged.PreserveTags, other.PreserveTags)
	}
	return merged
}

func appendUnique(dst, src []string) []string {
	for _, s := range src {
		if !slices.Contains(dst, s) {
			dst = append(dst, s)
		}
	}
	return dst
}

// preserveSet returns the lowercase preserve-tag set for c.
func (c *Config) preserveSet() map[string]bool {
	tags := c.PreserveTags
	if tags == nil {
		tags = DefaultPreserveTags()
	}
	set := make(map[string]bool, len(tags))
	for _, t := range tags {
		if t != "" {
			set[asciiLower(t)] = true
		}
	}
	return set
}
