package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/markmin/pkg/markup"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "markmin.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	f, err := Load(New(writeConfig(t, "# empty\n")))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if f.Preset != markup.PresetNameDefault {
		t.Errorf("Preset = %q", f.Preset)
	}
	if f.RemoveComments != nil {
		t.Error("expected unset toggle to stay nil")
	}
	if f.Fetch.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v", f.Fetch.Timeout)
	}
	if f.Log.Level != "info" {
		t.Errorf("Log.Level = %q", f.Log.Level)
	}

	cfg, err := f.MarkupConfig()
	if err != nil {
		t.Fatalf("MarkupConfig() error = %v", err)
	}
	want := markup.DefaultConfig()
	if cfg.RemoveComments != want.RemoveComments || cfg.TrimAttrWhitespace != want.TrimAttrWhitespace ||
		cfg.RemoveEmptyAttributes != want.RemoveEmptyAttributes || !slices.Equal(cfg.PreserveTags, want.PreserveTags) {
		t.Errorf("MarkupConfig() = %+v, want defaults", cfg)
	}
}

func TestLoad_FileOverridesPreset(t *testing.T) {
	path := writeConfig(t, `
preset: aggressive
collapse_whitespace: false
keep_markers: [license, keep]
preserve_tags: [pre, code]
concurrency: 4
log:
  level: debug
  json: true
fetch:
  timeout: 5s
  max_size: 2MB
`)
	f, err := Load(New(path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg, err := f.MarkupConfig()
	if err != nil {
		t.Fatalf("MarkupConfig() error = %v", err)
	}
	if cfg.CollapseWhitespace {
		t.Error("expected collapse_whitespace from file to win over preset")
	}
	if !cfg.BooleanAttrShortening || !cfg.RemoveEmptyAttributes {
		t.Error("expected aggressive preset toggles")
	}
	if !slices.Equal(cfg.KeepMarkers, []string{"license", "keep"}) {
		t.Errorf("KeepMarkers = %v", cfg.KeepMarkers)
	}
	if !slices.Equal(cfg.PreserveTags, []string{"pre", "code"}) {
		t.Errorf("PreserveTags = %v", cfg.PreserveTags)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d", cfg.Concurrency)
	}
	if f.Log.Level != "debug" || !f.Log.JSON {
		t.Errorf("Log = %+v", f.Log)
	}
	if f.Fetch.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", f.Fetch.Timeout)
	}
	n, err := f.MaxBytes()
	if err != nil || n != 2_000_000 {
		t.Errorf("MaxBytes() = %d, %v", n, err)
	}
}

func TestLoad_EmptyPreserveTags(t *testing.T) {
	f, err := Load(New(writeConfig(t, "preserve_tags: []\n")))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg, _ := f.MarkupConfig()
	if cfg.PreserveTags == nil || len(cfg.PreserveTags) != 0 {
		t.Errorf("expected an empty, non-nil preserve list, got %#v", cfg.PreserveTags)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("MARKMIN_PRESET", "safe")
	t.Setenv("MARKMIN_TRIM_ATTR_WHITESPACE", "true")
	t.Setenv("MARKMIN_FETCH_TIMEOUT", "2s")

	f, err := Load(New(writeConfig(t, "preset: aggressive\n")))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Preset != "safe" {
		t.Errorf("Preset = %q, want env value", f.Preset)
	}
	if f.TrimAttrWhitespace == nil || !*f.TrimAttrWhitespace {
		t.Error("expected trim_attr_whitespace from env")
	}
	if f.Fetch.Timeout != 2*time.Second {
		t.Errorf("Timeout = %v", f.Fetch.Timeout)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(filepath.Join(t.TempDir(), "nope.yaml")))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "unknown preset", body: "preset: extreme\n", wantMsg: "preset must be one of"},
		{name: "marker with space", body: "keep_markers: [\"keep me\"]\n", wantMsg: "keep_markers[0]"},
		{name: "marker with bracket", body: "keep_markers: [\"<x\"]\n", wantMsg: "single word"},
		{name: "bad preserve tag", body: "preserve_tags: [\"pre-x\"]\n", wantMsg: "alphanumeric"},
		{name: "negative concurrency", body: "concurrency: -1\n", wantMsg: "concurrency must be at least 0"},
		{name: "huge concurrency", body: "concurrency: 1000\n", wantMsg: "at most 64"},
		{name: "bad log level", body: "log:\n  level: loud\n", wantMsg: "log.level"},
		{name: "bad size", body: "fetch:\n  max_size: lots\n", wantMsg: "fetch.max_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(New(writeConfig(t, tt.body)))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in %q", tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	f := &File{Preset: "nope", Concurrency: 99}
	err := f.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "preset") || !strings.Contains(err.Error(), "concurrency") {
		t.Errorf("expected both problems in %q", err.Error())
	}
}

func TestMaxBytes_Unlimited(t *testing.T) {
	n, err := (&File{}).MaxBytes()
	if err != nil || n != 0 {
		t.Errorf("MaxBytes() = %d, %v", n, err)
	}
}
