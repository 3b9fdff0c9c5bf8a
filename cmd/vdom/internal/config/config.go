// Package config loads the optional vdom.yaml configuration and builds the
// CLI logger from it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project root.
const FileName = "vdom.yaml"

// SupportedMajor is the only configuration schema major version understood.
const SupportedMajor = "v1"

// Config represents the optional vdom.yaml configuration.
type Config struct {
	Version string       `yaml:"version,omitempty"`
	Log     LogConfig    `yaml:"log"`
	Trace   TraceConfig  `yaml:"trace"`
	Render  RenderConfig `yaml:"render"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level       string `yaml:"level,omitempty"`
	Development bool   `yaml:"development,omitempty"`
}

// TraceConfig contains trace store settings.
type TraceConfig struct {
	DB string `yaml:"db,omitempty"`
}

// RenderConfig contains scene rendering settings.
type RenderConfig struct {
	Verbose bool `yaml:"verbose,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root        string
	Path        string
	ProjectName string
	Version     string
	LogLevel    string
	Development bool
	TraceDB     string
	Verbose     bool
}

// LoadOptional reads the configuration file at path if present.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Resolve loads the configuration (if present) and resolves defaults. An
// empty path means vdom.yaml in dir.
func Resolve(dir, path string) (*Resolved, error) {
	if path == "" {
		path = filepath.Join(dir, FileName)
	}

	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, err
	}

	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		version = SupportedMajor + ".0.0"
	}
	if err := validateVersion(version); err != nil {
		return nil, err
	}

	level := strings.TrimSpace(cfg.Log.Level)
	if level == "" {
		level = "info"
	}

	return &Resolved{
		Root:        dir,
		Path:        path,
		ProjectName: projectName(dir),
		Version:     version,
		LogLevel:    level,
		Development: cfg.Log.Development,
		TraceDB:     strings.TrimSpace(cfg.Trace.DB),
		Verbose:     cfg.Render.Verbose,
	}, nil
}

// Logger builds a zap logger for the resolved settings.
func (r *Resolved) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(r.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log.level: %w", err)
	}

	zc := zap.NewProductionConfig()
	if r.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// FindProjectRoot walks up from the current directory to find go.mod. When
// none exists the current directory is returned.
func FindProjectRoot() (string, error) {
	start, err := os.Getwd()
	if err != nil {
		return "", err
	}

	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return start, nil
		}
		dir = parent
	}
}

func validateVersion(v string) error {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("version %q is not a valid semantic version", v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("version %s is not supported (want %s.x)", v, SupportedMajor)
	}
	return nil
}

func projectName(dir string) string {
	base := filepath.Base(dir)
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return base
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return base
	}
	prefix, _, ok := module.SplitPathVersion(path)
	if !ok {
		return base
	}
	parts := strings.Split(prefix, "/")
	return parts[len(parts)-1]
}
