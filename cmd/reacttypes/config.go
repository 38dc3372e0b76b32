package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/parser"
)

const (
	configDir  = ".reacttypes"
	configFile = "config.yaml"
)

// Environment overrides.
const (
	envDialect   = "REACTTYPES_DIALECT"
	envLogLevel  = "REACTTYPES_LOG_LEVEL"
	envLogFormat = "REACTTYPES_LOG_FORMAT"
	envCatalog   = "REACTTYPES_CATALOG"
	envWorkers   = "REACTTYPES_WORKERS"
)

// ProjectConfig holds the contents of .reacttypes/config.yaml.
type ProjectConfig struct {
	Dialect    string            `yaml:"dialect"`
	Extensions []string          `yaml:"extensions"`
	Include    []string          `yaml:"include"`
	Exclude    []string          `yaml:"exclude"`
	Aliases    map[string]string `yaml:"aliases"`
	Catalog    string            `yaml:"catalog"`
	Workers    int               `yaml:"workers"`
	LogLevel   string            `yaml:"log_level"`
	LogFormat  string            `yaml:"log_format"`

	// dir is the project directory: the parent of .reacttypes. Relative
	// catalog and alias paths are anchored there.
	dir string
}

// findProjectConfig walks up from dir looking for .reacttypes/config.yaml.
// Returns "" when none exists.
func findProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, configDir, configFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadProjectConfig reads a config file. Returns nil (no error) if path is
// empty.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	cfg.dir = filepath.Dir(filepath.Dir(abs))
	if cfg.Dialect != "" {
		if _, err := parser.ParseDialect(cfg.Dialect); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}
	for _, p := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("config %s: invalid pattern %q", path, p)
		}
	}
	return &cfg, nil
}

// settings is the effective configuration of one command run.
type settings struct {
	Dialect    string
	LogLevel   string
	LogFormat  string
	Catalog    string
	Workers    int
	Extensions []string
	Include    []string
	Exclude    []string
	Aliases    map[string]string
}

func defaultSettings() settings {
	return settings{Dialect: "typescript", LogLevel: "info", LogFormat: "text"}
}

// resolveSettings applies, lowest first: defaults, the project config, the
// environment (including .env), then flags that were set on cmd.
func resolveSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()

	// A missing .env is fine.
	_ = godotenv.Load()

	path := configPath
	if path == "" {
		path = findProjectConfig(".")
	}
	cfg, err := loadProjectConfig(path)
	if err != nil {
		return s, err
	}
	if cfg != nil {
		s.applyConfig(cfg)
	}

	if err := s.applyEnv(); err != nil {
		return s, err
	}

	flags := cmd.Flags()
	if flags.Changed("dialect") {
		s.Dialect = dialect
	}
	if flags.Changed("log-level") {
		s.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		s.LogFormat = logFormat
	}

	if _, err := parser.ParseDialect(s.Dialect); err != nil {
		return s, err
	}
	return s, nil
}

func (s *settings) applyConfig(cfg *ProjectConfig) {
	if cfg.Dialect != "" {
		s.Dialect = cfg.Dialect
	}
	if cfg.LogLevel != "" {
		s.LogLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		s.LogFormat = cfg.LogFormat
	}
	if cfg.Catalog != "" {
		s.Catalog = anchor(cfg.dir, cfg.Catalog)
	}
	if cfg.Workers > 0 {
		s.Workers = cfg.Workers
	}
	s.Extensions = cfg.Extensions
	s.Include = cfg.Include
	s.Exclude = cfg.Exclude
	if len(cfg.Aliases) > 0 {
		s.Aliases = make(map[string]string, len(cfg.Aliases))
		for prefix, target := range cfg.Aliases {
			s.Aliases[prefix] = anchor(cfg.dir, target)
		}
	}
}

func (s *settings) applyEnv() error {
	if v := os.Getenv(envDialect); v != "" {
		s.Dialect = v
	}
	if v := os.Getenv(envLogLevel); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv(envLogFormat); v != "" {
		s.LogFormat = v
	}
	if v := os.Getenv(envCatalog); v != "" {
		s.Catalog = v
	}
	if v := os.Getenv(envWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s: invalid worker count %q", envWorkers, v)
		}
		s.Workers = n
	}
	return nil
}

// anchor makes a config-relative path absolute, keeping a trailing slash,
// which alias prefixes rely on.
func anchor(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	out := filepath.Join(dir, p)
	if len(p) > 0 && os.IsPathSeparator(p[len(p)-1]) {
		out += string(filepath.Separator)
	}
	return out
}

// resolution returns the module resolution options, or nil when the dialect
// defaults apply unchanged.
func (s settings) resolution() (*loader.Options, error) {
	if len(s.Extensions) == 0 && len(s.Aliases) == 0 {
		return nil, nil
	}
	d, err := parser.ParseDialect(s.Dialect)
	if err != nil {
		return nil, err
	}
	opts := loader.DefaultOptions(d)
	if len(s.Extensions) > 0 {
		opts.Extensions = s.Extensions
	}
	opts.Aliases = s.Aliases
	return &opts, nil
}
