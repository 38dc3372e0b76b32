package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, projectDir, content string) string {
	t.Helper()
	dir := filepath.Join(projectDir, configDir)
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, configFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "dialect: flow\n")
	nested := filepath.Join(root, "src", "components")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, path, findProjectConfig(nested))
	assert.Equal(t, path, findProjectConfig(root))
	assert.Empty(t, findProjectConfig(t.TempDir()))
}

func TestLoadProjectConfig(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `dialect: flow
extensions: [".js", ".jsx"]
include: ["src/**/*.js"]
exclude: ["src/vendor/**"]
aliases:
  "@/": "src/"
catalog: out/catalog.json
workers: 3
log_level: debug
`)

	cfg, err := loadProjectConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "flow", cfg.Dialect)
	assert.Equal(t, []string{".js", ".jsx"}, cfg.Extensions)
	assert.Equal(t, 3, cfg.Workers)

	s := defaultSettings()
	s.applyConfig(cfg)
	assert.Equal(t, filepath.Join(root, "out", "catalog.json"), s.Catalog)
	assert.Equal(t, filepath.Join(root, "src")+string(filepath.Separator), s.Aliases["@/"])
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, []string{"src/**/*.js"}, s.Include)
}

func TestLoadProjectConfig_Empty(t *testing.T) {
	cfg, err := loadProjectConfig("")
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadProjectConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "dialect: [flow\n"},
		{"bad dialect", "dialect: reason\n"},
		{"bad pattern", "include: [\"src/[\"]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := loadProjectConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadProjectConfig_Missing(t *testing.T) {
	_, err := loadProjectConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

// settingsCommand parses args against a command carrying the global flags.
func settingsCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	prevConfig, prevDialect, prevLevel, prevFormat := configPath, dialect, logLevel, logFormat
	t.Cleanup(func() { configPath, dialect, logLevel, logFormat = prevConfig, prevDialect, prevLevel, prevFormat })

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&configPath, "config", "", "")
	cmd.Flags().StringVar(&dialect, "dialect", "", "")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "")
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveSettings_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	s, err := resolveSettings(settingsCommand(t))
	require.NoError(t, err)
	assert.Equal(t, defaultSettings(), s)
}

func TestResolveSettings_Precedence(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, "dialect: flow\nlog_level: warn\nlog_format: json\ncatalog: cat.json\nworkers: 2\n")
	t.Chdir(root)

	// Config file only.
	s, err := resolveSettings(settingsCommand(t))
	require.NoError(t, err)
	assert.Equal(t, "flow", s.Dialect)
	assert.Equal(t, "warn", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
	assert.Equal(t, filepath.Join(root, "cat.json"), s.Catalog)
	assert.Equal(t, 2, s.Workers)

	// Environment beats the file.
	t.Setenv(envLogLevel, "error")
	t.Setenv(envCatalog, "/tmp/env.json")
	t.Setenv(envWorkers, "5")
	t.Setenv(envLogFormat, "text")
	s, err = resolveSettings(settingsCommand(t, "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "flow", s.Dialect)
	assert.Equal(t, "error", s.LogLevel)
	assert.Equal(t, "/tmp/env.json", s.Catalog)
	assert.Equal(t, 5, s.Workers)
	assert.Equal(t, "text", s.LogFormat)

	// Flags beat both.
	t.Setenv(envDialect, "flow")
	s, err = resolveSettings(settingsCommand(t, "--dialect", "typescript", "--log-level", "debug", "--log-format", "json"))
	require.NoError(t, err)
	assert.Equal(t, "typescript", s.Dialect)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, "json", s.LogFormat)
}

func TestResolveSettings_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(envCatalog+"=from-dotenv.json\n"), 0644))
	t.Chdir(dir)
	t.Setenv(envCatalog, "")
	require.NoError(t, os.Unsetenv(envCatalog))

	s, err := resolveSettings(settingsCommand(t))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv.json", s.Catalog)
}

func TestResolveSettings_InvalidDialect(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := resolveSettings(settingsCommand(t, "--dialect", "coffee"))
	assert.Error(t, err)
}

func TestResolveSettings_InvalidWorkers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(envWorkers, "many")
	_, err := resolveSettings(settingsCommand(t))
	assert.ErrorContains(t, err, envWorkers)
}

func TestSettingsResolution(t *testing.T) {
	res, err := defaultSettings().resolution()
	require.NoError(t, err)
	assert.Nil(t, res, "dialect defaults apply")

	s := defaultSettings()
	s.Aliases = map[string]string{"@/": "/repo/src/"}
	res, err = s.resolution()
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "/repo/src/", res.Aliases["@/"])
	assert.NotEmpty(t, res.Extensions)
	assert.NotEmpty(t, res.PackageFields)
}
