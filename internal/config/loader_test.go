package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/stackconsole/internal/testutil"
)

// writeConfig writes .stackconsole/config.yaml under a fresh temp dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := testutil.SetupTestDir(t)
	testutil.WriteTestFile(t, tmpDir, filepath.Join(Dir, "config.yaml"), []byte(content))
	return tmpDir
}

func noEnv(string) string { return "" }

var osFs = afero.NewOsFs()

func TestLoadConfig_Default(t *testing.T) {
	t.Parallel()

	// Create temp directory without config file
	tmpDir := t.TempDir()

	cfg, err := LoadFile(osFs, Path(tmpDir), noEnv)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, "http://localhost:8081", cfg.API.BaseURL)
	assert.Equal(t, ".stackconsole/session.yaml", cfg.Session.File)
}

func TestLoadConfig_ValidFile(t *testing.T) {
	t.Parallel()

	tmpDir := writeConfig(t, `api:
  base_url: https://stacks.internal:9443
server:
  port: 9000
output:
  format: yaml
  color: never
create:
  target_port: 8080
  pod_spec_file: pods/web.yaml
session:
  file: /tmp/active.yaml
log:
  level: debug
`)

	cfg, err := LoadFile(osFs, Path(tmpDir), noEnv)
	require.NoError(t, err)

	assert.Equal(t, "https://stacks.internal:9443", cfg.API.BaseURL)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, ColorNever, cfg.Output.Color)
	assert.Equal(t, 8080, cfg.Create.TargetPort)
	assert.Equal(t, "pods/web.yaml", cfg.Create.PodSpecFile)
	assert.Equal(t, "/tmp/active.yaml", cfg.Session.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_PartialFile(t *testing.T) {
	t.Parallel()

	// Only set the base URL, rest should keep defaults
	tmpDir := writeConfig(t, `api:
  base_url: http://10.0.0.5:8081
`)

	cfg, err := LoadFile(osFs, Path(tmpDir), noEnv)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:8081", cfg.API.BaseURL)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
	assert.Equal(t, DefaultTargetPort, cfg.Create.TargetPort)
	assert.Equal(t, DefaultSessionFile, cfg.Session.File)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	t.Parallel()

	tmpDir := writeConfig(t, "api: [unclosed")

	_, err := LoadFile(osFs, Path(tmpDir), noEnv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
	assert.False(t, IsValidationError(err))
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"relative base url", "api:\n  base_url: localhost:8081\n", "api.base_url"},
		{"unsupported scheme", "api:\n  base_url: ftp://host\n", "api.base_url"},
		{"port out of range", "server:\n  port: 70000\n", "server.port"},
		{"unknown format", "output:\n  format: xml\n", "output.format"},
		{"unknown color", "output:\n  color: sometimes\n", "output.color"},
		{"zero target port", "create:\n  target_port: 0\n", "create.target_port"},
		{"empty session file", "session:\n  file: \"\"\n", "session.file"},
		{"unknown log level", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := writeConfig(t, tt.content)

			_, err := LoadFile(osFs, Path(tmpDir), noEnv)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvBaseURL:  " http://api.example:8081 ",
		EnvPort:     "9999",
		EnvLogLevel: "info",
	}

	tmpDir := writeConfig(t, "api:\n  base_url: http://from-file:8081\n")
	cfg, err := LoadFile(osFs, Path(tmpDir), func(k string) string { return env[k] })
	require.NoError(t, err)

	assert.Equal(t, "http://api.example:8081", cfg.API.BaseURL, "env wins over file")
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestApplyEnv_InvalidPort(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := ApplyEnv(&cfg, func(k string) string {
		if k == EnvPort {
			return "eighty"
		}
		return ""
	})

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, EnvPort, ve.Field)
}

func TestLoadFile_NilEnvSkipsOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadFile(osFs, filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
}

func TestLoadConfig_InMemoryFs(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, Path("/work"), []byte("output:\n  format: yaml\n"), 0o644))

	cfg, err := LoadConfig(fsys, "/work")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)

	cfg, err = LoadConfig(fsys, "/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, cfg.Output.Format)
}

func TestLoadFile_OverridesAppliedBeforeValidation(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/work/config.yaml", []byte("log:\n  level: loud\n"), 0o644))
	env := func(k string) string {
		if k == EnvBaseURL {
			return "not a url"
		}
		return ""
	}

	_, err := LoadFile(fsys, "/work/config.yaml", env)
	require.True(t, IsValidationError(err))

	cfg, err := LoadFile(fsys, "/work/config.yaml", env, func(c *Config) {
		c.API.BaseURL = "http://fixed:8081"
		c.Log.Level = "info"
	})
	require.NoError(t, err)
	assert.Equal(t, "http://fixed:8081", cfg.API.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestResolvePath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ResolvePath("/work", ""))
	assert.Equal(t, "/etc/pod.yaml", ResolvePath("/work", "/etc/pod.yaml"))
	assert.Equal(t, filepath.Join("/work", "pods", "web.yaml"), ResolvePath("/work", "pods/web.yaml"))
}

func TestValidationError_Error(t *testing.T) {
	t.Parallel()

	ve := ValidationError{Field: "test.field", Message: "must be valid"}
	assert.Equal(t, "validation error: test.field: must be valid", ve.Error())
}

func TestIsValidationError(t *testing.T) {
	t.Parallel()

	ve := ValidationError{Field: "test", Message: "test"}
	assert.True(t, IsValidationError(ve))
	assert.False(t, IsValidationError(os.ErrNotExist))
}
