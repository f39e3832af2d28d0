package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "an explicitly named missing file is an error")

	// No explicit path and no default file present: defaults apply.
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Fields)
	assert.Equal(t, CommandTimeout, cfg.CommandTimeout)
	assert.Nil(t, cfg.SSH)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
fields:
  - ram_gb
  - battery_health
tools:
  lshw: /usr/sbin/lshw
command_timeout: 5s
ssh:
  host: lab-laptop
  user: admin
  key_path: /home/admin/.ssh/id_ed25519
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"ram_gb", "battery_health"}, cfg.Fields)
	assert.Equal(t, "/usr/sbin/lshw", cfg.Tools["lshw"])
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	require.NotNil(t, cfg.SSH)
	assert.Equal(t, "lab-laptop", cfg.SSH.Host)
	assert.Equal(t, "admin", cfg.SSH.User)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDebugFromEnvironment(t *testing.T) {
	t.Setenv("HWFACTS_DEBUG", "1")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Debug)

	t.Setenv("HWFACTS_DEBUG", "false")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.False(t, cfg.Debug)
}
