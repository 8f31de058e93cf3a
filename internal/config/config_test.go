package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Server{Scheme: "https", Host: "musicbrainz.org"}, cfg.Server)
	assert.Empty(t, cfg.Device)
	assert.Empty(t, cfg.Features)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
device: /dev/sr1
features: [mcn, isrc]
server:
  scheme: http
  host: test.musicbrainz.org
  port: 8080
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/dev/sr1", cfg.Device)
	assert.Equal(t, []string{"mcn", "isrc"}, cfg.Features)
	assert.Equal(t, Server{Scheme: "http", Host: "test.musicbrainz.org", Port: 8080}, cfg.Server)
	assert.Equal(t, "crostini-discid", cfg.App.Name, "unset keys keep their defaults")
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":   "server: [",
		"bad scheme": "server:\n  scheme: ftp\n",
		"no host":    "server:\n  host: \"\"\n",
		"bad port":   "server:\n  port: 70000\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
