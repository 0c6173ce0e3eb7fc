package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginbear/krayt/internal/volume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
image: alpine:3.20
additional_packages:
  - vim
  - uv:copier
device_aliases:
  gpu-device:
    path: /dev/nvidia0
    type: CharDevice
cache_volumes:
  - model-cache
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "alpine:3.20", cfg.Image)
	assert.Equal(t, []string{"vim", "uv:copier"}, cfg.AdditionalPackages)

	c := volume.NewClassifier(cfg.AliasTable())
	d := c.Classify(volume.Volume{Name: "gpu-device"})
	assert.Equal(t, volume.HostPath{Path: "/dev/nvidia0", Type: "CharDevice"}, d.Volume.Source)
	d = c.Classify(volume.Volume{Name: "model-cache"})
	assert.Equal(t, volume.EmptyDir{Medium: "Memory"}, d.Volume.Source)
	d = c.Classify(volume.Volume{Name: "coral-device"})
	assert.Equal(t, volume.Rewrite, d.Action)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("imge: typo\n"))
	assert.Error(t, err)
}

func TestParseRejectsAliasWithoutPath(t *testing.T) {
	_, err := Parse([]byte("device_aliases:\n  gpu:\n    type: CharDevice\n"))
	assert.EqualError(t, err, `device alias "gpu" has no path`)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestDirAndPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("KRAYT_CONFIG", "")

	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/krayt", dir)
	assert.Equal(t, "/xdg/krayt/init.d", InitScriptDir(dir))

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, "/xdg/krayt/config.yaml", p)

	t.Setenv("KRAYT_CONFIG", "/etc/krayt.yaml")
	p, err = Path()
	require.NoError(t, err)
	assert.Equal(t, "/etc/krayt.yaml", p)
}
