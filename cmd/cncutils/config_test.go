package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/toolpath"
	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "cncutils.yaml")

	cfg, err := loadConfig(name, false)
	assert.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	_, err = loadConfig(name, true)
	assert.Error(t, err)

	err = os.WriteFile(name, []byte(`
serial:
  port: /dev/ttyACM0
serve:
  cacheTTL: 1m
cherrymx:
  width: 14
  direction: ccw
level:
  probes:
    - {x: 0, y: 0, z: 0}
    - {x: 10, y: 0, z: 0.5}
`), 0644)
	assert.NoError(t, err)

	cfg, err = loadConfig(name, true)
	assert.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.Baud)
	assert.Equal(t, time.Minute, cfg.Serve.CacheTTL)
	assert.Equal(t, 14.0, cfg.CherryMX.Width)
	assert.Equal(t, toolpath.CounterClockwise, cfg.CherryMX.Direction)
	assert.Equal(t, 7.0, cfg.CherryMX.Depth)
	assert.Equal(t, []coord.XYZ{{}, {X: 10, Z: 0.5}}, cfg.Level.Probes)

	err = os.WriteFile(name, []byte("cherrymx:\n  direction: sideways\n"), 0644)
	assert.NoError(t, err)
	_, err = loadConfig(name, true)
	assert.Error(t, err)
}

func TestSaveConfig(t *testing.T) {
	name := filepath.Join(t.TempDir(), "out.yaml")

	cfg := defaultConfig()
	cfg.Level.Probes = []coord.XYZ{{X: 1, Y: 2, Z: -0.25}}
	assert.NoError(t, saveConfig(name, cfg))

	got, err := loadConfig(name, true)
	assert.NoError(t, err)
	assert.Equal(t, cfg, got)
}
