package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mastercactapus/cncutils/coord"
	"github.com/mastercactapus/cncutils/machine"
	"github.com/mastercactapus/cncutils/toolpath"
	"gopkg.in/yaml.v3"
)

// Config holds defaults for every job plus machine settings. Flags given on
// the command line override it.
type Config struct {
	Serial SerialConfig `yaml:"serial"`
	Level  LevelConfig  `yaml:"level"`
	Serve  ServeConfig  `yaml:"serve"`

	CherryMX toolpath.CherryMXOptions `yaml:"cherrymx"`
	Circle   toolpath.CircleOptions   `yaml:"circle"`
	Polygon  toolpath.PolygonOptions  `yaml:"polygon"`
	Drill    toolpath.DrillOptions    `yaml:"drill"`
	Curve    CurveConfig              `yaml:"curve"`
	Probe    machine.ProbeGridOptions `yaml:"probe"`
}

type SerialConfig struct {
	Port string `yaml:"port"`
	Baud int    `yaml:"baud"`
}

// LevelConfig holds the probed surface used to level programs.
type LevelConfig struct {
	Granularity float64     `yaml:"granularity"`
	Probes      []coord.XYZ `yaml:"probes"`
}

type ServeConfig struct {
	Addr     string        `yaml:"addr"`
	Dir      string        `yaml:"dir"`
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type CurveConfig struct {
	Segments int     `yaml:"segments" json:"segments"`
	FeedRate float64 `yaml:"feedRate" json:"feedRate"`
}

func defaultConfig() Config {
	return Config{
		Serial: SerialConfig{Baud: 115200},
		Level:  LevelConfig{Granularity: 1},
		Serve: ServeConfig{
			Addr:     ":9091",
			Dir:      "./data",
			CacheTTL: 10 * time.Minute,
		},

		CherryMX: toolpath.DefaultCherryMXOptions(),
		Circle: toolpath.CircleOptions{
			Diameter:  10,
			Depth:     1,
			Pitch:     1,
			FeedRate:  300,
			Direction: toolpath.Clockwise,
			Clearance: 5,
		},
		Polygon: toolpath.PolygonOptions{
			Depth:      1,
			Pitch:      1,
			FeedRate:   500,
			PlungeRate: 300,
			Clearance:  5,
		},
		Drill: toolpath.DrillOptions{
			Depth:      1,
			PlungeRate: 300,
			Clearance:  5,
		},
		Curve: CurveConfig{Segments: 32, FeedRate: 500},
		Probe: machine.ProbeGridOptions{
			ProbeOptions: machine.ProbeOptions{
				FeedRate:  50,
				MaxTravel: 5,
				Clearance: 2,
			},
			DistanceX:   50,
			DistanceY:   50,
			Granularity: 10,
		},
	}
}

// loadConfig reads a YAML config over the defaults. A missing file is not
// an error when the path was not given explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config '%s': %w", path, err)
	}
	return cfg, nil
}

// saveConfig writes cfg as YAML.
func saveConfig(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
