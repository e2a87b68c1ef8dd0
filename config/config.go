// Package config provides the router's device and region configuration.
package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Region bounds the rectangle of device tiles admitted to the routing
// graph. A tile named <type>_X<x>Y<y> is in bounds iff
// MinX <= x <= MaxX and MinY <= y <= MaxY.
type Region struct {
	MinX int `yaml:"min_x"`
	MaxX int `yaml:"max_x"`
	MinY int `yaml:"min_y"`
	MaxY int `yaml:"max_y"`
}

// Contains reports whether the tile coordinate lies inside the region.
func (r Region) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// DefaultRegion covers clock region X2Y1. Building its graph needs about
// 5 GB of memory.
func DefaultRegion() Region {
	return Region{MinX: 36, MaxX: 56, MinY: 60, MaxY: 119}
}

// FullDevice admits every tile. Building the whole-device graph needs
// about 50 GB of memory.
func FullDevice() Region {
	return Region{MinX: 0, MaxX: math.MaxInt, MinY: 0, MaxY: math.MaxInt}
}

// Config names the device resources file and the routing region.
type Config struct {
	Device string `yaml:"device"`
	Region Region `yaml:"region"`
}

// Default returns the built-in configuration matching the xcvu3p device.
func Default() Config {
	return Config{Device: "xcvu3p.device", Region: DefaultRegion()}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their Default values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Region.MinX > cfg.Region.MaxX || cfg.Region.MinY > cfg.Region.MaxY {
		return cfg, fmt.Errorf("config %s: empty region %+v", path, cfg.Region)
	}
	return cfg, nil
}
