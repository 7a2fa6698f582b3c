// Package config handles viewer configuration loading and management.
package config

import "github.com/armlab/robotview/internal/robot"

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
	VSync  bool `yaml:"vsync"`
}

// ViewerConfig holds robot loading and presentation settings.
type ViewerConfig struct {
	// Model is the path of the URDF file to load at startup.
	Model string `yaml:"model"`
	// AssetDir is the directory the mesh asset bundle is built from.
	// Defaults to the model file's directory.
	AssetDir string `yaml:"asset_dir"`
	// UpAxis is "Z", "X", or "Y".
	UpAxis string `yaml:"up_axis"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// ParsedUpAxis maps the configured axis name onto the orientation enum,
// defaulting to Z-up for anything unrecognized.
func (v ViewerConfig) ParsedUpAxis() robot.UpAxis {
	switch v.UpAxis {
	case "X", "x":
		return robot.XUp
	case "Y", "y":
		return robot.YUp
	default:
		return robot.ZUp
	}
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Viewer: ViewerConfig{
			UpAxis: "Z",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
