package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/MindPort-GmbH/Z-Anatomy-Sample/carve"
	"github.com/MindPort-GmbH/Z-Anatomy-Sample/scene"
)

// demoConfig is the TOML-backed demo configuration. Every field has a
// default, so running without a config file works.
type demoConfig struct {
	Window  windowSection  `toml:"window"`
	Cutter  cutterSection  `toml:"cutter"`
	Scene   sceneSection   `toml:"scene"`
	Session sessionSection `toml:"session"`
}

type windowSection struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
	VSync  bool   `toml:"vsync"`
}

type cutterSection struct {
	MaxStamps                int     `toml:"max_stamps"`
	TranslationThreshold     float32 `toml:"translation_threshold"`
	RotationThresholdDegrees float32 `toml:"rotation_threshold_degrees"`
	LayerMask                uint32  `toml:"layer_mask"`
	RequiredShader           string  `toml:"required_shader"`
	CaptureOnEveryOverlap    bool    `toml:"capture_on_every_overlap"`
	MoveSpeed                float32 `toml:"move_speed"`
}

type sceneSection struct {
	// GLTF is an optional model to load. Empty means built-in primitives.
	GLTF string `toml:"gltf"`
}

type sessionSection struct {
	Path string `toml:"path"`
}

func defaultConfig() demoConfig {
	cc := carve.DefaultConfig()
	return demoConfig{
		Window: windowSection{
			Width:  1280,
			Height: 720,
			Title:  "Anatomy Viewer",
			VSync:  true,
		},
		Cutter: cutterSection{
			MaxStamps:                cc.MaxStamps,
			TranslationThreshold:     cc.TranslationThreshold,
			RotationThresholdDegrees: cc.RotationThresholdDegrees,
			LayerMask:                cc.LayerMask,
			RequiredShader:           scene.ShaderLit,
			CaptureOnEveryOverlap:    cc.CaptureOnEveryOverlap,
			MoveSpeed:                1.5,
		},
		Session: sessionSection{Path: "carve_session.json"},
	}
}

// loadConfig reads a TOML config file over the defaults. A missing file is
// not an error; a malformed one is.
func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// carveConfig converts the cutter section into an engine config.
func (c demoConfig) carveConfig() carve.Config {
	return carve.Config{
		MaxStamps:                c.Cutter.MaxStamps,
		TranslationThreshold:     c.Cutter.TranslationThreshold,
		RotationThresholdDegrees: c.Cutter.RotationThresholdDegrees,
		LayerMask:                c.Cutter.LayerMask,
		RequiredShader:           c.Cutter.RequiredShader,
		CaptureOnEveryOverlap:    c.Cutter.CaptureOnEveryOverlap,
	}
}
