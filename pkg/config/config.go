// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// TrainerConfig contains configuration for a trainer session
type TrainerConfig struct {
	Field   FieldConfig   `json:"field" yaml:"field"`
	Cannon  CannonConfig  `json:"cannon" yaml:"cannon"`
	Target  TargetConfig  `json:"target" yaml:"target"`
	Physics PhysicsConfig `json:"physics" yaml:"physics"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// FieldConfig describes the play field in pixels
type FieldConfig struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
	// GroundOffset is the height of the ground strip; the ground line sits
	// at Height - GroundOffset.
	GroundOffset float64 `json:"groundOffset" yaml:"groundOffset"`
}

// CannonConfig describes the cannon pivot and barrel
type CannonConfig struct {
	OriginX      float64 `json:"originX" yaml:"originX"`
	BarrelLength float64 `json:"barrelLength" yaml:"barrelLength"`
	// The initial angle is drawn uniformly from this range in degrees.
	MinAngleDegrees float64 `json:"minAngleDegrees" yaml:"minAngleDegrees"`
	MaxAngleDegrees float64 `json:"maxAngleDegrees" yaml:"maxAngleDegrees"`
}

// TargetConfig describes target size and the region it spawns in
type TargetConfig struct {
	Radius float64 `json:"radius" yaml:"radius"`
	// MarginRight keeps the target centre this far from the right edge.
	MarginRight float64 `json:"marginRight" yaml:"marginRight"`
	// Elevation range above the ground line, in pixels.
	MinElevation float64 `json:"minElevation" yaml:"minElevation"`
	MaxElevation float64 `json:"maxElevation" yaml:"maxElevation"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity        float64 `json:"gravity" yaml:"gravity"`               // m/s²
	PixelsPerMeter float64 `json:"pixelsPerMeter" yaml:"pixelsPerMeter"` // display scale
	PlotInterval   float64 `json:"plotInterval" yaml:"plotInterval"`     // seconds between velocity samples
	MaxFrameDelta  float64 `json:"maxFrameDelta" yaml:"maxFrameDelta"`   // seconds, 0 disables the cap
}

// ServerConfig contains the status server configuration
type ServerConfig struct {
	// StatusAddr is the listen address of the status server; empty disables it.
	StatusAddr   string  `json:"statusAddr" yaml:"statusAddr"`
	ReadTimeout  float64 `json:"readTimeout" yaml:"readTimeout"`   // seconds
	WriteTimeout float64 `json:"writeTimeout" yaml:"writeTimeout"` // seconds
}

// GroundY returns the y coordinate of the ground line.
func (c *TrainerConfig) GroundY() float64 {
	return c.Field.Height - c.Field.GroundOffset
}

// LoadConfig loads a configuration from a JSON or YAML file, chosen by
// extension (.yaml/.yml, anything else is JSON). Missing fields keep their
// default values.
func LoadConfig(path string) (*TrainerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, config)
	} else {
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file in the format implied by its
// extension.
func SaveConfig(config *TrainerConfig, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// DefaultConfig returns the classic 800x600 trainer layout
func DefaultConfig() *TrainerConfig {
	return &TrainerConfig{
		Field: FieldConfig{
			Width:        800,
			Height:       600,
			GroundOffset: 70,
		},
		Cannon: CannonConfig{
			OriginX:         50,
			BarrelLength:    80,
			MinAngleDegrees: 15,
			MaxAngleDegrees: 75,
		},
		Target: TargetConfig{
			Radius:       20,
			MarginRight:  50,
			MinElevation: 50,
			MaxElevation: 250,
		},
		Physics: PhysicsConfig{
			Gravity:        9.8,
			PixelsPerMeter: 10,
			PlotInterval:   0.4,
			MaxFrameDelta:  0.25,
		},
		Server: ServerConfig{
			StatusAddr:   "",
			ReadTimeout:  5,
			WriteTimeout: 5,
		},
	}
}

// Validate checks that every value is usable by the engine
func (c *TrainerConfig) Validate() error {
	var errs []error

	positive := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be a positive number, got %v", name, v))
		}
	}
	nonNegative := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %v", name, v))
		}
	}
	finite := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be a finite number, got %v", name, v))
		}
	}

	positive("field.width", c.Field.Width)
	positive("field.height", c.Field.Height)
	nonNegative("field.groundOffset", c.Field.GroundOffset)
	if c.Field.GroundOffset >= c.Field.Height {
		errs = append(errs, fmt.Errorf("field.groundOffset (%v) must be less than field.height (%v)",
			c.Field.GroundOffset, c.Field.Height))
	}

	nonNegative("cannon.originX", c.Cannon.OriginX)
	if c.Cannon.OriginX > c.Field.Width {
		errs = append(errs, fmt.Errorf("cannon.originX (%v) lies beyond field.width (%v)",
			c.Cannon.OriginX, c.Field.Width))
	}
	nonNegative("cannon.barrelLength", c.Cannon.BarrelLength)
	finite("cannon.minAngleDegrees", c.Cannon.MinAngleDegrees)
	finite("cannon.maxAngleDegrees", c.Cannon.MaxAngleDegrees)
	if c.Cannon.MinAngleDegrees > c.Cannon.MaxAngleDegrees {
		errs = append(errs, fmt.Errorf("cannon angle range invalid: min(%.1f) > max(%.1f)",
			c.Cannon.MinAngleDegrees, c.Cannon.MaxAngleDegrees))
	}

	positive("target.radius", c.Target.Radius)
	nonNegative("target.marginRight", c.Target.MarginRight)
	if c.Target.MarginRight >= c.Field.Width/2 {
		errs = append(errs, fmt.Errorf("target.marginRight (%v) leaves no room in the right half of the field",
			c.Target.MarginRight))
	}
	nonNegative("target.minElevation", c.Target.MinElevation)
	nonNegative("target.maxElevation", c.Target.MaxElevation)
	if c.Target.MinElevation > c.Target.MaxElevation {
		errs = append(errs, fmt.Errorf("target elevation range invalid: min(%.1f) > max(%.1f)",
			c.Target.MinElevation, c.Target.MaxElevation))
	}

	positive("physics.gravity", c.Physics.Gravity)
	positive("physics.pixelsPerMeter", c.Physics.PixelsPerMeter)
	positive("physics.plotInterval", c.Physics.PlotInterval)
	nonNegative("physics.maxFrameDelta", c.Physics.MaxFrameDelta)

	nonNegative("server.readTimeout", c.Server.ReadTimeout)
	nonNegative("server.writeTimeout", c.Server.WriteTimeout)

	return errors.Join(errs...)
}
