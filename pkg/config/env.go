// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
)

// envFloat binds an environment variable to a float field.
type envFloat struct {
	key   string
	field func(*TrainerConfig) *float64
}

var envFloats = []envFloat{
	{"CANNON_FIELD_WIDTH", func(c *TrainerConfig) *float64 { return &c.Field.Width }},
	{"CANNON_FIELD_HEIGHT", func(c *TrainerConfig) *float64 { return &c.Field.Height }},
	{"CANNON_GRAVITY", func(c *TrainerConfig) *float64 { return &c.Physics.Gravity }},
	{"CANNON_PIXELS_PER_METER", func(c *TrainerConfig) *float64 { return &c.Physics.PixelsPerMeter }},
	{"CANNON_PLOT_INTERVAL", func(c *TrainerConfig) *float64 { return &c.Physics.PlotInterval }},
	{"CANNON_MAX_FRAME_DELTA", func(c *TrainerConfig) *float64 { return &c.Physics.MaxFrameDelta }},
	{"CANNON_TARGET_RADIUS", func(c *TrainerConfig) *float64 { return &c.Target.Radius }},
}

// ApplyEnv overrides configuration values from CANNON_* environment
// variables and validates the result. Unset variables leave values alone.
func (c *TrainerConfig) ApplyEnv() error {
	for _, bind := range envFloats {
		raw, ok := os.LookupEnv(bind.key)
		if !ok || raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", bind.key, raw, err)
		}
		*bind.field(c) = v
	}

	if addr, ok := os.LookupEnv("CANNON_STATUS_ADDR"); ok {
		c.Server.StatusAddr = addr
	}

	return c.Validate()
}
