// pkg/render/controls.go
package render

import (
	"context"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/validation"
)

// AngleStep is the angle change per key press, in degrees
const AngleStep = 1.0

// Controls turns user commands into engine commands and holds the speed
// field text between frames. Front ends map their own key events onto it.
type Controls struct {
	engine    *engine.Engine
	logger    *logging.Logger
	speedText string
	message   string
	quit      bool
}

// NewControls creates controls for e with speedText as the initial speed
// field. A nil logger discards output.
func NewControls(e *engine.Engine, logger *logging.Logger, speedText string) *Controls {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Controls{
		engine:    e,
		logger:    logger,
		speedText: speedText,
	}
}

// AdjustAngle turns the barrel by deltaDeg degrees, clamped to
// [validation.MinAngleDegrees, validation.MaxAngleDegrees].
func (c *Controls) AdjustAngle(deltaDeg float64) {
	current := validation.RadiansToDegrees(c.engine.Angle())
	next := validation.ClampAngleDegrees(current + deltaDeg)
	c.engine.SetAngle(validation.DegreesToRadians(next))
}

// TypeRune appends r to the speed field when the field accepts it.
func (c *Controls) TypeRune(r rune) bool {
	if !validation.AcceptSpeedRune(c.speedText, r) {
		return false
	}
	c.speedText += string(r)
	return true
}

// Backspace removes the last character of the speed field
func (c *Controls) Backspace() {
	if c.speedText == "" {
		return
	}
	c.speedText = c.speedText[:len(c.speedText)-1]
}

// Fire parses the speed field and fires. Invalid speeds set the invalid
// speed message and return the error. Fire does nothing during a flight.
func (c *Controls) Fire() error {
	if c.engine.Phase() == engine.PhaseFiring {
		return nil
	}

	speed, err := validation.ParseSpeed(c.speedText)
	if err == nil {
		err = c.engine.Fire(speed)
	}
	if err != nil {
		c.logger.Warn(context.Background(), "fire rejected", "input", c.speedText, "error", err.Error())
		c.message = MessageInvalidSpeed
		return err
	}

	c.message = ""
	return nil
}

// Reset starts a new round and clears any message
func (c *Controls) Reset() {
	c.message = ""
	c.engine.Reset()
}

// RequestQuit marks the session as finished
func (c *Controls) RequestQuit() {
	c.quit = true
}

// Quit reports whether the user asked to quit
func (c *Controls) Quit() bool {
	return c.quit
}

// SpeedText returns the speed field text
func (c *Controls) SpeedText() string {
	return c.speedText
}

// Message returns the pending input message, empty when there is none
func (c *Controls) Message() string {
	return c.message
}

// HUD builds the HUD for snap with the current speed field and message
func (c *Controls) HUD(snap *engine.Snapshot) HUD {
	return BuildHUD(snap, c.speedText, c.message)
}
