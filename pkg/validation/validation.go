// Package validation parses and bounds the values typed or dialled in by
// the user before they reach the engine.
package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/logging"
)

// Input limits
const (
	MaxSpeedInputLen = 16
	MinAngleDegrees  = 0.0
	MaxAngleDegrees  = 90.0
)

// leadingNumber matches the numeric prefix a lenient float parser accepts:
// "12.5m/s" reads as 12.5 and ".5" as 0.5.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// ParseSpeed converts the speed text typed by the user into metres per
// second. Surrounding whitespace is ignored and trailing garbage after a
// valid number is dropped. Text without a leading number returns an error
// wrapping *engine.InvalidInputError. Range checks are left to Fire.
func ParseSpeed(text string) (float64, error) {
	if !utf8.ValidString(text) {
		return 0, invalidSpeed(text, "contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, invalidSpeed(text, "cannot be empty")
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return 0, invalidSpeed(text, "contains control characters")
		}
	}

	prefix := leadingNumber.FindString(trimmed)
	if prefix == "" {
		return 0, invalidSpeed(text, "is not a number")
	}

	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		// only overflow reaches here; the prefix is always well formed
		return 0, logging.WrapError(invalidSpeed(text, "is out of range"), "parse %q", prefix)
	}
	return v, nil
}

func invalidSpeed(text, reason string) error {
	return &engine.InvalidInputError{Field: "speed", Value: text, Reason: reason}
}

// AcceptSpeedRune reports whether r may be appended to the speed field
// holding current. Digits are accepted up to MaxSpeedInputLen, and a single
// decimal point.
func AcceptSpeedRune(current string, r rune) bool {
	if len(current) >= MaxSpeedInputLen {
		return false
	}
	switch {
	case r >= '0' && r <= '9':
		return true
	case r == '.':
		return !strings.ContainsRune(current, '.')
	}
	return false
}

// ClampAngleDegrees bounds an angle dialled in by the user to
// [MinAngleDegrees, MaxAngleDegrees]. NaN maps to MinAngleDegrees.
func ClampAngleDegrees(deg float64) float64 {
	if math.IsNaN(deg) || deg < MinAngleDegrees {
		return MinAngleDegrees
	}
	if deg > MaxAngleDegrees {
		return MaxAngleDegrees
	}
	return deg
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadiansToDegrees converts an angle in radians to degrees
func RadiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
