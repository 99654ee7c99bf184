// Package colour resolves the ambient colour that gets pushed to device lighting.
package colour

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidHex is returned when a colour is not exactly six hex digits.
	ErrInvalidHex = errors.New("invalid hex colour")

	// ErrTripletUnsupported is returned for the base-10 "r g b" input form.
	ErrTripletUnsupported = errors.New("base-10 RGB triplets are not supported, use a 6 digit hex value")
)

// RGB represents a color in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB color as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Decimal returns the components space separated, e.g. "255 128 0".
func (rgb RGB) Decimal() string {
	return fmt.Sprintf("%d %d %d", rgb.R, rgb.G, rgb.B)
}

// ParseHex parses a hex colour string (RRGGBB or #RRGGBB) to RGB.
// Each two digit pair is read as one base-16 component.
func ParseHex(s string) (RGB, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return RGB{}, fmt.Errorf("%w: %q must be 6 hex digits", ErrInvalidHex, s)
	}

	var parts [3]uint8
	for i := range parts {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, fmt.Errorf("%w: %q contains non-hex characters", ErrInvalidHex, s)
		}
		parts[i] = uint8(v)
	}

	return RGB{R: parts[0], G: parts[1], B: parts[2]}, nil
}

// ParseArgs parses the values given to --color.
// A single value is read as hex. Three values are the decimal triplet form,
// which is rejected rather than guessed at.
func ParseArgs(args []string) (RGB, error) {
	switch len(args) {
	case 1:
		return ParseHex(args[0])
	case 3:
		return RGB{}, ErrTripletUnsupported
	default:
		return RGB{}, fmt.Errorf("%w: expected a single value, got %d", ErrInvalidHex, len(args))
	}
}
