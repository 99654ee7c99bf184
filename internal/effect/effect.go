// Package effect defines the closed set of lighting effects razer-x-color
// can apply, and the parameters each one carries.
package effect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmylchreest/razer-x-color/internal/colour"
)

// Name identifies a lighting effect.
type Name string

// Known effect names, matching the daemon's "lighting_<name>" capabilities.
const (
	Static          Name = "static"
	BreathSingle    Name = "breath_single"
	BreathDual      Name = "breath_dual"
	BreathTriple    Name = "breath_triple"
	BreathRandom    Name = "breath_random"
	Reactive        Name = "reactive"
	Ripple          Name = "ripple"
	RippleRandom    Name = "ripple_random"
	Spectrum        Name = "spectrum"
	Wave            Name = "wave"
	StarlightSingle Name = "starlight_single"
	StarlightDual   Name = "starlight_dual"
	StarlightRandom Name = "starlight_random"
	None            Name = "none"
)

// Default is applied when no effect is requested, and is the fallback for
// devices that lack the requested one.
const Default = Static

// Known lists every recognised effect in display order.
var Known = []Name{
	Static,
	BreathSingle,
	BreathDual,
	BreathTriple,
	BreathRandom,
	Reactive,
	Ripple,
	RippleRandom,
	Spectrum,
	Wave,
	StarlightSingle,
	StarlightDual,
	StarlightRandom,
	None,
}

// ReactiveDuration is how long a reactive flash stays lit.
type ReactiveDuration uint8

// Reactive durations as the daemon numbers them.
const (
	Reactive500ms  ReactiveDuration = 1
	Reactive1000ms ReactiveDuration = 2
	Reactive1500ms ReactiveDuration = 3
	Reactive2000ms ReactiveDuration = 4
)

// WaveDirection is the direction a wave travels across the device.
type WaveDirection uint8

// Wave directions as the daemon numbers them.
const (
	WaveRight WaveDirection = 1
	WaveLeft  WaveDirection = 2
)

// RippleRefreshRate is the ripple animation step in seconds.
const RippleRefreshRate = 0.05

var (
	// ErrUnknown is returned for names outside the known set.
	ErrUnknown = errors.New("unknown effect")

	// ErrNotImplemented is returned for known effects with no variant yet.
	ErrNotImplemented = errors.New("effect not yet implemented")
)

// Capability returns the daemon capability key for the effect.
func (n Name) Capability() string {
	return "lighting_" + string(n)
}

// IsKnown reports whether n is in the known set.
func (n Name) IsKnown() bool {
	for _, k := range Known {
		if k == n {
			return true
		}
	}
	return false
}

// String returns the effect name.
func (n Name) String() string {
	return string(n)
}

// KnownList returns the known names joined for help and error messages.
func KnownList() string {
	names := make([]string, len(Known))
	for i, n := range Known {
		names[i] = string(n)
	}
	return strings.Join(names, ", ")
}

// Effect is one lighting request, carrying the parameters its variant needs.
type Effect interface {
	// Name returns the effect's name.
	Name() Name
}

// StaticEffect sets a single solid colour.
type StaticEffect struct {
	Colour colour.RGB
}

// BreathSingleEffect pulses a single colour.
type BreathSingleEffect struct {
	Colour colour.RGB
}

// BreathRandomEffect pulses through random colours.
type BreathRandomEffect struct{}

// ReactiveEffect lights keys in a colour when pressed.
type ReactiveEffect struct {
	Colour   colour.RGB
	Duration ReactiveDuration
}

// RippleEffect sends a coloured ripple out from each key press.
type RippleEffect struct {
	Colour      colour.RGB
	RefreshRate float64
}

// RippleRandomEffect sends random coloured ripples from each key press.
type RippleRandomEffect struct {
	RefreshRate float64
}

// SpectrumEffect cycles through the spectrum.
type SpectrumEffect struct{}

// WaveEffect runs a spectrum wave across the device.
type WaveEffect struct {
	Direction WaveDirection
}

// NoneEffect turns the lighting off.
type NoneEffect struct{}

func (StaticEffect) Name() Name       { return Static }
func (BreathSingleEffect) Name() Name { return BreathSingle }
func (BreathRandomEffect) Name() Name { return BreathRandom }
func (ReactiveEffect) Name() Name     { return Reactive }
func (RippleEffect) Name() Name       { return Ripple }
func (RippleRandomEffect) Name() Name { return RippleRandom }
func (SpectrumEffect) Name() Name     { return Spectrum }
func (WaveEffect) Name() Name         { return Wave }
func (NoneEffect) Name() Name         { return None }

// New builds the effect called name for the given colour, filling timed
// effects with their fixed parameters. Effects that do not use a colour
// ignore it.
func New(name Name, c colour.RGB) (Effect, error) {
	switch name {
	case Static:
		return StaticEffect{Colour: c}, nil
	case BreathSingle:
		return BreathSingleEffect{Colour: c}, nil
	case BreathRandom:
		return BreathRandomEffect{}, nil
	case Reactive:
		return ReactiveEffect{Colour: c, Duration: Reactive2000ms}, nil
	case Ripple:
		return RippleEffect{Colour: c, RefreshRate: RippleRefreshRate}, nil
	case RippleRandom:
		return RippleRandomEffect{RefreshRate: RippleRefreshRate}, nil
	case Spectrum:
		return SpectrumEffect{}, nil
	case Wave:
		return WaveEffect{Direction: WaveRight}, nil
	case None:
		return NoneEffect{}, nil
	}

	if name.IsKnown() {
		return nil, fmt.Errorf("%w: %s", ErrNotImplemented, name)
	}
	return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknown, name, KnownList())
}

// ColourOf returns the colour an effect carries, if it has one.
func ColourOf(e Effect) (colour.RGB, bool) {
	switch v := e.(type) {
	case StaticEffect:
		return v.Colour, true
	case BreathSingleEffect:
		return v.Colour, true
	case ReactiveEffect:
		return v.Colour, true
	case RippleEffect:
		return v.Colour, true
	default:
		return colour.RGB{}, false
	}
}

// Describe renders an effect and its parameters for logs and dry runs.
func Describe(e Effect) string {
	switch v := e.(type) {
	case StaticEffect:
		return fmt.Sprintf("static %s", v.Colour.Hex())
	case BreathSingleEffect:
		return fmt.Sprintf("breath_single %s", v.Colour.Hex())
	case ReactiveEffect:
		return fmt.Sprintf("reactive %s duration=%d", v.Colour.Hex(), v.Duration)
	case RippleEffect:
		return fmt.Sprintf("ripple %s refresh=%g", v.Colour.Hex(), v.RefreshRate)
	case RippleRandomEffect:
		return fmt.Sprintf("ripple_random refresh=%g", v.RefreshRate)
	case WaveEffect:
		return fmt.Sprintf("wave direction=%d", v.Direction)
	default:
		return e.Name().String()
	}
}
