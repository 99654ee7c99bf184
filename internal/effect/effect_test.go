package effect

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/razer-x-color/internal/colour"
)

var orange = colour.RGB{R: 255, G: 128, B: 0}

func TestNew(t *testing.T) {
	tests := []struct {
		name Name
		want Effect
	}{
		{name: Static, want: StaticEffect{Colour: orange}},
		{name: BreathSingle, want: BreathSingleEffect{Colour: orange}},
		{name: BreathRandom, want: BreathRandomEffect{}},
		{name: Reactive, want: ReactiveEffect{Colour: orange, Duration: Reactive2000ms}},
		{name: Ripple, want: RippleEffect{Colour: orange, RefreshRate: RippleRefreshRate}},
		{name: RippleRandom, want: RippleRandomEffect{RefreshRate: RippleRefreshRate}},
		{name: Spectrum, want: SpectrumEffect{}},
		{name: Wave, want: WaveEffect{Direction: WaveRight}},
		{name: None, want: NoneEffect{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			got, err := New(tt.name, orange)
			if err != nil {
				t.Fatalf("New(%s) error = %v", tt.name, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("New(%s) mismatch (-want +got):\n%s", tt.name, diff)
			}
			if got.Name() != tt.name {
				t.Errorf("Name() = %s, want %s", got.Name(), tt.name)
			}
		})
	}
}

func TestNewReactiveUsesLongestDuration(t *testing.T) {
	e, err := New(Reactive, orange)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	longest := Reactive500ms
	for _, d := range []ReactiveDuration{Reactive500ms, Reactive1000ms, Reactive1500ms, Reactive2000ms} {
		if d > longest {
			longest = d
		}
	}
	if got := e.(ReactiveEffect).Duration; got != longest {
		t.Errorf("Expected duration %d, got %d", longest, got)
	}
}

func TestNewNotImplemented(t *testing.T) {
	for _, name := range []Name{BreathDual, BreathTriple, StarlightSingle, StarlightDual, StarlightRandom} {
		t.Run(string(name), func(t *testing.T) {
			_, err := New(name, orange)
			if !errors.Is(err, ErrNotImplemented) {
				t.Errorf("New(%s) error = %v, want ErrNotImplemented", name, err)
			}
		})
	}
}

func TestNewUnknown(t *testing.T) {
	_, err := New("disco", orange)
	if !errors.Is(err, ErrUnknown) {
		t.Fatalf("New() error = %v, want ErrUnknown", err)
	}
	if !strings.Contains(err.Error(), "static") {
		t.Errorf("Expected error to list available effects, got %v", err)
	}
}

func TestEveryKnownNameIsRecognised(t *testing.T) {
	for _, name := range Known {
		_, err := New(name, orange)
		if errors.Is(err, ErrUnknown) {
			t.Errorf("New(%s) reported a known name as unknown", name)
		}
	}
}

func TestCapability(t *testing.T) {
	if got := Ripple.Capability(); got != "lighting_ripple" {
		t.Errorf("Capability() = %q, want %q", got, "lighting_ripple")
	}
}

func TestIsKnown(t *testing.T) {
	if !Wave.IsKnown() {
		t.Error("Expected wave to be known")
	}
	if Name("strobe").IsKnown() {
		t.Error("Expected strobe to be unknown")
	}
}

func TestColourOf(t *testing.T) {
	if c, ok := ColourOf(RippleEffect{Colour: orange}); !ok || c != orange {
		t.Errorf("ColourOf(ripple) = %+v, %v", c, ok)
	}
	if _, ok := ColourOf(SpectrumEffect{}); ok {
		t.Error("Expected spectrum to carry no colour")
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		effect Effect
		want   string
	}{
		{effect: StaticEffect{Colour: orange}, want: "static #ff8000"},
		{effect: ReactiveEffect{Colour: orange, Duration: Reactive2000ms}, want: "reactive #ff8000 duration=4"},
		{effect: RippleEffect{Colour: orange, RefreshRate: 0.05}, want: "ripple #ff8000 refresh=0.05"},
		{effect: SpectrumEffect{}, want: "spectrum"},
	}

	for _, tt := range tests {
		if got := Describe(tt.effect); got != tt.want {
			t.Errorf("Describe() = %q, want %q", got, tt.want)
		}
	}
}
