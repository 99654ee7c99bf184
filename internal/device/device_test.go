package device

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/razer-x-color/internal/colour"
	"github.com/jmylchreest/razer-x-color/internal/effect"
)

// mockManager records the effects it is asked to apply.
type mockManager struct {
	devices  []Device
	caps     map[string]Capabilities
	capsErr  error
	applyErr error
	applied  map[string][]effect.Effect
	sync     *bool
	closed   bool
}

func newMockManager(devices ...Device) *mockManager {
	return &mockManager{
		devices: devices,
		caps:    make(map[string]Capabilities),
		applied: make(map[string][]effect.Effect),
	}
}

func (m *mockManager) Devices(_ context.Context) ([]Device, error) {
	return m.devices, nil
}

func (m *mockManager) Capabilities(_ context.Context, d Device) (Capabilities, error) {
	if m.capsErr != nil {
		return nil, m.capsErr
	}
	return m.caps[d.ID], nil
}

func (m *mockManager) Apply(_ context.Context, d Device, e effect.Effect) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.applied[d.ID] = append(m.applied[d.ID], e)
	return nil
}

func (m *mockManager) SetSyncEffects(_ context.Context, enabled bool) error {
	m.sync = &enabled
	return nil
}

func (m *mockManager) Close() error {
	m.closed = true
	return nil
}

var (
	orange   = colour.RGB{R: 255, G: 128, B: 0}
	keyboard = Device{ID: "PM1234", Name: "Razer BlackWidow", Type: "keyboard", Serial: "PM1234"}
	mouse    = Device{ID: "PM5678", Name: "Razer DeathAdder", Type: "mouse", Serial: "PM5678"}
)

func TestCapabilitiesHas(t *testing.T) {
	caps := NewCapabilities("lighting_static", "lighting_wave", "brightness")

	if !caps.Has(effect.Static) {
		t.Error("Expected static to be supported")
	}
	if caps.Has(effect.Ripple) {
		t.Error("Expected ripple to be unsupported")
	}
}

func TestCapabilitiesRaw(t *testing.T) {
	caps := NewCapabilities("lighting_wave", "brightness", "lighting_static")
	caps["lighting_ripple"] = false

	want := []string{"brightness", "lighting_static", "lighting_wave"}
	if diff := cmp.Diff(want, caps.Raw()); diff != "" {
		t.Errorf("Raw() mismatch (-want +got):\n%s", diff)
	}
}

func TestEffectsOfDevice(t *testing.T) {
	tests := []struct {
		name string
		caps Capabilities
		want []effect.Name
	}{
		{
			name: "keeps known order",
			caps: NewCapabilities("lighting_wave", "lighting_static", "lighting_reactive", "lighting_spectrum"),
			want: []effect.Name{effect.Static, effect.Reactive, effect.Spectrum, effect.Wave},
		},
		{
			name: "ignores non-effect capabilities",
			caps: NewCapabilities("brightness", "lighting_static", "lighting_logo_static"),
			want: []effect.Name{effect.Static},
		},
		{
			name: "nothing supported",
			caps: NewCapabilities("brightness"),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, EffectsOfDevice(tt.caps)); diff != "" {
				t.Errorf("EffectsOfDevice() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEffectsOfDeviceIsSubsetOfKnown(t *testing.T) {
	all := make([]string, 0, len(effect.Known))
	for _, n := range effect.Known {
		all = append(all, n.Capability())
	}

	if diff := cmp.Diff(effect.Known, EffectsOfDevice(NewCapabilities(all...))); diff != "" {
		t.Errorf("EffectsOfDevice() mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyDefaultsToStatic(t *testing.T) {
	m := newMockManager(keyboard)
	m.caps[keyboard.ID] = NewCapabilities("lighting_static")

	results, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, "", orange)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []effect.Effect{effect.StaticEffect{Colour: orange}}
	if diff := cmp.Diff(want, m.applied[keyboard.ID]); diff != "" {
		t.Errorf("applied effects mismatch (-want +got):\n%s", diff)
	}
	if results[0].Requested != effect.Static || results[0].Applied != effect.Static {
		t.Errorf("Unexpected result: %+v", results[0])
	}
}

func TestApplyFallsBackToStatic(t *testing.T) {
	m := newMockManager(keyboard)
	m.caps[keyboard.ID] = NewCapabilities("lighting_static")

	results, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.Wave, orange)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []effect.Effect{effect.StaticEffect{Colour: orange}}
	if diff := cmp.Diff(want, m.applied[keyboard.ID]); diff != "" {
		t.Errorf("applied effects mismatch (-want +got):\n%s", diff)
	}
	if !results[0].FellBack {
		t.Error("Expected result to record the fallback")
	}
	if results[0].Applied != effect.Static {
		t.Errorf("Expected static to be applied, got %s", results[0].Applied)
	}
}

func TestApplyFallbackIsPerDevice(t *testing.T) {
	m := newMockManager(keyboard, mouse)
	m.caps[keyboard.ID] = NewCapabilities("lighting_static")
	m.caps[mouse.ID] = NewCapabilities("lighting_static", "lighting_reactive")

	_, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.Reactive, orange)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if diff := cmp.Diff([]effect.Effect{effect.StaticEffect{Colour: orange}}, m.applied[keyboard.ID]); diff != "" {
		t.Errorf("keyboard effects mismatch (-want +got):\n%s", diff)
	}
	wantMouse := []effect.Effect{effect.ReactiveEffect{Colour: orange, Duration: effect.Reactive2000ms}}
	if diff := cmp.Diff(wantMouse, m.applied[mouse.ID]); diff != "" {
		t.Errorf("mouse effects mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyRipple(t *testing.T) {
	m := newMockManager(keyboard)
	m.caps[keyboard.ID] = NewCapabilities("lighting_static", "lighting_ripple")

	if _, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.Ripple, orange); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := []effect.Effect{effect.RippleEffect{Colour: orange, RefreshRate: effect.RippleRefreshRate}}
	if diff := cmp.Diff(want, m.applied[keyboard.ID]); diff != "" {
		t.Errorf("applied effects mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyUnknownEffectSkips(t *testing.T) {
	m := newMockManager(keyboard, mouse)
	m.caps[keyboard.ID] = NewCapabilities("lighting_static")
	m.caps[mouse.ID] = NewCapabilities("lighting_static")

	results, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, "disco", orange)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if len(m.applied) != 0 {
		t.Errorf("Expected no device to be touched, got %v", m.applied)
	}
	for _, res := range results {
		if !errors.Is(res.Skipped, effect.ErrUnknown) {
			t.Errorf("Expected ErrUnknown skip for %s, got %v", res.Device.Name, res.Skipped)
		}
	}
}

func TestApplyNotImplementedSkips(t *testing.T) {
	m := newMockManager(keyboard, mouse)
	m.caps[keyboard.ID] = NewCapabilities("lighting_static", "lighting_breath_dual")
	m.caps[mouse.ID] = NewCapabilities("lighting_static")

	results, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.BreathDual, orange)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	if !errors.Is(results[0].Skipped, effect.ErrNotImplemented) {
		t.Errorf("Expected keyboard to be skipped as not implemented, got %+v", results[0])
	}
	if len(m.applied[keyboard.ID]) != 0 {
		t.Errorf("Expected keyboard untouched, got %v", m.applied[keyboard.ID])
	}
	// The mouse lacks breath_dual so it falls back to static.
	if results[1].Applied != effect.Static {
		t.Errorf("Expected mouse to fall back to static, got %+v", results[1])
	}
}

func TestApplyNoUsableEffect(t *testing.T) {
	m := newMockManager(keyboard)
	m.caps[keyboard.ID] = NewCapabilities("brightness")

	results, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.Wave, orange)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if results[0].Skipped == nil {
		t.Error("Expected device without lighting to be skipped")
	}
	if len(m.applied) != 0 {
		t.Errorf("Expected no effect to be applied, got %v", m.applied)
	}
}

func TestApplyBackendErrors(t *testing.T) {
	t.Run("Capabilities", func(t *testing.T) {
		m := newMockManager(keyboard)
		m.capsErr = errors.New("daemon gone")

		if _, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.Static, orange); err == nil {
			t.Error("Expected capability error to be returned")
		}
	})

	t.Run("Apply", func(t *testing.T) {
		m := newMockManager(keyboard, mouse)
		m.caps[keyboard.ID] = NewCapabilities("lighting_static")
		m.applyErr = errors.New("write failed")

		results, err := NewApplicator(m, nil).Apply(context.Background(), m.devices, effect.Static, orange)
		if err == nil {
			t.Fatal("Expected apply error to be returned")
		}
		if len(results) != 0 {
			t.Errorf("Expected no completed results, got %d", len(results))
		}
	})
}
