// Package console provides a device backend that prints the commands it
// receives instead of driving hardware. It backs --backend console for dry
// runs and testing without a daemon.
package console

import (
	"context"
	"fmt"
	"io"

	"github.com/jmylchreest/razer-x-color/internal/device"
	"github.com/jmylchreest/razer-x-color/internal/effect"
	"github.com/jmylchreest/razer-x-color/internal/version"
)

// Manager is a device.Manager with one virtual device supporting every
// known effect.
type Manager struct {
	out     io.Writer
	devices []device.Device
	caps    device.Capabilities
}

// New creates a console manager writing to out.
func New(out io.Writer) *Manager {
	keys := make([]string, 0, len(effect.Known))
	for _, name := range effect.Known {
		keys = append(keys, name.Capability())
	}

	return &Manager{
		out: out,
		devices: []device.Device{{
			ID:            "console",
			Name:          "Console",
			Type:          "virtual",
			Serial:        "CONSOLE0001",
			Firmware:      "n/a",
			DriverVersion: version.Short(),
		}},
		caps: device.NewCapabilities(keys...),
	}
}

// Devices returns the virtual device.
func (m *Manager) Devices(_ context.Context) ([]device.Device, error) {
	return m.devices, nil
}

// Capabilities reports every known effect.
func (m *Manager) Capabilities(_ context.Context, d device.Device) (device.Capabilities, error) {
	if d.ID != "console" {
		return nil, fmt.Errorf("unknown device %q", d.ID)
	}
	return m.caps, nil
}

// Apply prints the effect.
func (m *Manager) Apply(_ context.Context, d device.Device, e effect.Effect) error {
	_, err := fmt.Fprintf(m.out, "%s: %s\n", d.Name, effect.Describe(e))
	return err
}

// SetSyncEffects prints the sync state.
func (m *Manager) SetSyncEffects(_ context.Context, enabled bool) error {
	_, err := fmt.Fprintf(m.out, "sync effects: %t\n", enabled)
	return err
}

// Close does nothing.
func (m *Manager) Close() error {
	return nil
}
