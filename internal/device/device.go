// Package device enumerates lighting devices through a backend Manager and
// applies effects to them.
package device

import (
	"context"
	"sort"

	"github.com/jmylchreest/razer-x-color/internal/effect"
)

// Device is a handle to one peripheral owned by the backend.
// ID is backend specific and only meaningful to the Manager that issued it.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Serial        string `json:"serial"`
	Firmware      string `json:"firmware"`
	DriverVersion string `json:"driver_version"`
}

// Manager is the device daemon as seen by razer-x-color.
type Manager interface {
	// Devices returns the currently connected devices.
	Devices(ctx context.Context) ([]Device, error)

	// Capabilities returns the capability set a device reports.
	Capabilities(ctx context.Context, d Device) (Capabilities, error)

	// Apply sends a single effect to a device.
	Apply(ctx context.Context, d Device, e effect.Effect) error

	// SetSyncEffects toggles the daemon mirroring one device's effect onto
	// all others.
	SetSyncEffects(ctx context.Context, enabled bool) error

	// Close releases the backend connection.
	Close() error
}

// Capabilities is the set of capability keys a device reports, such as
// "lighting_static" or "brightness".
type Capabilities map[string]bool

// NewCapabilities builds a capability set from keys.
func NewCapabilities(keys ...string) Capabilities {
	c := make(Capabilities, len(keys))
	for _, k := range keys {
		c[k] = true
	}
	return c
}

// Has reports whether the device supports the effect.
func (c Capabilities) Has(name effect.Name) bool {
	return c[name.Capability()]
}

// Raw returns the supported capability keys sorted by name.
func (c Capabilities) Raw() []string {
	keys := make([]string, 0, len(c))
	for k, ok := range c {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// EffectsOfDevice returns the known effects the capability set supports,
// in the order of effect.Known.
func EffectsOfDevice(caps Capabilities) []effect.Name {
	var names []effect.Name
	for _, name := range effect.Known {
		if caps.Has(name) {
			names = append(names, name)
		}
	}
	return names
}
