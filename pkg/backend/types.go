package backend

import "context"

// Backend is the interface device backend plugins implement.
type Backend interface {
	// Devices returns the devices the backend controls.
	Devices(ctx context.Context) ([]Device, error)

	// Capabilities returns the capability keys of a device, e.g.
	// "lighting_static".
	Capabilities(ctx context.Context, deviceID string) ([]string, error)

	// Apply sets an effect on a device.
	Apply(ctx context.Context, deviceID string, req EffectRequest) error

	// SetSyncEffects toggles cross-device effect syncing, if the backend has it.
	SetSyncEffects(ctx context.Context, enabled bool) error

	// GetMetadata returns backend metadata.
	GetMetadata() Info
}

// Device describes one device exposed by a backend.
type Device struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	Serial        string `json:"serial"`
	Firmware      string `json:"firmware"`
	DriverVersion string `json:"driver_version"`
}

// EffectRequest is an effect flattened for the wire. Fields an effect does
// not use are zero.
type EffectRequest struct {
	Name        string  `json:"name"`
	R           uint8   `json:"r"`
	G           uint8   `json:"g"`
	B           uint8   `json:"b"`
	Duration    uint8   `json:"duration,omitempty"`
	RefreshRate float64 `json:"refresh_rate,omitempty"`
	Direction   uint8   `json:"direction,omitempty"`
}

// Info contains metadata about a backend.
type Info struct {
	Name            string `json:"name"`
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocol_version"`
	Description     string `json:"description"`
}
