// Package plugin runs an external device backend through go-plugin and
// exposes it as a device.Manager.
package plugin

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/jmylchreest/razer-x-color/internal/device"
	"github.com/jmylchreest/razer-x-color/internal/effect"
	"github.com/jmylchreest/razer-x-color/internal/security"
	"github.com/jmylchreest/razer-x-color/pkg/backend"
)

// Manager adapts a backend.Backend to device.Manager.
type Manager struct {
	client  *goplugin.Client
	backend backend.Backend
	logger  hclog.Logger
}

// New wraps an already available backend.
func New(b backend.Backend, logger hclog.Logger) *Manager {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Manager{backend: b, logger: logger}
}

// Launch starts the backend executable at path and connects to it.
func Launch(path string, logger hclog.Logger) (*Manager, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	path, err := security.ValidateExecutable(path)
	if err != nil {
		return nil, fmt.Errorf("invalid backend plugin: %w", err)
	}

	// go-plugin is chatty at debug level, only pass it through when verbose.
	pluginLogger := logger.Named("plugin")
	if !logger.IsDebug() {
		pluginLogger = hclog.NewNullLogger()
	}

	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig:  backend.Handshake,
		Plugins:          backend.PluginMap(nil),
		Cmd:              exec.Command(path),
		AllowedProtocols: []goplugin.Protocol{goplugin.ProtocolNetRPC},
		Logger:           pluginLogger,
	})

	rpcClient, err := client.Client()
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to get RPC client: %w", err)
	}

	raw, err := rpcClient.Dispense(backend.PluginName)
	if err != nil {
		client.Kill()
		return nil, fmt.Errorf("failed to dispense backend: %w", err)
	}

	b, ok := raw.(backend.Backend)
	if !ok {
		client.Kill()
		return nil, fmt.Errorf("plugin %s does not implement the backend interface", path)
	}

	info := b.GetMetadata()
	logger.Debug("loaded backend plugin", "path", path, "name", info.Name, "version", info.Version, "protocol", info.ProtocolVersion)

	m := New(b, logger)
	m.client = client
	return m, nil
}

// Devices lists the backend's devices.
func (m *Manager) Devices(ctx context.Context) ([]device.Device, error) {
	remote, err := m.backend.Devices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	devices := make([]device.Device, len(remote))
	for i, d := range remote {
		devices[i] = device.Device{
			ID:            d.ID,
			Name:          d.Name,
			Type:          d.Type,
			Serial:        d.Serial,
			Firmware:      d.Firmware,
			DriverVersion: d.DriverVersion,
		}
	}
	return devices, nil
}

// Capabilities returns the capability keys the backend reports.
func (m *Manager) Capabilities(ctx context.Context, d device.Device) (device.Capabilities, error) {
	keys, err := m.backend.Capabilities(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	return device.NewCapabilities(keys...), nil
}

// Apply sends the effect to the backend.
func (m *Manager) Apply(ctx context.Context, d device.Device, e effect.Effect) error {
	return m.backend.Apply(ctx, d.ID, ToRequest(e))
}

// SetSyncEffects forwards the sync toggle.
func (m *Manager) SetSyncEffects(ctx context.Context, enabled bool) error {
	return m.backend.SetSyncEffects(ctx, enabled)
}

// Close stops the plugin process, if one was launched.
func (m *Manager) Close() error {
	if m.client != nil {
		m.client.Kill()
		m.client = nil
	}
	return nil
}

// ToRequest flattens an effect for the wire.
func ToRequest(e effect.Effect) backend.EffectRequest {
	req := backend.EffectRequest{Name: e.Name().String()}
	if c, ok := effect.ColourOf(e); ok {
		req.R, req.G, req.B = c.R, c.G, c.B
	}

	switch v := e.(type) {
	case effect.ReactiveEffect:
		req.Duration = uint8(v.Duration)
	case effect.RippleEffect:
		req.RefreshRate = v.RefreshRate
	case effect.RippleRandomEffect:
		req.RefreshRate = v.RefreshRate
	case effect.WaveEffect:
		req.Direction = uint8(v.Direction)
	}
	return req
}
