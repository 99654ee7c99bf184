// Package backend provides the public API for razer-x-color device backend
// plugins. External backends should import this package instead of
// internal packages.
package backend

import (
	"github.com/hashicorp/go-plugin"
)

const (
	// ProtocolVersion defines the current backend API version.
	// Format: MAJOR.MINOR.PATCH.
	ProtocolVersion = "0.1.0"

	// PluginName is the name backends are dispensed under.
	PluginName = "backend"
)

// Handshake is the handshake configuration for go-plugin protocol.
// This ensures that backends can only connect to compatible hosts.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  0, // Major version from ProtocolVersion
	MagicCookieKey:   "RAZER_X_COLOR_BACKEND",
	MagicCookieValue: "razer_x_color_device_backend",
}

// PluginMap returns the plugin set a host or backend registers.
func PluginMap(impl Backend) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginName: &BackendRPC{Impl: impl},
	}
}

// Serve runs impl as a backend plugin. It blocks until the host exits.
func Serve(impl Backend) {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: Handshake,
		Plugins:         PluginMap(impl),
	})
}
