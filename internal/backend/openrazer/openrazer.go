// Package openrazer talks to the OpenRazer daemon over the D-Bus session bus.
package openrazer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/razer-x-color/internal/device"
	"github.com/jmylchreest/razer-x-color/internal/effect"
)

// D-Bus names used by the daemon.
const (
	ServiceName   = "org.razer"
	DaemonPath    = dbus.ObjectPath("/org/razer")
	devicePathFmt = "/org/razer/device/%s"

	ifaceDevices   = "razer.devices"
	ifaceMisc      = "razer.device.misc"
	ifaceChroma    = "razer.device.lighting.chroma"
	ifaceCustom    = "razer.device.lighting.custom"
	introspectCall = "org.freedesktop.DBus.Introspectable.Introspect"
)

// method is an interface/member pair on a device object.
type method struct {
	iface string
	name  string
}

func (m method) String() string {
	return m.iface + "." + m.name
}

// capabilityMethods maps capability keys to the method whose presence
// means the device has that capability.
var capabilityMethods = map[string]method{
	"lighting_static":           {ifaceChroma, "setStatic"},
	"lighting_breath_single":    {ifaceChroma, "setBreathSingle"},
	"lighting_breath_dual":      {ifaceChroma, "setBreathDual"},
	"lighting_breath_triple":    {ifaceChroma, "setBreathTriple"},
	"lighting_breath_random":    {ifaceChroma, "setBreathRandom"},
	"lighting_reactive":         {ifaceChroma, "setReactive"},
	"lighting_spectrum":         {ifaceChroma, "setSpectrum"},
	"lighting_wave":             {ifaceChroma, "setWave"},
	"lighting_none":             {ifaceChroma, "setNone"},
	"lighting_starlight_single": {ifaceChroma, "setStarlightSingle"},
	"lighting_starlight_dual":   {ifaceChroma, "setStarlightDual"},
	"lighting_starlight_random": {ifaceChroma, "setStarlightRandom"},
	"lighting_led_matrix":       {ifaceChroma, "setKeyRow"},
	"lighting_ripple":           {ifaceCustom, "setRipple"},
	"lighting_ripple_random":    {ifaceCustom, "setRippleRandomColour"},
	"lighting_logo_static":      {"razer.device.lighting.logo", "setLogoStatic"},
	"lighting_scroll_static":    {"razer.device.lighting.scroll", "setScrollStatic"},
	"brightness":                {"razer.device.lighting.brightness", "getBrightness"},
	"game_mode_led":             {"razer.device.led.gamemode", "getGameMode"},
	"macro_logic":               {"razer.device.macro", "getMacros"},
	"poll_rate":                 {ifaceMisc, "getPollRate"},
	"dpi":                       {"razer.device.dpi", "getDPI"},
	"battery":                   {"razer.device.power", "getBattery"},
}

// caller is the part of dbus.BusObject the manager uses.
type caller interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...any) *dbus.Call
}

// Manager implements device.Manager for the OpenRazer daemon.
type Manager struct {
	conn   *dbus.Conn
	object func(path dbus.ObjectPath) caller
	logger hclog.Logger
}

// Connect opens the session bus and checks the daemon answers.
func Connect(ctx context.Context, logger hclog.Logger) (*Manager, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if running, err := DaemonRunning(); err != nil {
		logger.Debug("could not inspect process list", "error", err)
	} else if !running {
		logger.Warn("openrazer-daemon does not appear to be running, relying on D-Bus activation")
	}

	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	m := &Manager{
		conn: conn,
		object: func(path dbus.ObjectPath) caller {
			return conn.Object(ServiceName, path)
		},
		logger: logger,
	}
	return m, nil
}

// Close closes the bus connection.
func (m *Manager) Close() error {
	if m.conn == nil {
		return nil
	}
	return m.conn.Close()
}

// Devices lists the devices the daemon manages.
func (m *Manager) Devices(ctx context.Context) ([]device.Device, error) {
	var serials []string
	if err := m.object(DaemonPath).CallWithContext(ctx, ifaceDevices+".getDevices", 0).Store(&serials); err != nil {
		if isServiceUnknown(err) {
			return nil, fmt.Errorf("openrazer daemon is not available on the session bus (is openrazer-daemon running?): %w", err)
		}
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	m.logger.Debug("found devices", "count", len(serials))

	devices := make([]device.Device, 0, len(serials))
	for _, serial := range serials {
		obj := m.object(devicePath(serial))
		d := device.Device{
			ID:            serial,
			Serial:        serial,
			Name:          m.stringProperty(ctx, obj, "getDeviceName"),
			Type:          m.stringProperty(ctx, obj, "getDeviceType"),
			Firmware:      m.stringProperty(ctx, obj, "getFirmware"),
			DriverVersion: m.stringProperty(ctx, obj, "getDriverVersion"),
		}
		if d.Name == "" {
			d.Name = serial
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// stringProperty reads one of the misc getters, returning "" when the
// daemon does not provide it.
func (m *Manager) stringProperty(ctx context.Context, obj caller, name string) string {
	var value string
	if err := obj.CallWithContext(ctx, ifaceMisc+"."+name, 0).Store(&value); err != nil {
		m.logger.Trace("device property unavailable", "property", name, "error", err)
		return ""
	}
	return value
}

// Capabilities introspects the device object and reports every
// capability whose method it exposes.
func (m *Manager) Capabilities(ctx context.Context, d device.Device) (device.Capabilities, error) {
	var data string
	if err := m.object(devicePath(d.ID)).CallWithContext(ctx, introspectCall, 0).Store(&data); err != nil {
		return nil, fmt.Errorf("failed to introspect %s: %w", d.ID, err)
	}

	var node introspect.Node
	if err := xml.Unmarshal([]byte(data), &node); err != nil {
		return nil, fmt.Errorf("failed to parse introspection data for %s: %w", d.ID, err)
	}

	return capabilitiesFromNode(&node), nil
}

func capabilitiesFromNode(node *introspect.Node) device.Capabilities {
	present := make(map[method]bool)
	for _, iface := range node.Interfaces {
		for _, meth := range iface.Methods {
			present[method{iface.Name, meth.Name}] = true
		}
	}

	caps := make(device.Capabilities)
	for key, meth := range capabilityMethods {
		if present[meth] {
			caps[key] = true
		}
	}
	return caps
}

// Apply sends the effect to the device.
func (m *Manager) Apply(ctx context.Context, d device.Device, e effect.Effect) error {
	meth, args, err := callFor(e)
	if err != nil {
		return err
	}

	m.logger.Trace("calling device method", "device", d.ID, "method", meth.String(), "args", args)
	if err := m.object(devicePath(d.ID)).CallWithContext(ctx, meth.String(), 0, args...).Err; err != nil {
		return fmt.Errorf("%s failed: %w", meth, err)
	}
	return nil
}

// callFor maps an effect to its daemon method and arguments.
func callFor(e effect.Effect) (method, []any, error) {
	switch v := e.(type) {
	case effect.StaticEffect:
		return method{ifaceChroma, "setStatic"}, []any{v.Colour.R, v.Colour.G, v.Colour.B}, nil
	case effect.BreathSingleEffect:
		return method{ifaceChroma, "setBreathSingle"}, []any{v.Colour.R, v.Colour.G, v.Colour.B}, nil
	case effect.BreathRandomEffect:
		return method{ifaceChroma, "setBreathRandom"}, nil, nil
	case effect.ReactiveEffect:
		return method{ifaceChroma, "setReactive"}, []any{v.Colour.R, v.Colour.G, v.Colour.B, uint8(v.Duration)}, nil
	case effect.RippleEffect:
		return method{ifaceCustom, "setRipple"}, []any{v.Colour.R, v.Colour.G, v.Colour.B, v.RefreshRate}, nil
	case effect.RippleRandomEffect:
		return method{ifaceCustom, "setRippleRandomColour"}, []any{v.RefreshRate}, nil
	case effect.SpectrumEffect:
		return method{ifaceChroma, "setSpectrum"}, nil, nil
	case effect.WaveEffect:
		return method{ifaceChroma, "setWave"}, []any{int32(v.Direction)}, nil
	case effect.NoneEffect:
		return method{ifaceChroma, "setNone"}, nil, nil
	default:
		return method{}, nil, fmt.Errorf("%w: %s", effect.ErrNotImplemented, e.Name())
	}
}

// SetSyncEffects toggles the daemon's effect syncing across devices.
func (m *Manager) SetSyncEffects(ctx context.Context, enabled bool) error {
	if err := m.object(DaemonPath).CallWithContext(ctx, ifaceDevices+".syncEffects", 0, enabled).Err; err != nil {
		return fmt.Errorf("failed to set effect sync: %w", err)
	}
	return nil
}

func devicePath(serial string) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf(devicePathFmt, serial))
}

func isServiceUnknown(err error) bool {
	const name = "org.freedesktop.DBus.Error.ServiceUnknown"

	var dbusErr dbus.Error
	if errors.As(err, &dbusErr) {
		return dbusErr.Name == name
	}
	var dbusErrPtr *dbus.Error
	if errors.As(err, &dbusErrPtr) {
		return dbusErrPtr.Name == name
	}
	return false
}
