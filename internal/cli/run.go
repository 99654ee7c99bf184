package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/razer-x-color/internal/colour"
	"github.com/jmylchreest/razer-x-color/internal/device"
	"github.com/jmylchreest/razer-x-color/internal/effect"
)

// run resolves the colour, enumerates devices and then lists and/or
// applies effects depending on the flags.
func (o *options) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	logger := newLogger(stderr, o.verbose)

	// Extra positional values belong to --color, e.g. "-c 255 128 0".
	if len(args) > 0 {
		if !cmd.Flags().Changed("color") {
			return fmt.Errorf("unexpected arguments %q, colours are given with --color", args)
		}
		o.colours = append(o.colours, args...)
	}

	apply := o.automatic || cmd.Flags().Changed("color") || cmd.Flags().Changed("effect")
	listing := o.list > 0 || o.listLong

	if !apply && !listing {
		logger.Info("nothing to do, use --automatic, --color or --effect to apply lighting, or --list_devices")
		return nil
	}

	logger.Debug("starting", "backend", o.backend, "apply", apply, "list", listing)

	// Resolve the colour before touching the daemon so a missing colour
	// leaves every device as it was.
	var rgb colour.RGB
	if apply {
		resolver := colour.NewResolver(
			colour.WithRunner(o.runner),
			colour.WithXrdbPath(o.xrdbPath),
			colour.WithResource(o.resource),
			colour.WithLogger(logger),
		)

		var err error
		rgb, err = resolver.Resolve(ctx, o.colours)
		if err != nil {
			return fmt.Errorf("failed to resolve colour: %w", err)
		}

		if o.verbose {
			source := "--color"
			if len(o.colours) == 0 {
				source = "*" + resolver.Resource()
			}
			fmt.Fprintf(stderr, "Found %s colour: %s\n", source, colour.FormatColour(stderr, rgb))
		}
	}

	manager, err := o.openManager(ctx, o.backend, stdout, logger)
	if err != nil {
		return fmt.Errorf("failed to open %s backend: %w", o.backend, err)
	}
	defer manager.Close()

	devices, err := manager.Devices(ctx)
	if err != nil {
		return err
	}
	logger.Debug("found devices", "count", len(devices))

	if listing {
		if err := listDevices(ctx, stdout, manager, devices, o.list > 1 || o.listLong); err != nil {
			return err
		}
	}

	if !apply {
		return nil
	}

	return o.apply(ctx, manager, devices, rgb, cmd.Flags().Changed("effect"), logger)
}

// apply disables daemon effect syncing, then applies the effect to each
// device independently.
func (o *options) apply(ctx context.Context, manager device.Manager, devices []device.Device, rgb colour.RGB, effectSet bool, logger hclog.Logger) error {
	if err := manager.SetSyncEffects(ctx, false); err != nil {
		return err
	}

	var requested effect.Name
	if effectSet {
		requested = effect.Name(o.effect)
	}

	results, err := device.NewApplicator(manager, logger).Apply(ctx, devices, requested, rgb)
	if err != nil {
		return err
	}

	applied := 0
	for _, res := range results {
		if res.Applied != "" {
			applied++
		}
	}
	logger.Info("lighting updated", "colour", rgb.Hex(), "devices", applied, "skipped", len(results)-applied)
	return nil
}

// listDevices prints one row per device. The long form adds the raw
// capability set.
func listDevices(ctx context.Context, w io.Writer, manager device.Manager, devices []device.Device, long bool) error {
	if len(devices) == 0 {
		_, err := fmt.Fprintln(w, "No devices found.")
		return err
	}

	headers := []string{"NAME", "TYPE", "SERIAL", "FIRMWARE", "DRIVER", "EFFECTS"}
	if long {
		headers = append(headers, "CAPABILITIES")
	}
	table := NewTable(headers...)
	table.WrapColumn(5, 40)
	table.WrapColumn(6, 40)

	for _, d := range devices {
		caps, err := manager.Capabilities(ctx, d)
		if err != nil {
			return fmt.Errorf("failed to query capabilities of %s: %w", d.Name, err)
		}

		row := []string{
			d.Name,
			orDash(d.Type),
			orDash(d.Serial),
			orDash(d.Firmware),
			orDash(d.DriverVersion),
			joinNames(device.EffectsOfDevice(caps)),
		}
		if long {
			row = append(row, orDash(strings.Join(caps.Raw(), " ")))
		}
		table.AddRow(row...)
	}

	_, err := fmt.Fprint(w, table.Render())
	return err
}

func joinNames(names []effect.Name) string {
	s := make([]string, len(names))
	for i, n := range names {
		s[i] = n.String()
	}
	return orDash(strings.Join(s, " "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
