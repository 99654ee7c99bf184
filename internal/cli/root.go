// Package cli provides the command-line interface for razer-x-color.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/razer-x-color/internal/backend/console"
	"github.com/jmylchreest/razer-x-color/internal/backend/openrazer"
	backendplugin "github.com/jmylchreest/razer-x-color/internal/backend/plugin"
	"github.com/jmylchreest/razer-x-color/internal/colour"
	"github.com/jmylchreest/razer-x-color/internal/device"
	"github.com/jmylchreest/razer-x-color/internal/effect"
	"github.com/jmylchreest/razer-x-color/internal/process"
	"github.com/jmylchreest/razer-x-color/internal/version"
)

// Backend names accepted by --backend. Anything else is a plugin path.
const (
	BackendOpenRazer = "openrazer"
	BackendConsole   = "console"
)

// errNoArguments is returned after printing help for a bare invocation.
var errNoArguments = errors.New("no arguments given")

// ManagerFactory opens the device backend selected with --backend.
type ManagerFactory func(ctx context.Context, backend string, out io.Writer, logger hclog.Logger) (device.Manager, error)

// options holds the root command's flag values.
type options struct {
	effect    string
	colours   []string
	verbose   bool
	list      int
	listLong  bool
	automatic bool
	resource  string
	xrdbPath  string
	backend   string

	openManager ManagerFactory
	runner      process.Runner
}

// NewRootCmd creates the razer-x-color root command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(OpenManager, process.NewExecRunner())
}

func newRootCmd(open ManagerFactory, runner process.Runner) *cobra.Command {
	o := &options{openManager: open, runner: runner}

	cmd := &cobra.Command{
		Use:   "razer-x-color",
		Short: "Apply your desktop colour scheme to Razer device lighting",
		Long: `razer-x-color reads the primary colour of your X resources colour scheme
(as written by pywal, tinct and similar tools) or a colour you pass in, and
applies it as a lighting effect to every device managed by OpenRazer.

Examples:
  # Apply *color1 from X resources as a static colour
  razer-x-color --automatic

  # Apply a specific colour with the reactive effect
  razer-x-color -c ff8000 -e reactive

  # List devices and the effects they support
  razer-x-color -l

  # Long listing, including every capability the daemon reports
  razer-x-color -ll

  # Show what would be sent without touching hardware
  razer-x-color -a --backend console`,
		Version:      version.Short(),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 && len(args) == 0 {
				_ = cmd.Help()
				cmd.SilenceErrors = true
				return errNoArguments
			}
			return o.run(cmd, args)
		},
	}

	registerFlags(cmd.Flags(), o)

	cmd.SetVersionTemplate(version.String() + "\n")
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// registerFlags defines the root command flags on fs.
func registerFlags(fs *pflag.FlagSet, o *options) {
	fs.SetNormalizeFunc(normalizeFlagName)

	fs.StringVarP(&o.effect, "effect", "e", string(effect.Default), "lighting effect ("+effect.KnownList()+")")
	fs.StringSliceVarP(&o.colours, "color", "c", nil, "colour to apply as 6 digit hex, e.g. ff8000 (default: *color1 from X resources)")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "enable verbose output")
	fs.CountVarP(&o.list, "list_devices", "l", "list devices and supported effects (-ll for a long listing)")
	fs.BoolVar(&o.listLong, "list_devices_long", false, "list devices with their full capability set")
	fs.BoolVarP(&o.automatic, "automatic", "a", false, "apply the X resources colour to all devices")
	fs.StringVar(&o.resource, "resource", colour.DefaultResource, "X resource holding the colour")
	fs.StringVar(&o.xrdbPath, "xrdb", colour.DefaultXrdbPath, "xrdb binary used to query X resources")
	fs.StringVar(&o.backend, "backend", BackendOpenRazer, "device backend (openrazer, console, or path to a backend plugin)")
}

// normalizeFlagName lets every flag be spelled with dashes or underscores.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "-", "_"))
}

// OpenManager opens one of the built in backends, or launches a backend
// plugin when name is not a built in.
func OpenManager(ctx context.Context, name string, out io.Writer, logger hclog.Logger) (device.Manager, error) {
	switch name {
	case BackendOpenRazer, "":
		return openrazer.Connect(ctx, logger.Named("openrazer"))
	case BackendConsole:
		return console.New(out), nil
	default:
		return backendplugin.Launch(name, logger)
	}
}

// newLogger creates the diagnostic logger, at debug level when verbose.
func newLogger(out io.Writer, verbose bool) hclog.Logger {
	level := hclog.Info
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        "razer-x-color",
		Output:      out,
		Level:       level,
		DisableTime: true,
		Color:       hclog.AutoColor,
	})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
