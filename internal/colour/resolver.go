package colour

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/razer-x-color/internal/process"
)

const (
	// DefaultResource is the X resource wallpaper palette tools use for the
	// primary accent colour.
	DefaultResource = "color1"

	// DefaultXrdbPath is the resource database query tool.
	DefaultXrdbPath = "xrdb"
)

// ErrNoColour is returned when the resource database has no usable entry.
var ErrNoColour = errors.New("no colour found in X resources")

// Resolver turns the --color arguments, or the X resource database when
// none were given, into a single colour.
type Resolver struct {
	runner   process.Runner
	xrdbPath string
	resource string
	logger   hclog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithRunner sets the runner used to query xrdb.
func WithRunner(r process.Runner) ResolverOption {
	return func(res *Resolver) { res.runner = r }
}

// WithXrdbPath overrides the xrdb binary.
func WithXrdbPath(path string) ResolverOption {
	return func(res *Resolver) {
		if path != "" {
			res.xrdbPath = path
		}
	}
}

// WithResource sets the resource name to read, without the leading "*".
func WithResource(name string) ResolverOption {
	return func(res *Resolver) {
		name = strings.TrimLeft(name, "*.")
		if name != "" {
			res.resource = name
		}
	}
}

// WithLogger sets the logger for diagnostic output.
func WithLogger(l hclog.Logger) ResolverOption {
	return func(res *Resolver) { res.logger = l }
}

// NewResolver creates a Resolver with defaults for anything not overridden.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		runner:   process.NewExecRunner(),
		xrdbPath: DefaultXrdbPath,
		resource: DefaultResource,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resource returns the resource name the resolver reads.
func (r *Resolver) Resource() string {
	return r.resource
}

// Resolve returns the colour from args if any were given, otherwise it
// looks the configured resource up in the X resource database.
func (r *Resolver) Resolve(ctx context.Context, args []string) (RGB, error) {
	if len(args) > 0 {
		return ParseArgs(args)
	}

	r.logger.Debug("querying X resources", "xrdb", r.xrdbPath, "resource", r.resource)

	stdout, stderr, err := r.runner.Run(ctx, r.xrdbPath, "-query")
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return RGB{}, fmt.Errorf("failed to query X resources: %w: %s", err, msg)
		}
		return RGB{}, fmt.Errorf("failed to query X resources: %w", err)
	}

	value, ok := LookupResource(stdout, r.resource)
	if !ok {
		return RGB{}, fmt.Errorf("%w: *%s is not set", ErrNoColour, r.resource)
	}

	_, hex, found := strings.Cut(value, "#")
	if !found {
		return RGB{}, fmt.Errorf("%w: *%s has no hex value (%q)", ErrNoColour, r.resource, value)
	}

	rgb, err := ParseHex(hex)
	if err != nil {
		return RGB{}, fmt.Errorf("failed to parse *%s: %w", r.resource, err)
	}

	r.logger.Debug("found colour", "resource", r.resource, "hex", rgb.Hex(), "rgb", rgb.Decimal())
	return rgb, nil
}

// LookupResource finds name in xrdb -query output and returns its value.
// Both "*name" and "*.name" keys match; the first match wins.
func LookupResource(output []byte, name string) (string, bool) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "*"+name || key == "*."+name {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}
