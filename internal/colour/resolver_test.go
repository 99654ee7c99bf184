package colour

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jmylchreest/razer-x-color/internal/process"
)

const pywalResources = `*.background:	#0f1419
*.foreground:	#c5c8c6
*background:	#0f1419
*color0:	#0f1419
*color1:	#c25d5a
*color10:	#4f8a6b
*color11:	#d9a441
Xft.dpi:	96
`

func TestLookupResource(t *testing.T) {
	tests := []struct {
		name      string
		output    string
		resource  string
		wantValue string
		wantOK    bool
	}{
		{name: "star key", output: pywalResources, resource: "color1", wantValue: "#c25d5a", wantOK: true},
		{name: "prefix is not a match", output: "*color10:\t#4f8a6b\n", resource: "color1", wantOK: false},
		{name: "star dot key", output: "*.color1:\t#aabbcc\n", resource: "color1", wantValue: "#aabbcc", wantOK: true},
		{name: "first match wins", output: "*.color1: #111111\n*color1: #222222\n", resource: "color1", wantValue: "#111111", wantOK: true},
		{name: "other resource", output: pywalResources, resource: "foreground", wantValue: "#c5c8c6", wantOK: true},
		{name: "missing", output: "Xft.dpi:\t96\n", resource: "color1", wantOK: false},
		{name: "empty output", output: "", resource: "color1", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := LookupResource([]byte(tt.output), tt.resource)
			if ok != tt.wantOK {
				t.Fatalf("LookupResource() ok = %v, want %v", ok, tt.wantOK)
			}
			if value != tt.wantValue {
				t.Errorf("LookupResource() = %q, want %q", value, tt.wantValue)
			}
		})
	}
}

func TestResolveFromArgs(t *testing.T) {
	runner := process.NewMockRunner()
	r := NewResolver(WithRunner(runner))

	got, err := r.Resolve(context.Background(), []string{"ff8000"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got != (RGB{R: 255, G: 128, B: 0}) {
		t.Errorf("Resolve() = %+v", got)
	}
	if runner.CallCount != 0 {
		t.Errorf("Expected xrdb not to be queried, got %d calls", runner.CallCount)
	}
}

func TestResolveFromXrdb(t *testing.T) {
	runner := process.NewSuccessMockRunner([]byte(pywalResources))
	r := NewResolver(WithRunner(runner), WithXrdbPath("/usr/bin/xrdb"))

	got, err := r.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if diff := cmp.Diff(RGB{R: 0xc2, G: 0x5d, B: 0x5a}, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
	if runner.LastName != "/usr/bin/xrdb" {
		t.Errorf("Expected xrdb path '/usr/bin/xrdb', got %q", runner.LastName)
	}
	if diff := cmp.Diff([]string{"-query"}, runner.LastArgs); diff != "" {
		t.Errorf("xrdb args mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCustomResource(t *testing.T) {
	runner := process.NewSuccessMockRunner([]byte(pywalResources))
	r := NewResolver(WithRunner(runner), WithResource("*color11"))

	if r.Resource() != "color11" {
		t.Errorf("Expected resource 'color11', got %q", r.Resource())
	}

	got, err := r.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Hex() != "#d9a441" {
		t.Errorf("Resolve() = %s, want #d9a441", got.Hex())
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name    string
		runner  *process.MockRunner
		wantIs  error
		wantMsg string
	}{
		{
			name:   "no entry",
			runner: process.NewSuccessMockRunner([]byte("Xft.dpi:\t96\n")),
			wantIs: ErrNoColour,
		},
		{
			name:   "empty database",
			runner: process.NewSuccessMockRunner(nil),
			wantIs: ErrNoColour,
		},
		{
			name:   "value without hash",
			runner: process.NewSuccessMockRunner([]byte("*color1:\tred\n")),
			wantIs: ErrNoColour,
		},
		{
			name:   "malformed hex",
			runner: process.NewSuccessMockRunner([]byte("*color1:\t#c25d\n")),
			wantIs: ErrInvalidHex,
		},
		{
			name:    "xrdb fails",
			runner:  process.NewErrorMockRunner("unable to open display"),
			wantMsg: "unable to open display",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(WithRunner(tt.runner))

			_, err := r.Resolve(context.Background(), nil)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Resolve() error = %v, want %v", err, tt.wantIs)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Resolve() error = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}
