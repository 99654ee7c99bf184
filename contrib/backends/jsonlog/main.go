// jsonlog - razer-x-color Device Backend Example
//
// This backend exposes a single virtual device and appends every effect it
// receives to a JSON lines file. It shows the minimum a go-plugin device
// backend needs: a backend.Backend implementation, --plugin-info metadata
// and backend.Serve.
//
// Build:
//   go build -o jsonlog ./contrib/backends/jsonlog
//
// Usage:
//   razer-x-color -a --backend ./jsonlog
//   RAZER_X_COLOR_JSONLOG=/tmp/effects.jsonl razer-x-color -c ff8000 -e reactive --backend ./jsonlog
//
// Author: razer-x-color Contributors
// License: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jmylchreest/razer-x-color/pkg/backend"
)

const deviceID = "jsonlog0"

// entry is one line of the log file.
type entry struct {
	Time   time.Time             `json:"time"`
	Device string                `json:"device,omitempty"`
	Effect backend.EffectRequest `json:"effect,omitzero"`
	Sync   *bool                 `json:"sync_effects,omitempty"`
}

// JSONLogBackend records effects instead of driving hardware.
type JSONLogBackend struct {
	mu   sync.Mutex
	path string
}

// Devices returns the single virtual device.
func (b *JSONLogBackend) Devices(_ context.Context) ([]backend.Device, error) {
	return []backend.Device{{
		ID:     deviceID,
		Name:   "JSON Log",
		Type:   "virtual",
		Serial: "JSONLOG0001",
	}}, nil
}

// Capabilities reports the effects this backend records.
func (b *JSONLogBackend) Capabilities(_ context.Context, id string) ([]string, error) {
	if id != deviceID {
		return nil, fmt.Errorf("unknown device %q", id)
	}
	return []string{"lighting_static", "lighting_reactive", "lighting_spectrum", "lighting_none"}, nil
}

// Apply appends the effect to the log.
func (b *JSONLogBackend) Apply(_ context.Context, id string, req backend.EffectRequest) error {
	if id != deviceID {
		return fmt.Errorf("unknown device %q", id)
	}
	return b.write(entry{Time: time.Now(), Device: id, Effect: req})
}

// SetSyncEffects appends the sync state to the log.
func (b *JSONLogBackend) SetSyncEffects(_ context.Context, enabled bool) error {
	return b.write(entry{Time: time.Now(), Sync: &enabled})
}

// GetMetadata returns backend metadata.
func (b *JSONLogBackend) GetMetadata() backend.Info {
	return backend.Info{
		Name:            "jsonlog",
		Version:         "0.0.1",
		ProtocolVersion: backend.ProtocolVersion,
		Description:     "Record lighting effects to a JSON lines file",
	}
}

func (b *JSONLogBackend) write(e entry) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	// #nosec G304 -- path comes from the user's environment
	f, err := os.OpenFile(b.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", b.path, err)
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(e)
}

func logPath() string {
	if p := os.Getenv("RAZER_X_COLOR_JSONLOG"); p != "" {
		return p
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "razer-x-color", "effects.jsonl")
	}
	return filepath.Join(os.TempDir(), "razer-x-color-effects.jsonl")
}

func main() {
	b := &JSONLogBackend{path: logPath()}

	if len(os.Args) > 1 && os.Args[1] == "--plugin-info" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(b.GetMetadata()); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding plugin info: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	backend.Serve(b)
}
