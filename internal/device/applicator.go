package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/razer-x-color/internal/colour"
	"github.com/jmylchreest/razer-x-color/internal/effect"
)

// Result records what happened to one device during Apply.
type Result struct {
	Device    Device
	Requested effect.Name
	// Applied is empty when the device was skipped.
	Applied  effect.Name
	FellBack bool
	// Skipped holds the reason a device was left untouched.
	Skipped error
}

// Applicator applies a requested effect across devices.
type Applicator struct {
	manager Manager
	logger  hclog.Logger
}

// NewApplicator creates an Applicator for the given manager.
func NewApplicator(m Manager, logger hclog.Logger) *Applicator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Applicator{manager: m, logger: logger}
}

// Apply sends the requested effect in colour c to each device. An empty
// request means effect.Default. Devices lacking the requested effect get
// the default instead; the fallback never carries over to the next device.
// Unknown and unimplemented effects skip the device. Backend failures stop
// the run and are returned.
func (a *Applicator) Apply(ctx context.Context, devices []Device, requested effect.Name, c colour.RGB) ([]Result, error) {
	if requested == "" {
		a.logger.Info("no effect set, using default effect", "effect", effect.Default)
		requested = effect.Default
	}

	results := make([]Result, 0, len(devices))
	for _, d := range devices {
		res, err := a.applyOne(ctx, d, requested, c)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (a *Applicator) applyOne(ctx context.Context, d Device, requested effect.Name, c colour.RGB) (Result, error) {
	res := Result{Device: d, Requested: requested}
	log := a.logger.With("device", d.Name)

	if !requested.IsKnown() {
		res.Skipped = fmt.Errorf("%w: %q", effect.ErrUnknown, requested)
		log.Warn("unknown effect, skipping device", "effect", requested, "available", effect.KnownList())
		return res, nil
	}

	caps, err := a.manager.Capabilities(ctx, d)
	if err != nil {
		return res, fmt.Errorf("failed to query capabilities of %s: %w", d.Name, err)
	}

	name := requested
	if !caps.Has(name) {
		if !caps.Has(effect.Default) {
			res.Skipped = fmt.Errorf("device supports neither %s nor %s", name, effect.Default)
			log.Warn("device has no usable lighting effect, skipping", "effect", name)
			return res, nil
		}
		log.Debug("effect not supported by device, falling back", "effect", name, "fallback", effect.Default)
		name = effect.Default
		res.FellBack = true
	}

	e, err := effect.New(name, c)
	if err != nil {
		res.Skipped = err
		if errors.Is(err, effect.ErrNotImplemented) {
			log.Warn("effect is not yet implemented, skipping device; contributions adding it are welcome", "effect", name)
		} else {
			log.Warn("cannot build effect, skipping device", "effect", name, "error", err)
		}
		return res, nil
	}

	log.Debug("setting effect", "effect", effect.Describe(e))
	if err := a.manager.Apply(ctx, d, e); err != nil {
		return res, fmt.Errorf("failed to set %s on %s: %w", name, d.Name, err)
	}

	res.Applied = name
	return res, nil
}
