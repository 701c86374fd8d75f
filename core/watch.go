package core

import (
	"context"
	"errors"
	"os"

	"github.com/huangsam/deeptime/internal"
	"github.com/huangsam/deeptime/internal/contract"
	"github.com/huangsam/deeptime/internal/loader"
	"github.com/huangsam/deeptime/internal/outwriter"
	"github.com/huangsam/deeptime/schema"
)

// ExecuteWatch renders the events file and renders again after every content change
// until ctx is done. A file that fails to load renders the built-in events instead.
func ExecuteWatch(ctx context.Context, cfg *contract.Config) error {
	if cfg.EventsPath == "" {
		return errors.New("--events is required for watch")
	}
	w, err := loader.NewWatcher(cfg.EventsPath, cfg.Debounce)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	ow := outwriter.NewOutWriter()
	if err := renderAndWrite(ctx, cfg, ow, loader.LoadOrDefault(w.Path()), w.Path()); err != nil {
		return err
	}

	generation := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case reload, ok := <-w.Reloads():
			if !ok {
				return nil
			}
			generation++
			source := reload.Path
			if reload.Err != nil {
				contract.LogWarn("reloading "+reload.Path+", using "+builtinSource, reload.Err)
				source = builtinSource
			}
			cfg = followPresent(cfg)
			if err := renderAndWrite(withGeneration(ctx, generation), cfg, ow, reload.Events, source); err != nil {
				return err
			}
		}
	}
}

func renderAndWrite(ctx context.Context, cfg *contract.Config, ow *outwriter.OutWriter, events []schema.Event, source string) error {
	if n, ok := getGeneration(ctx); ok && !shouldSuppressHeader(ctx) {
		internal.LogReloadHeader(os.Stderr, source, n)
	}
	result, err := renderEvents(ctx, cfg, events, source)
	if err != nil {
		return err
	}
	return ow.WriteRender(result, cfg)
}

// followPresent moves the right edge to the current instant when it was
// tracking the present, so long-running watches keep "now" on the axis.
func followPresent(cfg *contract.Config) *contract.Config {
	tl, err := NewTimeline(cfg)
	if err != nil || !tl.ResetRightmostToNow() {
		return cfg
	}
	next := cfg.CloneWithWindow(tl.Leftmost(), tl.Rightmost())
	next.Reference = tl.Reference()
	return next
}
