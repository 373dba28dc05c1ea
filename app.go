package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/milk9111/clippit/animation"
	"github.com/milk9111/clippit/assets"
	"github.com/milk9111/clippit/assistant"
	"github.com/milk9111/clippit/config"
	"github.com/milk9111/clippit/dispatch"
	"github.com/milk9111/clippit/history"
	"github.com/milk9111/clippit/prefabs"
	"github.com/milk9111/clippit/reducer"
	"golang.org/x/sync/errgroup"
)

// App owns the bus and every loop hanging off it. The ebiten game only reads
// from it and publishes user input.
type App struct {
	cfg    config.Config
	logger *log.Logger
	spec   *prefabs.CatalogSpec

	bus       *dispatch.Bus
	scheduler *animation.Scheduler
	reducer   *reducer.Reducer
	worker    *assistant.Worker
	journal   *history.Journal
	script    *assistant.ScriptResponder
	watcher   *prefabs.Watcher
	redraw    reducer.Signal

	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// NewApp loads the catalog and wires the core loops. Nothing runs until Start.
func NewApp(cfg config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	spec, catalog, err := prefabs.LoadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:    cfg,
		logger: logger,
		spec:   spec,
		bus:    dispatch.New(cfg.BusCapacity),
		done:   make(chan struct{}),
	}

	a.scheduler, err = animation.NewScheduler(catalog, a.bus, animation.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	store := a.openHistory()
	seed, err := store.Load()
	if err != nil {
		logger.Printf("history: %v", err)
	}
	a.reducer = reducer.New(a.bus, &a.redraw, reducer.WithHistory(seed), reducer.WithHistoryLimit(cfg.History.Limit), reducer.WithLogger(logger))
	a.journal = history.NewJournal(a.bus, store, logger)

	responder, err := a.newResponder()
	if err != nil {
		return nil, err
	}
	retry := assistant.Retry{
		Attempts: cfg.Assistant.Retry.Attempts,
		Initial:  cfg.Assistant.Retry.InitialBackoff,
		Max:      cfg.Assistant.Retry.MaxBackoff,
	}
	a.worker = assistant.NewWorker(a.bus, responder, assistant.WithRetry(retry), assistant.WithLogger(logger))

	return a, nil
}

func (a *App) openHistory() *history.Store {
	if !a.cfg.History.Persist {
		return history.NewStore(nil, a.cfg.History.Limit, a.logger)
	}
	store, err := history.Open(a.cfg.History.AppName, a.cfg.History.Limit, a.logger)
	if err != nil {
		a.logger.Printf("history: persistence disabled: %v", err)
	}
	return store
}

func (a *App) newResponder() (assistant.Responder, error) {
	if a.cfg.Assistant.Responder != config.ResponderScript {
		return assistant.CannedResponder{Answer: a.cfg.Assistant.CannedAnswer}, nil
	}

	script, err := assistant.NewScriptResponder(a.cfg.Assistant.Script, nil, a.logger)
	if err != nil {
		return nil, err
	}
	a.script = script

	// Hot reload only works when running next to a prefabs/scripts checkout.
	w, err := prefabs.NewScriptWatcher(prefabs.ScriptDir())
	if err != nil {
		a.logger.Printf("prefabs: not watching %s: %v", prefabs.ScriptDir(), err)
	} else {
		a.watcher = w
	}
	return script, nil
}

// Start launches every loop under one errgroup. The first loop to fail
// cancels the rest; Err reports it.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)

	a.scheduler.Start(ctx)
	g.Go(a.scheduler.Wait)
	g.Go(func() error { return a.reducer.Run(ctx) })
	g.Go(func() error { return a.worker.Run(ctx) })
	g.Go(func() error { return a.journal.Run(ctx) })
	g.Go(func() error { return a.tick(ctx) })
	if a.script != nil && a.watcher != nil {
		g.Go(func() error { return a.script.Watch(ctx, a.watcher.Events) })
	}

	go func() {
		a.err = g.Wait()
		close(a.done)
	}()
}

// tick requests a redraw on a fixed interval even when the bus is quiet.
func (a *App) tick(ctx context.Context) error {
	t := time.NewTicker(a.cfg.RedrawInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			a.redraw.RequestRedraw()
		}
	}
}

// Err returns the error that stopped the loops, or nil while they run.
func (a *App) Err() error {
	select {
	case <-a.done:
		if a.err == nil {
			return fmt.Errorf("app: loops stopped")
		}
		return a.err
	default:
		return nil
	}
}

// Publish puts user input on the bus.
func (a *App) Publish(ev dispatch.Event) {
	if err := a.bus.Publish(ev); err != nil {
		a.logger.Printf("app: publish %v: %v", ev, err)
	}
}

func (a *App) Snapshot() reducer.Snapshot {
	return a.reducer.Snapshot()
}

func (a *App) Playback() animation.PlaybackState {
	return a.scheduler.State()
}

func (a *App) Catalog() *animation.Catalog {
	return a.scheduler.Catalog()
}

// SheetImage is the sprite sheet the catalog's grid slices.
func (a *App) SheetImage() string {
	return assets.SheetName(a.spec.SpriteSheet.Image)
}

// Close closes the bus and waits for the loops to drain.
func (a *App) Close() error {
	a.bus.Close()
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.cancel == nil {
		return nil
	}
	<-a.done
	a.cancel()
	return nil
}
