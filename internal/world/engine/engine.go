package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"galaxy-server/internal/galaxy"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/errors"
	"galaxy-server/internal/world"
)

// Publisher receives frames from the engine's publish goroutine.
type Publisher interface {
	Publish(ctx context.Context, frame world.Frame) error
}

// MaxTickRate is the highest tick rate the engine runs at. Faster rates are
// clamped so the ticker interval never truncates to zero.
const MaxTickRate = config.MaxTickRate

type Options struct {
	TickRate    int
	FrameEvery  int
	StartPaused bool
}

type command struct {
	fn    func() error
	reply chan error
}

// Engine owns a World and serializes every tick and command on one
// goroutine. Callers reach the world only through Exec.
type Engine struct {
	inbox      chan command
	frames     chan world.Frame
	world      *world.World
	tickHz     int
	frameEvery int64
	paused     atomic.Bool
	latest     atomic.Pointer[world.Frame]
	publisher  Publisher
	done       chan struct{}
	logger     *slog.Logger
}

func New(w *world.World, opts Options, publisher Publisher, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.TickRate > MaxTickRate {
		logger.Warn("Tick rate clamped", "component", "engine", "requested", opts.TickRate, "max", MaxTickRate)
		opts.TickRate = MaxTickRate
	}
	if opts.FrameEvery <= 0 {
		opts.FrameEvery = 1
	}

	e := &Engine{
		inbox:      make(chan command, 256),
		frames:     make(chan world.Frame, 1),
		world:      w,
		tickHz:     opts.TickRate,
		frameEvery: int64(opts.FrameEvery),
		publisher:  publisher,
		done:       make(chan struct{}),
		logger:     logger.With("component", "engine"),
	}
	e.paused.Store(opts.StartPaused)
	e.refresh()
	return e
}

// Run drives the tick loop until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.done)

	ticker := time.NewTicker(time.Second / time.Duration(e.tickHz))
	defer ticker.Stop()

	pubCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if e.publisher != nil {
		go e.publishLoop(pubCtx)
	}

	e.logger.Info("Engine started",
		"tick_rate", e.tickHz,
		"frame_every", e.frameEvery,
		"paused", e.paused.Load(),
	)

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Engine stopped", "tick", e.world.Tick())
			return nil
		case cmd := <-e.inbox:
			err := cmd.fn()
			e.refresh()
			cmd.reply <- err
		case <-ticker.C:
			if e.paused.Load() {
				continue
			}
			e.world.Step()
			if e.world.Tick()%e.frameEvery == 0 {
				e.emit()
			}
		}
	}
}

// Exec runs fn on the engine goroutine between ticks and returns its error.
func (e *Engine) Exec(ctx context.Context, fn func(w *world.World) error) error {
	return e.do(ctx, func() error { return fn(e.world) })
}

func (e *Engine) do(ctx context.Context, fn func() error) error {
	cmd := command{fn: fn, reply: make(chan error, 1)}

	select {
	case e.inbox <- cmd:
	case <-e.done:
		return errors.External("simulation engine is not running")
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-e.done:
		return errors.External("simulation engine stopped")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pause stops the ticker from advancing the world and returns the frame
// taken right after the switch.
func (e *Engine) Pause(ctx context.Context) (world.Frame, error) {
	return e.setPaused(ctx, true)
}

func (e *Engine) Resume(ctx context.Context) (world.Frame, error) {
	return e.setPaused(ctx, false)
}

func (e *Engine) setPaused(ctx context.Context, paused bool) (world.Frame, error) {
	var f world.Frame
	err := e.do(ctx, func() error {
		e.paused.Store(paused)
		e.refresh()
		f = *e.latest.Load()
		if paused {
			e.logger.Info("Simulation paused", "operation", "pause", "tick", f.Tick)
		} else {
			e.logger.Info("Simulation resumed", "operation", "resume", "tick", f.Tick)
		}
		return nil
	})
	return f, err
}

// Step advances exactly one tick whether or not the engine is paused. The
// returned frame is the one emitted for that tick, so its Tick and Report
// belong together even while the ticker keeps running.
func (e *Engine) Step(ctx context.Context) (world.Frame, error) {
	var f world.Frame
	err := e.do(ctx, func() error {
		e.world.Step()
		e.emit()
		f = *e.latest.Load()
		return nil
	})
	return f, err
}

// Reset swaps in a new galaxy between ticks.
func (e *Engine) Reset(ctx context.Context, g *galaxy.Galaxy) error {
	return e.do(ctx, func() error {
		e.world.Reset(g)
		e.emit()
		return nil
	})
}

func (e *Engine) Paused() bool {
	return e.paused.Load()
}

// Latest returns the most recent frame. It never blocks on the tick loop.
func (e *Engine) Latest() world.Frame {
	return *e.latest.Load()
}

func (e *Engine) refresh() {
	f := e.world.Frame(e.paused.Load())
	e.latest.Store(&f)
}

// emit must run on the engine goroutine.
func (e *Engine) emit() {
	e.refresh()
	if e.publisher == nil {
		return
	}
	f := *e.latest.Load()

	// keep only the newest frame when the publisher lags
	select {
	case e.frames <- f:
	default:
		select {
		case <-e.frames:
		default:
		}
		select {
		case e.frames <- f:
		default:
		}
	}
}

func (e *Engine) publishLoop(ctx context.Context) {
	logger := e.logger.With("operation", "publish")
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-e.frames:
			if err := e.publisher.Publish(ctx, f); err != nil && ctx.Err() == nil {
				logger.Warn("Failed to publish frame", "tick", f.Tick, "error", err)
			}
		}
	}
}
