package primegl

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/primegl/gfx"
	"github.com/gogpu/primegl/sieve"
	"github.com/gogpu/primegl/surface"
)

// The sieve is checked against pi(1000) while loading.
const (
	selfTestBound = 1000
	selfTestCount = 168
)

// Option configures Load.
type Option func(*loadOptions)

type hostSurface struct {
	id string
	s  surface.Surface
}

type loadOptions struct {
	surfaces []hostSurface
	backends *gfx.Registry
	backend  string
	steps    []func(context.Context) error
}

// WithSurface registers a host-provided surface under id in addition to
// the configured ones. The engine closes it on Close.
func WithSurface(id string, s surface.Surface) Option {
	return func(o *loadOptions) {
		o.surfaces = append(o.surfaces, hostSurface{id: id, s: s})
	}
}

// WithBackendRegistry selects the graphics backend registry.
// The default is gfx.DefaultRegistry().
func WithBackendRegistry(r *gfx.Registry) Option {
	return func(o *loadOptions) { o.backends = r }
}

// WithBackend overrides Config.Backend.
func WithBackend(name string) Option {
	return func(o *loadOptions) { o.backend = name }
}

// WithSetupStep adds a step that runs alongside the built-in setup.
// Any error moves the Loader to the error state.
func WithSetupStep(fn func(context.Context) error) Option {
	return func(o *loadOptions) { o.steps = append(o.steps, fn) }
}

// Loader loads an Engine asynchronously and exposes the lifecycle state.
//
// A Loader starts in StatusLoading and moves exactly once to StatusReady
// or StatusError. Callers observe the transition by polling State, by
// receiving from Changes, or by waiting on Done. The Engine is only
// available from the ready state.
type Loader struct {
	mu     sync.Mutex
	state  State
	engine *Engine

	changes chan State
	done    chan struct{}
}

// Load starts loading an engine for cfg and returns immediately.
// Cancelling ctx before setup completes moves the Loader to the error state.
func Load(ctx context.Context, cfg Config, opts ...Option) *Loader {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	l := &Loader{
		state:   State{Status: StatusLoading},
		changes: make(chan State, 2),
		done:    make(chan struct{}),
	}
	l.changes <- l.state

	go l.run(ctx, cfg, o)
	return l
}

// State returns the current state without blocking.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Changes returns a channel that receives the initial loading state and
// then the terminal state, after which it is closed. The channel is
// buffered; an unread Changes never blocks loading.
func (l *Loader) Changes() <-chan State {
	return l.changes
}

// Done returns a channel that is closed once the state is terminal.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the state is terminal or ctx is done.
func (l *Loader) Wait(ctx context.Context) (State, error) {
	select {
	case <-l.done:
		return l.State(), nil
	case <-ctx.Done():
		return l.State(), ctx.Err()
	}
}

// Engine returns the loaded engine. It returns ErrNotReady while loading
// and an error wrapping ErrLoadFailure if loading failed.
func (l *Loader) Engine() (*Engine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.state.Terminal() {
		return nil, ErrNotReady
	}
	if l.state.Status == StatusError {
		return nil, fmt.Errorf("%w: %s", ErrLoadFailure, l.state.Err)
	}
	return l.engine, nil
}

func (l *Loader) run(ctx context.Context, cfg Config, o loadOptions) {
	e, err := setup(ctx, cfg, o)
	if err != nil {
		Logger().Warn("primegl: engine failed to load", "err", err)
		l.finish(State{Status: StatusError, Err: err.Error()}, nil)
		return
	}
	Logger().Info("primegl: engine ready",
		"engine", e.id, "surfaces", e.surfaces.IDs(), "max_bound", e.cfg.MaxBound)
	l.finish(State{Status: StatusReady}, e)
}

// finish performs the single terminal transition.
func (l *Loader) finish(to State, e *Engine) {
	l.mu.Lock()
	if err := validateStatusTransition(l.state.Status, to.Status); err != nil {
		l.mu.Unlock()
		Logger().Error("primegl: dropped state change", "err", err)
		if e != nil {
			_ = e.Close()
		}
		return
	}
	l.state = to
	l.engine = e
	l.mu.Unlock()

	l.changes <- to
	close(l.changes)
	close(l.done)
}

// setup runs the one-time engine setup. Independent steps run
// concurrently; the first failure cancels the rest.
func setup(ctx context.Context, cfg Config, o loadOptions) (*Engine, error) {
	cfg = cfg.withDefaults()
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backends := o.backends
	if backends == nil {
		backends = gfx.DefaultRegistry()
	}

	var surfaces *surface.Registry
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return selfTest(gctx, cfg.ScratchLimit)
	})
	g.Go(func() error {
		if cfg.Backend == "" {
			return nil
		}
		if _, ok := backends.Get(cfg.Backend); !ok {
			return &gfx.BackendNotFoundError{Name: cfg.Backend}
		}
		return nil
	})
	g.Go(func() error {
		reg, err := cfg.buildSurfaces()
		if err != nil {
			return err
		}
		for _, hs := range o.surfaces {
			if err := reg.Register(hs.id, hs.s); err != nil {
				_ = reg.Close()
				return fmt.Errorf("register surface %q: %w", hs.id, err)
			}
		}
		surfaces = reg
		return nil
	})
	for _, step := range o.steps {
		g.Go(func() error { return step(gctx) })
	}

	if err := g.Wait(); err != nil {
		if surfaces != nil {
			_ = surfaces.Close()
		}
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		_ = surfaces.Close()
		return nil, err
	}

	e := &Engine{
		id:       uuid.NewString(),
		cfg:      cfg,
		surfaces: surfaces,
		graphics: gfx.NewManager(surfaces, gfx.WithRegistry(backends), gfx.WithBackend(cfg.Backend)),
		sieve:    &sieve.Sieve{Limit: cfg.ScratchLimit, Workers: cfg.Workers},
	}
	return e, nil
}

func selfTest(ctx context.Context, limit int) error {
	s := sieve.New(limit)
	r, err := s.Count(selfTestBound)
	if err != nil {
		return fmt.Errorf("sieve self-test: %w", err)
	}
	if r.Count != selfTestCount {
		return fmt.Errorf("sieve self-test: pi(%d) = %d, want %d", selfTestBound, r.Count, selfTestCount)
	}
	return ctx.Err()
}
