package procedure

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"purity/internal/apperr"
	"purity/internal/model"
)

// DefaultTimeout bounds one generation call.
const DefaultTimeout = 30 * time.Second

// Status is where a resolution stands.
type Status int

const (
	Idle Status = iota
	Pending
	Resolved
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Request identifies one generation call.
type Request struct {
	Generation     uint64
	FoodName       string
	AdulterantName string
}

// Outcome is what a generation call produced for a Request.
type Outcome struct {
	Generation uint64
	Test       *model.TestProcedure
	Err        error
}

// Resolution is a snapshot of the resolver. Test is set only when Resolved,
// Err only when Failed and Request only when Pending.
type Resolution struct {
	Status     Status
	Generation uint64
	Test       *model.TestProcedure
	Err        error
	Request    Request
}

// Message is the text to show for a failed resolution.
func (r Resolution) Message() string {
	if r.Status != Failed {
		return ""
	}
	return apperr.GenerationFailedMessage
}

// Resolver tracks procedure resolution for the current TEST_DETAILS visit.
// Every visit bumps a generation counter; outcomes from older generations are
// dropped by Apply.
type Resolver struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	generation uint64
	current    Resolution
	cancel     context.CancelFunc
	last       Request
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewResolver returns a Resolver backed by gen.
func NewResolver(gen Generator, logger *zap.Logger, opts ...Option) *Resolver {
	if gen == nil {
		gen = Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{gen: gen, timeout: DefaultTimeout, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Begin starts a new visit for the pair. A catalog procedure resolves
// immediately; otherwise the result is Pending and the caller is expected to
// Run the returned Request and Apply its Outcome.
func (r *Resolver) Begin(food model.FoodItem, adulterant model.Adulterant) Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextLocked()
	if adulterant.Test != nil {
		r.current = Resolution{
			Status:     Resolved,
			Generation: r.generation,
			Test:       model.CloneProcedure(adulterant.Test),
		}
		return r.snapshotLocked()
	}

	r.last = Request{FoodName: food.Name, AdulterantName: adulterant.Name}
	r.pendLocked()
	return r.snapshotLocked()
}

// Adopt starts a new visit with an already known procedure, as when a saved
// favorite is opened. Nothing is generated.
func (r *Resolver) Adopt(test model.TestProcedure) Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextLocked()
	c := test.Clone()
	r.current = Resolution{Status: Resolved, Generation: r.generation, Test: &c}
	return r.snapshotLocked()
}

// Retry re-requests generation after a failure, as a new generation.
func (r *Resolver) Retry() (Resolution, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current.Status != Failed {
		return r.snapshotLocked(), false
	}
	r.nextLocked()
	r.pendLocked()
	return r.snapshotLocked(), true
}

// Reset ends the visit. Any pending call is cancelled and its outcome will
// be discarded.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextLocked()
	r.current = Resolution{Status: Idle, Generation: r.generation}
}

// Current returns the resolver state.
func (r *Resolver) Current() Resolution {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Run calls the generator for req. It blocks until the call returns, the
// timeout expires or the visit is superseded. Run never panics; a panicking
// generator yields a failed Outcome.
func (r *Resolver) Run(ctx context.Context, req Request) Outcome {
	r.mu.Lock()
	if req.Generation != r.generation {
		r.mu.Unlock()
		return Outcome{Generation: req.Generation, Err: context.Canceled}
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	start := time.Now()
	test, err := r.generate(ctx, req)
	if err != nil {
		r.logger.Warn("Procedure generation failed",
			zap.String("food", req.FoodName),
			zap.String("adulterant", req.AdulterantName),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return Outcome{Generation: req.Generation, Err: apperr.GenerationFailed(err)}
	}

	r.logger.Info("Generated procedure",
		zap.String("food", req.FoodName),
		zap.String("adulterant", req.AdulterantName),
		zap.Duration("elapsed", time.Since(start)))
	return Outcome{Generation: req.Generation, Test: &test}
}

var errIncomplete = errors.New("generator returned an incomplete procedure")

// generate calls the generator on its own goroutine so a provider that
// ignores ctx still cannot outlive the timeout.
func (r *Resolver) generate(ctx context.Context, req Request) (model.TestProcedure, error) {
	type result struct {
		test model.TestProcedure
		err  error
	}
	done := make(chan result, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- result{err: fmt.Errorf("generator panic: %v", p)}
			}
		}()
		t, err := r.gen.Generate(ctx, req.FoodName, req.AdulterantName)
		done <- result{test: t, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return model.TestProcedure{}, res.err
		}
		if !res.test.Complete() {
			return model.TestProcedure{}, errIncomplete
		}
		return res.test, nil
	case <-ctx.Done():
		return model.TestProcedure{}, ctx.Err()
	}
}

// Apply records an Outcome. It returns false, leaving state untouched, when
// the outcome belongs to a superseded visit or nothing is pending.
func (r *Resolver) Apply(o Outcome) (Resolution, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.Generation != r.generation || r.current.Status != Pending {
		r.logger.Debug("Discarding stale procedure outcome",
			zap.Uint64("generation", o.Generation),
			zap.Uint64("current", r.generation))
		return r.snapshotLocked(), false
	}

	r.cancel = nil
	if o.Err != nil || o.Test == nil {
		err := o.Err
		if err == nil {
			err = apperr.GenerationFailed(errIncomplete)
		}
		r.current = Resolution{Status: Failed, Generation: r.generation, Err: err}
		return r.snapshotLocked(), true
	}

	r.current = Resolution{
		Status:     Resolved,
		Generation: r.generation,
		Test:       model.CloneProcedure(o.Test),
	}
	return r.snapshotLocked(), true
}

// Resolve runs a whole resolution synchronously. It suits callers without
// an event loop, such as the CLI and HTTP handlers.
func (r *Resolver) Resolve(ctx context.Context, food model.FoodItem, adulterant model.Adulterant) Resolution {
	res := r.Begin(food, adulterant)
	if res.Status != Pending {
		return res
	}
	applied, _ := r.Apply(r.Run(ctx, res.Request))
	return applied
}

// nextLocked bumps the generation and cancels whatever was in flight.
func (r *Resolver) nextLocked() {
	r.generation++
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resolver) pendLocked() {
	req := r.last
	req.Generation = r.generation
	r.current = Resolution{Status: Pending, Generation: r.generation, Request: req}
}

func (r *Resolver) snapshotLocked() Resolution {
	s := r.current
	s.Test = model.CloneProcedure(s.Test)
	return s
}
