// Package agent drives one research session through the five-phase loop:
// Understand once, then Plan, Execute and Reflect up to the iteration bound,
// then Answer once. Every phase degrades to a safe default instead of
// failing; only answer generation can abort a run.
package agent

import (
	"context"
	"log"
	"time"

	"github.com/marketbrief/marketbrief/internal/llm"
	"github.com/marketbrief/marketbrief/internal/research"
	"github.com/marketbrief/marketbrief/internal/tickers"
	"github.com/marketbrief/marketbrief/internal/tools"
)

// Config tunes one Agent instance.
type Config struct {
	// Model is the primary model for understanding, planning, reasoning,
	// reflection and the final answer.
	Model string
	// FastModel, when set, handles the lighter tool-selection calls.
	FastModel string
	// MaxIterations bounds the Plan/Execute/Reflect loop. Values below 1
	// fall back to the default.
	MaxIterations int
	// MaxTokens caps each completion; 0 uses the provider default.
	MaxTokens int
	// Callbacks receive lifecycle events in both run modes.
	Callbacks Callbacks
	// Logger receives diagnostics; nil disables them.
	Logger *log.Logger
}

// Agent runs research sessions. One Agent serves many sessions; each call
// to Run or RunStreaming builds its own State, so concurrent sessions share
// nothing mutable.
type Agent struct {
	llm   llm.Client
	tools tools.Registry
	dir   *tickers.Directory
	cfg   Config
}

// New creates an Agent. dir may be nil to disable name normalization.
func New(client llm.Client, registry tools.Registry, dir *tickers.Directory, cfg Config) *Agent {
	return &Agent{llm: client, tools: registry, dir: dir, cfg: cfg}
}

// Run executes a full session and blocks until the final answer is ready.
// It returns an error only when answer generation itself fails; every
// earlier phase degrades instead.
func (a *Agent) Run(ctx context.Context, query string, history []research.Turn) (string, error) {
	st := research.NewState(query, history, a.cfg.MaxIterations)
	if err := a.run(ctx, st, a.cfg.Callbacks.dispatch, false); err != nil {
		return "", err
	}
	return st.FinalAnswer, nil
}

// RunStreaming executes a full session and emits progress events on the
// returned channel, which is closed when the session ends. Answer text
// arrives incrementally as answer-chunk events.
func (a *Agent) RunStreaming(ctx context.Context, query string, history []research.Turn) <-chan Event {
	events := make(chan Event, 16)
	go func() {
		defer close(events)
		st := research.NewState(query, history, a.cfg.MaxIterations)
		emit := func(ev Event) {
			a.cfg.Callbacks.dispatch(ev)
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		a.run(ctx, st, emit, true)
	}()
	return events
}

// run is the phase driver shared by both modes. It mutates st in place and
// reports every transition through emit.
func (a *Agent) run(ctx context.Context, st *research.State, emit func(Event), stream bool) error {
	emit(Event{Type: EventPhase, Data: research.PhaseUnderstand})
	a.understand(ctx, st)
	emit(Event{Type: EventUnderstanding, Data: *st.Understanding})

	for st.Iteration < st.MaxIterations && st.Phase != research.PhaseAnswer {
		st.Iteration++

		st.Phase = research.PhasePlan
		emit(Event{Type: EventPhase, Data: research.PhasePlan})
		a.plan(ctx, st)
		emit(Event{Type: EventPlan, Data: *st.Plan})

		st.Phase = research.PhaseExecute
		emit(Event{Type: EventPhase, Data: research.PhaseExecute})
		a.execute(ctx, st, emit)

		st.Phase = research.PhaseReflect
		emit(Event{Type: EventPhase, Data: research.PhaseReflect})
		a.reflect(ctx, st)
		emit(Event{Type: EventReflection, Data: *st.Reflection})

		if st.Reflection.IsComplete {
			st.Phase = research.PhaseAnswer
		}
	}

	st.Phase = research.PhaseAnswer
	emit(Event{Type: EventPhase, Data: research.PhaseAnswer})
	if err := a.answer(ctx, st, emit, stream); err != nil {
		st.Err = err
		emit(Event{Type: EventError, Data: err})
		return err
	}

	st.Phase = research.PhaseComplete
	emit(Event{Type: EventComplete, Data: nil})
	return nil
}

func (a *Agent) request(system, user, model string) llm.Request {
	return llm.Request{
		Model:     model,
		System:    system,
		User:      user,
		MaxTokens: a.cfg.MaxTokens,
	}
}

// fastModel returns the tool-selection model, falling back to the primary.
func (a *Agent) fastModel() string {
	if a.cfg.FastModel != "" {
		return a.cfg.FastModel
	}
	return a.cfg.Model
}

func (a *Agent) logf(format string, args ...any) {
	if a.cfg.Logger != nil {
		a.cfg.Logger.Printf(format, args...)
	}
}

func (a *Agent) onRetry(attempt int, delay time.Duration, err error) {
	a.logf("model call retry %d in %s: %v", attempt, delay, err)
}
