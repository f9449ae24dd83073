package research

import "sort"

// Phase names the stage the session is currently in.
type Phase string

const (
	PhaseUnderstand Phase = "understand"
	PhasePlan       Phase = "plan"
	PhaseExecute    Phase = "execute"
	PhaseReflect    Phase = "reflect"
	PhaseAnswer     Phase = "answer"
	PhaseComplete   Phase = "complete"
)

// DefaultMaxIterations bounds the Plan/Execute/Reflect loop when the caller
// does not configure a limit.
const DefaultMaxIterations = 5

// State is the aggregate root for one research session. It is owned
// exclusively by a single orchestrator run, never shared across concurrent
// queries, and discarded when the run completes.
type State struct {
	Query         string
	History       []Turn
	Phase         Phase
	Understanding *Understanding
	Plan          *Plan
	// TaskResults accumulates every task's result keyed by task id. Stale
	// keys from earlier plans persist on purpose: later planning rounds see
	// everything already gathered.
	TaskResults   map[string]TaskResult
	Reflection    *Reflection
	CurrentTaskID string
	Iteration     int
	MaxIterations int
	FinalAnswer   string
	Err           error
}

// NewState is the sole State constructor; every session starts from this
// baseline. maxIterations values below 1 fall back to the default.
func NewState(query string, history []Turn, maxIterations int) *State {
	if maxIterations < 1 {
		maxIterations = DefaultMaxIterations
	}
	return &State{
		Query:         query,
		History:       history,
		Phase:         PhaseUnderstand,
		TaskResults:   make(map[string]TaskResult),
		Iteration:     0,
		MaxIterations: maxIterations,
	}
}

// RecordResult stores a task result. Existing keys are overwritten only when
// the same task id reports again within one Execute pass.
func (s *State) RecordResult(r TaskResult) {
	s.TaskResults[r.TaskID] = r
}

// ToolsUsed returns the distinct tool names that produced results across the
// whole session, in first-use order.
func (s *State) ToolsUsed() []string {
	seen := make(map[string]bool)
	var names []string
	for _, id := range s.resultIDs() {
		for _, tr := range s.TaskResults[id].ToolResults {
			if !seen[tr.Tool] {
				seen[tr.Tool] = true
				names = append(names, tr.Tool)
			}
		}
	}
	return names
}

// HasToolData reports whether any accumulated task produced at least one
// successful tool result. Used as the code-level completion floor.
func (s *State) HasToolData() bool {
	for _, r := range s.TaskResults {
		if len(r.ToolResults) > 0 {
			return true
		}
	}
	return false
}

// resultIDs returns task ids in sorted order for deterministic iteration.
func (s *State) resultIDs() []string {
	ids := make([]string, 0, len(s.TaskResults))
	for id := range s.TaskResults {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
