package agent

import (
	"log"

	"github.com/marketbrief/marketbrief/internal/research"
)

// EventType names the progress events emitted during a run.
type EventType string

const (
	EventPhase         EventType = "phase"
	EventUnderstanding EventType = "understanding"
	EventPlan          EventType = "plan"
	EventTaskStart     EventType = "task-start"
	EventTaskComplete  EventType = "task-complete"
	EventReflection    EventType = "reflection"
	EventAnswerChunk   EventType = "answer-chunk"
	EventComplete      EventType = "complete"
	EventError         EventType = "error"
)

// Event is one typed progress notification. Data depends on Type: a phase
// name string, an Understanding, a Plan, a Task, a Reflection, an answer
// text chunk, an error string, or nil for complete.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Callbacks mirrors the streaming event types for callers that integrate
// without consuming the event channel. Any field may be nil.
type Callbacks struct {
	OnPhase         func(research.Phase)
	OnUnderstanding func(research.Understanding)
	OnPlan          func(research.Plan)
	OnTaskStart     func(research.Task)
	OnTaskComplete  func(research.Task)
	OnReflection    func(research.Reflection)
	OnAnswerChunk   func(string)
	OnComplete      func()
	OnError         func(error)
}

// dispatch routes one event to the matching callback, if set.
func (c Callbacks) dispatch(ev Event) {
	switch ev.Type {
	case EventPhase:
		if c.OnPhase != nil {
			if p, ok := ev.Data.(research.Phase); ok {
				c.OnPhase(p)
			}
		}
	case EventUnderstanding:
		if c.OnUnderstanding != nil {
			if u, ok := ev.Data.(research.Understanding); ok {
				c.OnUnderstanding(u)
			}
		}
	case EventPlan:
		if c.OnPlan != nil {
			if p, ok := ev.Data.(research.Plan); ok {
				c.OnPlan(p)
			}
		}
	case EventTaskStart:
		if c.OnTaskStart != nil {
			if t, ok := ev.Data.(research.Task); ok {
				c.OnTaskStart(t)
			}
		}
	case EventTaskComplete:
		if c.OnTaskComplete != nil {
			if t, ok := ev.Data.(research.Task); ok {
				c.OnTaskComplete(t)
			}
		}
	case EventReflection:
		if c.OnReflection != nil {
			if r, ok := ev.Data.(research.Reflection); ok {
				c.OnReflection(r)
			}
		}
	case EventAnswerChunk:
		if c.OnAnswerChunk != nil {
			if s, ok := ev.Data.(string); ok {
				c.OnAnswerChunk(s)
			}
		}
	case EventComplete:
		if c.OnComplete != nil {
			c.OnComplete()
		}
	case EventError:
		if c.OnError != nil {
			if err, ok := ev.Data.(error); ok {
				c.OnError(err)
			}
		}
	}
}

// LogCallbacks returns a callback bundle that logs every lifecycle event.
func LogCallbacks(logger *log.Logger) Callbacks {
	return Callbacks{
		OnPhase: func(p research.Phase) {
			logger.Printf("phase: %s", p)
		},
		OnUnderstanding: func(u research.Understanding) {
			logger.Printf("understanding: intent=%q entities=%d complexity=%s", u.Intent, len(u.Entities), u.Complexity)
		},
		OnPlan: func(p research.Plan) {
			logger.Printf("plan: %s (%d tasks)", p.Summary, len(p.Tasks))
		},
		OnTaskStart: func(t research.Task) {
			logger.Printf("task start: [%s] %s", t.ID, t.Description)
		},
		OnTaskComplete: func(t research.Task) {
			logger.Printf("task %s: [%s] %s", t.Status, t.ID, t.Description)
		},
		OnReflection: func(r research.Reflection) {
			logger.Printf("reflection: complete=%t %s", r.IsComplete, r.Reasoning)
		},
		OnComplete: func() {
			logger.Printf("session complete")
		},
		OnError: func(err error) {
			logger.Printf("session error: %v", err)
		},
	}
}
