// Package research defines the typed representation of a single research
// session: the query understanding, the task plan, accumulated results and
// the reflection that drives loop continuation.
package research

// EntityType classifies a token extracted from the user query.
type EntityType string

const (
	EntityTicker  EntityType = "ticker"
	EntityCompany EntityType = "company"
	EntityDate    EntityType = "date"
	EntityMetric  EntityType = "metric"
	EntityPeriod  EntityType = "period"
	EntityOther   EntityType = "other"
)

// Entity is a typed token extracted during Understand. Immutable thereafter.
type Entity struct {
	Type       EntityType `json:"type"`
	Value      string     `json:"value"`
	Normalized string     `json:"normalized,omitempty"`
}

// Resolved returns the canonical value if one was derived, else the raw value.
func (e Entity) Resolved() string {
	if e.Normalized != "" {
		return e.Normalized
	}
	return e.Value
}

// Complexity grades how much work a query is expected to need.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Understanding is the structured interpretation of the query. Produced once
// per session; read-only input to every later phase.
type Understanding struct {
	Intent     string     `json:"intent"`
	Entities   []Entity   `json:"entities"`
	Timeframe  string     `json:"timeframe,omitempty"`
	Complexity Complexity `json:"complexity"`
}

// PrimaryTicker returns the first ticker entity's canonical value, or "".
func (u Understanding) PrimaryTicker() string {
	for _, e := range u.Entities {
		if e.Type == EntityTicker {
			return e.Resolved()
		}
	}
	return ""
}

// TaskType distinguishes tool-driven tasks from pure reasoning tasks.
type TaskType string

const (
	TaskUseTools TaskType = "use_tools"
	TaskReason   TaskType = "reason"
)

// TaskStatus tracks a task through execution.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Task is one unit of planned work.
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Type        TaskType   `json:"task_type"`
	DependsOn   []string   `json:"depends_on,omitempty"`
	Status      TaskStatus `json:"status"`
	ToolCalls   []ToolCall `json:"tool_calls,omitempty"`
	Result      string     `json:"result,omitempty"`
}

// Plan is the set of dependent tasks proposed for one iteration. Replaced,
// not merged, each time Plan runs; task identity does not survive across
// iterations.
type Plan struct {
	Summary string `json:"summary"`
	Tasks   []Task `json:"tasks"`
}

// ToolCallStatus tracks one tool invocation. Transitions are strictly
// pending -> running -> completed|failed.
type ToolCallStatus string

const (
	CallPending   ToolCallStatus = "pending"
	CallRunning   ToolCallStatus = "running"
	CallCompleted ToolCallStatus = "completed"
	CallFailed    ToolCallStatus = "failed"
)

// ToolCall is one invocation of a named capability with concrete arguments.
type ToolCall struct {
	ID       string         `json:"id"`
	ToolName string         `json:"tool_name"`
	Args     map[string]any `json:"args,omitempty"`
	Status   ToolCallStatus `json:"status"`
	Result   map[string]any `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ToolOutcome pairs a tool name with its raw result payload.
type ToolOutcome struct {
	Tool   string         `json:"tool"`
	Result map[string]any `json:"result"`
}

// TaskResult is the accumulated output of a completed (or failed) task.
// Results persist for the lifetime of the session and are never removed.
type TaskResult struct {
	TaskID      string        `json:"task_id"`
	Output      string        `json:"output"`
	ToolResults []ToolOutcome `json:"tool_results,omitempty"`
}

// Reflection is the judgment of whether accumulated results suffice to
// answer the original query.
type Reflection struct {
	IsComplete         bool     `json:"is_complete"`
	Reasoning          string   `json:"reasoning"`
	MissingInfo        []string `json:"missing_info,omitempty"`
	SuggestedNextSteps string   `json:"suggested_next_steps,omitempty"`
}

// Turn is one message of prior conversation history supplied by the caller.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}
