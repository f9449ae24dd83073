package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/marketbrief/marketbrief/internal/httpx"
	"github.com/marketbrief/marketbrief/internal/llm"
	"github.com/marketbrief/marketbrief/internal/prompts"
	"github.com/marketbrief/marketbrief/internal/research"
)

// maxToolsPerTask bounds tool selection for one use_tools task.
const maxToolsPerTask = 3

// toolCallTimeout bounds one tool invocation including its internal retries.
const toolCallTimeout = 2 * time.Minute

// execute runs the current plan with a dependency-respecting wavefront:
// repeatedly dispatch every pending task whose dependencies are all
// completed, concurrently as a batch, until no task is ready. Tasks left
// pending at the end are unreachable (a cycle, or a dependency that failed)
// and are abandoned with a diagnostic; Reflect and Answer work with
// whatever was gathered.
func (a *Agent) execute(ctx context.Context, st *research.State, emit func(Event)) {
	tasks := st.Plan.Tasks

	for {
		ready := readyTasks(tasks)
		if len(ready) == 0 {
			break
		}

		results := make([]research.TaskResult, len(ready))
		var wg sync.WaitGroup
		for i, idx := range ready {
			t := &tasks[idx]
			t.Status = research.TaskInProgress
			st.CurrentTaskID = t.ID
			emit(Event{Type: EventTaskStart, Data: *t})

			wg.Add(1)
			go func(i int, t *research.Task) {
				defer wg.Done()
				results[i] = a.runTask(ctx, st, t)
			}(i, t)
		}
		wg.Wait()

		// Results are recorded by the coordinator between waves so workers
		// never write shared state.
		for i, idx := range ready {
			st.RecordResult(results[i])
			emit(Event{Type: EventTaskComplete, Data: tasks[idx]})
		}
	}

	if stuck := pendingTasks(tasks); len(stuck) > 0 {
		a.logf("execution stalled with %d unreachable task(s): %s", len(stuck), strings.Join(stuck, "; "))
	}
}

// readyTasks returns the indices of pending tasks whose every dependency has
// completed.
func readyTasks(tasks []research.Task) []int {
	done := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if t.Status == research.TaskCompleted {
			done[t.ID] = true
		}
	}
	var ready []int
	for i, t := range tasks {
		if t.Status != research.TaskPending {
			continue
		}
		ok := true
		for _, dep := range t.DependsOn {
			if !done[dep] {
				ok = false
				break
			}
		}
		if ok {
			ready = append(ready, i)
		}
	}
	return ready
}

func pendingTasks(tasks []research.Task) []string {
	var stuck []string
	for _, t := range tasks {
		if t.Status == research.TaskPending {
			stuck = append(stuck, fmt.Sprintf("[%s] %s", t.ID, t.Description))
		}
	}
	return stuck
}

// runTask executes one task and returns its result. Failures are recorded
// on the task, never propagated.
func (a *Agent) runTask(ctx context.Context, st *research.State, t *research.Task) research.TaskResult {
	switch t.Type {
	case research.TaskReason:
		return a.runReasonTask(ctx, st, t)
	default:
		return a.runToolTask(ctx, st, t)
	}
}

// runToolTask selects tools for the task and calls them sequentially, so
// the tool-results list keeps a predictable order. Individual call failures
// mark that call failed and contribute nothing; the task itself completes.
func (a *Agent) runToolTask(ctx context.Context, st *research.State, t *research.Task) research.TaskResult {
	calls := a.selectTools(ctx, st, *t)

	var outcomes []research.ToolOutcome
	names := make([]string, 0, len(calls))
	for i := range calls {
		call := &calls[i]
		names = append(names, call.ToolName)

		call.Status = research.CallRunning
		result, err := httpx.WithTimeout(ctx, toolCallTimeout, call.ToolName, func(ctx context.Context) (map[string]any, error) {
			return a.tools.Execute(ctx, call.ToolName, call.Args)
		})
		if err != nil {
			call.Status = research.CallFailed
			call.Error = err.Error()
			a.logf("tool %s failed for task %s: %v", call.ToolName, t.ID, err)
			continue
		}
		call.Status = research.CallCompleted
		call.Result = result
		outcomes = append(outcomes, research.ToolOutcome{Tool: call.ToolName, Result: result})
	}

	output := fmt.Sprintf("Executed %d tool(s): %s", len(calls), strings.Join(names, ", "))
	t.ToolCalls = calls
	t.Result = output
	t.Status = research.TaskCompleted
	return research.TaskResult{TaskID: t.ID, Output: output, ToolResults: outcomes}
}

// runReasonTask asks the model to analyze accumulated data against the task
// description. A model failure after retries marks the task failed; the
// error message becomes the recorded output.
func (a *Agent) runReasonTask(ctx context.Context, st *research.State, t *research.Task) research.TaskResult {
	system, user := prompts.Reason(*t, a.reasonContext(st, *t))
	req := a.request(system, user, a.cfg.Model)

	text, err := llm.CompleteWithRetry(ctx, a.llm, req, a.onRetry)
	if err != nil {
		t.Status = research.TaskFailed
		t.Result = err.Error()
		return research.TaskResult{TaskID: t.ID, Output: fmt.Sprintf("analysis failed: %v", err)}
	}
	t.Status = research.TaskCompleted
	t.Result = text
	return research.TaskResult{TaskID: t.ID, Output: text}
}

// reasonContext assembles the data a reason task analyzes: the outputs of
// its dependencies, plus any tool-bearing results gathered so far that the
// dependencies do not already cover.
func (a *Agent) reasonContext(st *research.State, t research.Task) string {
	deps := make(map[string]bool, len(t.DependsOn))
	depResults := make(map[string]research.TaskResult, len(t.DependsOn))
	for _, dep := range t.DependsOn {
		deps[dep] = true
		if r, ok := st.TaskResults[dep]; ok {
			depResults[dep] = r
		}
	}

	others := make(map[string]research.TaskResult)
	for id, r := range st.TaskResults {
		if !deps[id] && len(r.ToolResults) > 0 {
			others[id] = r
		}
	}

	var sb strings.Builder
	if len(depResults) > 0 {
		sb.WriteString(prompts.FormatTaskResults(depResults, prompts.DefaultMaxCharsPerResult))
	}
	if len(others) > 0 {
		sb.WriteString("\nOther data gathered:\n")
		sb.WriteString(prompts.FormatTaskResults(others, prompts.DefaultMaxCharsPerResult))
	}
	return sb.String()
}

// toolSelections is the structured shape of a tool-selection reply.
type toolSelections struct {
	Selections []struct {
		ToolName string         `json:"tool_name"`
		Args     map[string]any `json:"args"`
	} `json:"selections"`
}

// selectTools asks the fast model which tools serve the task, then applies
// the ticker correction layer. Models select the right tool reliably but
// populate its arguments from context unreliably, so the session's primary
// ticker is force-filled wherever it is missing.
func (a *Agent) selectTools(ctx context.Context, st *research.State, t research.Task) []research.ToolCall {
	var entities []research.Entity
	if st.Understanding != nil {
		entities = st.Understanding.Entities
	}
	system, user := prompts.ToolSelection(t, entities, a.tools.Catalogue())
	req := a.request(system, user, a.fastModel())

	def := defaultSelections(a.tools.Names())
	sel, resolved := resolve(ctx, a.llm, req, prompts.ToolSelectionSchema, def)
	if !resolved {
		a.logf("tool selection unavailable for task %s, using default", t.ID)
	}
	if len(sel.Selections) == 0 {
		sel = def
	}
	if len(sel.Selections) > maxToolsPerTask {
		sel.Selections = sel.Selections[:maxToolsPerTask]
	}

	primary := ""
	if st.Understanding != nil {
		primary = st.Understanding.PrimaryTicker()
	}

	calls := make([]research.ToolCall, 0, len(sel.Selections))
	for _, s := range sel.Selections {
		calls = append(calls, research.ToolCall{
			ID:       uuid.NewString(),
			ToolName: s.ToolName,
			Args:     injectTicker(s.Args, primary),
			Status:   research.CallPending,
		})
	}
	return calls
}

// defaultSelections is the degraded tool choice: the first registered tool,
// relying on ticker injection to supply its argument.
func defaultSelections(names []string) toolSelections {
	sel := toolSelections{}
	if len(names) == 0 {
		return sel
	}
	name := names[0]
	if i := sort.SearchStrings(names, "stock_quote"); i < len(names) && names[i] == "stock_quote" {
		name = "stock_quote"
	}
	sel.Selections = append(sel.Selections, struct {
		ToolName string         `json:"tool_name"`
		Args     map[string]any `json:"args"`
	}{ToolName: name})
	return sel
}

// injectTicker fills args.ticker with the session's primary ticker when the
// field is absent or empty. Existing values are preserved, so a task that
// deliberately targets a different ticker is not overridden.
func injectTicker(args map[string]any, ticker string) map[string]any {
	if ticker == "" {
		return args
	}
	if args == nil {
		args = map[string]any{}
	}
	if v, ok := args["ticker"].(string); ok && v != "" {
		return args
	}
	args["ticker"] = ticker
	return args
}
