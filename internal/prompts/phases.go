// Package prompts renders the phase instructions for the research loop.
// Every builder is a pure function from session data to a (system, user)
// instruction pair; no builder touches the network or mutates state.
package prompts

import (
	"fmt"
	"strings"

	"github.com/marketbrief/marketbrief/internal/research"
)

// maxHistoryTurns bounds how much prior conversation is replayed to the
// model during Understand.
const maxHistoryTurns = 4

// UnderstandingSchema validates the structured output of the Understand phase.
const UnderstandingSchema = `{
	"type": "object",
	"properties": {
		"intent": {"type": "string"},
		"entities": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"type": {"type": "string", "enum": ["ticker", "company", "date", "metric", "period", "other"]},
					"value": {"type": "string"},
					"normalized": {"type": "string"}
				},
				"required": ["type", "value"]
			}
		},
		"timeframe": {"type": "string"},
		"complexity": {"type": "string", "enum": ["simple", "moderate", "complex"]}
	},
	"required": ["intent", "entities", "complexity"]
}`

// PlanSchema validates the structured output of the Plan phase.
const PlanSchema = `{
	"type": "object",
	"properties": {
		"summary": {"type": "string"},
		"tasks": {
			"type": "array",
			"minItems": 1,
			"maxItems": 5,
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "string"},
					"description": {"type": "string"},
					"task_type": {"type": "string", "enum": ["use_tools", "reason"]},
					"depends_on": {"type": "array", "items": {"type": "string"}}
				},
				"required": ["description", "task_type"]
			}
		}
	},
	"required": ["summary", "tasks"]
}`

// ToolSelectionSchema validates the structured output of tool selection.
const ToolSelectionSchema = `{
	"type": "object",
	"properties": {
		"selections": {
			"type": "array",
			"minItems": 1,
			"maxItems": 3,
			"items": {
				"type": "object",
				"properties": {
					"tool_name": {"type": "string"},
					"args": {"type": "object"}
				},
				"required": ["tool_name"]
			}
		}
	},
	"required": ["selections"]
}`

// ReflectionSchema validates the structured output of the Reflect phase.
const ReflectionSchema = `{
	"type": "object",
	"properties": {
		"is_complete": {"type": "boolean"},
		"reasoning": {"type": "string"},
		"missing_info": {"type": "array", "items": {"type": "string"}},
		"suggested_next_steps": {"type": "string"}
	},
	"required": ["is_complete", "reasoning"]
}`

// Understand builds the query-interpretation prompt. At most the last four
// history turns are replayed.
func Understand(query string, history []research.Turn) (string, string) {
	system := `You are a financial research analyst interpreting a user question.
Extract the intent, the entities mentioned, the timeframe if any, and grade the complexity.

Entity types: ticker, company, date, metric, period, other.
When the user names a company rather than a ticker, keep the entity type as company; do not guess tickers.
Complexity: simple (one entity, one fact), moderate (comparison or multiple facts), complex (multi-step analysis).

Respond with a single JSON object matching the requested shape. No prose.`

	var sb strings.Builder
	if len(history) > 0 {
		turns := history
		if len(turns) > maxHistoryTurns {
			turns = turns[len(turns)-maxHistoryTurns:]
		}
		sb.WriteString("Recent conversation:\n")
		for _, t := range turns {
			fmt.Fprintf(&sb, "%s: %s\n", t.Role, t.Content)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "Question: %s", query)
	return system, sb.String()
}

// Plan builds the task-planning prompt. Accumulated results and the previous
// reflection's suggested next steps are threaded in so later rounds do not
// repeat finished work.
func Plan(st *research.State, catalogue, priorResults string) (string, string) {
	system := `You are a financial research planner decomposing a question into tasks.
Produce 1 to 5 tasks. Each description must be 6 words or fewer.
task_type is "use_tools" for tasks that fetch data and "reason" for tasks that analyze data already fetched.
Use depends_on to order tasks; a reason task that analyzes fetched data must depend on the fetching task.
Do not plan tasks for data that is already present in the accumulated results.

Available tools:
` + catalogue + `
Respond with a single JSON object matching the requested shape. No prose.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", st.Query)
	if st.Understanding != nil {
		fmt.Fprintf(&sb, "Intent: %s\n", st.Understanding.Intent)
		if len(st.Understanding.Entities) > 0 {
			sb.WriteString("Entities: ")
			sb.WriteString(EntityList(st.Understanding.Entities))
			sb.WriteString("\n")
		}
		if st.Understanding.Timeframe != "" {
			fmt.Fprintf(&sb, "Timeframe: %s\n", st.Understanding.Timeframe)
		}
	}
	if priorResults != "" {
		fmt.Fprintf(&sb, "\nAccumulated results so far:\n%s\n", priorResults)
	}
	if st.Reflection != nil && st.Reflection.SuggestedNextSteps != "" {
		fmt.Fprintf(&sb, "\nSuggested next steps from the previous round: %s\n", st.Reflection.SuggestedNextSteps)
	}
	fmt.Fprintf(&sb, "\nThis is planning round %d of at most %d.", st.Iteration, st.MaxIterations)
	return system, sb.String()
}

// ToolSelection builds the prompt that picks concrete tool calls for one
// use_tools task.
func ToolSelection(task research.Task, entities []research.Entity, catalogue string) (string, string) {
	system := `You are selecting data tools for one research task.
Pick 1 to 3 tools and fill their arguments from the entities provided.

Available tools:
` + catalogue + `
Respond with a single JSON object matching the requested shape. No prose.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\n", task.Description)
	if len(entities) > 0 {
		fmt.Fprintf(&sb, "Entities: %s\n", EntityList(entities))
	}
	return system, sb.String()
}

// Reason builds the free-text prompt for a reason task. context carries the
// outputs of the task's dependencies plus any other tool data gathered so far.
func Reason(task research.Task, context string) (string, string) {
	system := `You are a financial analyst working through one analysis step.
Analyze the provided data against the task. Be concise and concrete; cite figures from the data.
Respond with plain text, not JSON.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Task: %s\n", task.Description)
	if context != "" {
		fmt.Fprintf(&sb, "\nData:\n%s", context)
	}
	return system, sb.String()
}

// Reflect builds the completeness-judgment prompt. The policy is to default
// to complete: only a total absence of data for the primary entity justifies
// another round.
func Reflect(st *research.State, formattedResults string) (string, string) {
	system := `You are judging whether gathered research results answer the original question.
Default to complete. Missing secondary or optional data is NOT a reason to continue.
Mark is_complete false only if there is no data at all for the primary entity, or a critical tool failed entirely with no fallback.
If incomplete, list the missing information and suggest concrete next steps.

Respond with a single JSON object matching the requested shape. No prose.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", st.Query)
	if st.Understanding != nil {
		fmt.Fprintf(&sb, "Intent: %s\n", st.Understanding.Intent)
		if t := st.Understanding.PrimaryTicker(); t != "" {
			fmt.Fprintf(&sb, "Primary ticker: %s\n", t)
		}
	}
	fmt.Fprintf(&sb, "Round %d of at most %d.\n", st.Iteration, st.MaxIterations)
	fmt.Fprintf(&sb, "\nGathered results:\n%s", formattedResults)
	return system, sb.String()
}

// Answer builds the final synthesis prompt.
func Answer(st *research.State, formattedResults string, toolsUsed []string) (string, string) {
	system := `You are writing the final answer to a financial research question.
Write plain conversational prose. No headers, no bullet lists, no sources section.
Lead with the direct answer, then the supporting figures. If data was partial, say what is known and what could not be determined.`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Question: %s\n", st.Query)
	if st.Understanding != nil && st.Understanding.Intent != "" {
		fmt.Fprintf(&sb, "Intent: %s\n", st.Understanding.Intent)
	}
	if len(toolsUsed) > 0 {
		fmt.Fprintf(&sb, "Data sources consulted: %s\n", strings.Join(toolsUsed, ", "))
	}
	fmt.Fprintf(&sb, "\nResearch results:\n%s", formattedResults)
	return system, sb.String()
}

// EntityList renders entities as comma-separated "type: value" pairs, using
// the normalized value where one exists.
func EntityList(entities []research.Entity) string {
	parts := make([]string, 0, len(entities))
	for _, e := range entities {
		parts = append(parts, fmt.Sprintf("%s: %s", e.Type, e.Resolved()))
	}
	return strings.Join(parts, ", ")
}
