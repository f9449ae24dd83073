package agent

import (
	"context"
	"fmt"

	"github.com/marketbrief/marketbrief/internal/prompts"
	"github.com/marketbrief/marketbrief/internal/research"
)

// reflect judges whether accumulated results answer the query. At the
// iteration ceiling the model is not consulted at all: completion is forced
// so the loop can never run past its bound. Below the ceiling the model
// decides, with two backstops: total structured-output failure defaults to
// complete, and a code-level floor treats results as sufficient whenever
// tool data exists and the model named nothing concrete as missing.
func (a *Agent) reflect(ctx context.Context, st *research.State) {
	if st.Iteration >= st.MaxIterations {
		st.Reflection = &research.Reflection{
			IsComplete: true,
			Reasoning:  fmt.Sprintf("reached maximum iterations (%d), answering with the data gathered so far", st.MaxIterations),
		}
		return
	}

	formatted := prompts.FormatTaskResults(st.TaskResults, prompts.DefaultMaxCharsPerResult)
	system, user := prompts.Reflect(st, formatted)
	req := a.request(system, user, a.cfg.Model)

	def := research.Reflection{
		IsComplete: true,
		Reasoning:  "reflection unavailable, treating gathered results as sufficient",
	}
	r, resolved := resolve(ctx, a.llm, req, prompts.ReflectionSchema, def)
	if !resolved {
		a.logf("reflection unavailable, defaulting to complete")
	}

	if !r.IsComplete && len(r.MissingInfo) == 0 && st.HasToolData() {
		r.IsComplete = true
		r.Reasoning = "tool data present and nothing concrete missing: " + r.Reasoning
	}
	st.Reflection = &r
}
