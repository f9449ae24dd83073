package agent

import (
	"context"

	"github.com/google/uuid"

	"github.com/marketbrief/marketbrief/internal/prompts"
	"github.com/marketbrief/marketbrief/internal/research"
)

// maxPlanTasks bounds one planning round.
const maxPlanTasks = 5

// plan requests a fresh task plan for this iteration, informed by the
// results and reflection of earlier rounds. The previous plan is replaced,
// not merged.
func (a *Agent) plan(ctx context.Context, st *research.State) {
	prior := ""
	if len(st.TaskResults) > 0 {
		prior = prompts.FormatTaskResults(st.TaskResults, prompts.DefaultMaxCharsPerResult)
	}
	system, user := prompts.Plan(st, a.tools.Catalogue(), prior)
	req := a.request(system, user, a.cfg.Model)

	p, resolved := resolve(ctx, a.llm, req, prompts.PlanSchema, fallbackPlan())
	if !resolved {
		a.logf("plan unavailable, falling back to generic fetch task")
	}
	sanitizePlan(&p)
	st.Plan = &p
}

// fallbackPlan is the degraded plan when structured planning fails entirely.
func fallbackPlan() research.Plan {
	return research.Plan{
		Summary: "fetch relevant data",
		Tasks: []research.Task{{
			ID:          uuid.NewString(),
			Description: "fetch relevant data",
			Type:        research.TaskUseTools,
			Status:      research.TaskPending,
		}},
	}
}

// sanitizePlan makes a model-produced plan executable: at most maxPlanTasks
// tasks, every task gets an id and pending status, unknown task types become
// use_tools, and dependencies on ids outside the plan are dropped so they
// cannot wedge the wavefront.
func sanitizePlan(p *research.Plan) {
	if len(p.Tasks) == 0 {
		*p = fallbackPlan()
		return
	}
	if len(p.Tasks) > maxPlanTasks {
		p.Tasks = p.Tasks[:maxPlanTasks]
	}

	ids := make(map[string]bool, len(p.Tasks))
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		t.Status = research.TaskPending
		if t.Type != research.TaskUseTools && t.Type != research.TaskReason {
			t.Type = research.TaskUseTools
		}
		ids[t.ID] = true
	}
	for i := range p.Tasks {
		t := &p.Tasks[i]
		kept := t.DependsOn[:0]
		for _, dep := range t.DependsOn {
			if ids[dep] && dep != t.ID {
				kept = append(kept, dep)
			}
		}
		t.DependsOn = kept
	}
}
