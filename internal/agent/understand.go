package agent

import (
	"context"
	"strings"

	"github.com/marketbrief/marketbrief/internal/prompts"
	"github.com/marketbrief/marketbrief/internal/research"
)

// understand interprets the query into intent, entities and complexity. On
// total structured-output failure it degrades to a trivial understanding so
// the session proceeds on the raw query.
func (a *Agent) understand(ctx context.Context, st *research.State) {
	system, user := prompts.Understand(st.Query, st.History)
	req := a.request(system, user, a.cfg.Model)

	def := research.Understanding{
		Intent:     st.Query,
		Entities:   []research.Entity{},
		Complexity: research.ComplexitySimple,
	}
	u, resolved := resolve(ctx, a.llm, req, prompts.UnderstandingSchema, def)
	if !resolved {
		a.logf("understanding unavailable, proceeding with raw query")
	}
	a.normalizeEntities(&u)
	st.Understanding = &u
}

// normalizeEntities canonicalizes extracted entities: ticker values are
// uppercased, and company names that resolve through the directory gain a
// ticker entity so tool-argument injection has something to work with.
func (a *Agent) normalizeEntities(u *research.Understanding) {
	hasTicker := false
	for i := range u.Entities {
		e := &u.Entities[i]
		switch e.Type {
		case research.EntityTicker:
			if e.Normalized == "" {
				e.Normalized = strings.ToUpper(strings.TrimSpace(e.Value))
			}
			hasTicker = true
		case research.EntityCompany:
			if e.Normalized == "" && a.dir != nil {
				if ticker, ok := a.dir.Lookup(e.Value); ok {
					e.Normalized = ticker
				}
			}
		}
	}
	if hasTicker {
		return
	}
	for _, e := range u.Entities {
		if e.Type == research.EntityCompany && e.Normalized != "" {
			u.Entities = append(u.Entities, research.Entity{
				Type:       research.EntityTicker,
				Value:      e.Value,
				Normalized: e.Normalized,
			})
			return
		}
	}
}
