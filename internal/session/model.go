// Package session persists a lightweight history of completed research
// runs. The orchestrator itself stays in-memory and per-request; this store
// only records finished transcripts for later inspection.
package session

import "time"

// Record is one completed research run.
type Record struct {
	ID         string
	Query      string
	Answer     string
	Model      string
	Iterations int
	Duration   time.Duration
	CreatedAt  time.Time
}
