package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/marketbrief/marketbrief/internal/llm"
	"github.com/marketbrief/marketbrief/internal/prompts"
	"github.com/marketbrief/marketbrief/internal/research"
)

// answer synthesizes the final prose answer from everything gathered. In
// streaming mode chunks are emitted as they arrive and also accumulated
// into the state, so both modes end with the full text on FinalAnswer.
// This is the only phase whose failure aborts the session.
func (a *Agent) answer(ctx context.Context, st *research.State, emit func(Event), stream bool) error {
	formatted := prompts.FormatTaskResults(st.TaskResults, prompts.DefaultMaxCharsPerResult)
	system, user := prompts.Answer(st, formatted, st.ToolsUsed())
	req := a.request(system, user, a.cfg.Model)

	if !stream {
		text, err := llm.CompleteWithRetry(ctx, a.llm, req, a.onRetry)
		if err != nil {
			return fmt.Errorf("answer generation: %w", err)
		}
		st.FinalAnswer = text
		return nil
	}

	textCh, errCh := a.llm.Stream(ctx, req)
	var sb strings.Builder
	for chunk := range textCh {
		sb.WriteString(chunk)
		emit(Event{Type: EventAnswerChunk, Data: chunk})
	}
	if err := <-errCh; err != nil {
		if sb.Len() == 0 {
			return fmt.Errorf("answer stream: %w", err)
		}
		// Partial answer beats no answer; keep what streamed before the cut.
		a.logf("answer stream ended early: %v", err)
	}
	st.FinalAnswer = sb.String()
	return nil
}
