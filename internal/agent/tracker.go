package agent

import (
	"context"
	"fmt"
	"time"

	"conversational-commerce/internal/model"
)

// Recorder persists actions.
type Recorder interface {
	RecordAction(ctx context.Context, a Action) error
}

// maxSummaryLen bounds stored result summaries.
const maxSummaryLen = 200

// Track runs fn, measures its latency and records the outcome. The scope in
// ctx (see model.WithScope) identifies the user and conversation. fn's error
// is returned unchanged. When only recording fails the error wraps ErrRecordFailed.
func Track(ctx context.Context, rec Recorder, op Operation, params map[string]any, fn func(ctx context.Context) (string, error)) error {
	start := time.Now()
	summary, err := fn(ctx)
	latency := time.Since(start)

	if err != nil && summary == "" {
		summary = err.Error()
	}
	if r := []rune(summary); len(r) > maxSummaryLen {
		summary = string(r[:maxSummaryLen])
	}

	sc := model.ScopeFromContext(ctx)
	recErr := rec.RecordAction(ctx, Action{
		UserID:         sc.UserID,
		ConversationID: sc.ConversationID,
		Operation:      op,
		Parameters:     params,
		ResultSummary:  summary,
		Success:        err == nil,
		Latency:        latency,
		At:             start,
	})
	if err != nil {
		return err
	}
	if recErr != nil {
		return fmt.Errorf("%w: %v", ErrRecordFailed, recErr)
	}
	return nil
}
