package usecase

import (
	"context"
	"fmt"

	"conversational-commerce/internal/agent"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/tracking"
)

func (uc *implUseCase) RecordAction(ctx context.Context, input tracking.RecordActionInput) (tracking.RecordActionOutput, error) {
	op, err := agent.ParseOperation(input.Operation)
	if err != nil {
		return tracking.RecordActionOutput{}, fmt.Errorf("%w: %v", tracking.ErrInvalidOperation, err)
	}
	if input.Latency < 0 {
		return tracking.RecordActionOutput{}, tracking.ErrInvalidInput
	}

	var convID string
	if input.UserID != "" {
		// Actions outside a live conversation are still recorded, unlinked.
		if snap, err := uc.conv.Snapshot(ctx, input.UserID); err == nil {
			convID = snap.ConversationID
		}
	}

	e, err := uc.appendAction(ctx, agent.Action{
		UserID:         input.UserID,
		ConversationID: convID,
		Operation:      op,
		Parameters:     input.Parameters,
		ResultSummary:  input.ResultSummary,
		Success:        input.Success,
		Latency:        input.Latency,
		At:             input.At,
	})
	if err != nil {
		return tracking.RecordActionOutput{}, err
	}
	return tracking.RecordActionOutput{EventID: e.ID, ConversationID: convID}, nil
}

func (uc *implUseCase) appendAction(ctx context.Context, a agent.Action) (eventlog.Event, error) {
	e, err := uc.events.Append(ctx, eventlog.Event{
		Kind:           eventlog.KindAgentAction,
		ConversationID: a.ConversationID,
		UserID:         a.UserID,
		OccurredAt:     a.At,
		Action: &eventlog.ActionPayload{
			Operation:     string(a.Operation),
			Parameters:    a.Parameters,
			ResultSummary: a.ResultSummary,
			Success:       a.Success,
			LatencyMS:     a.Latency.Milliseconds(),
		},
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.tracking.usecase.appendAction: %s: %v", a.Operation, err)
		return eventlog.Event{}, err
	}
	return e, nil
}

// actionRecorder lets agent.Track write through the tracking service.
type actionRecorder struct {
	uc *implUseCase
}

func (r actionRecorder) RecordAction(ctx context.Context, a agent.Action) error {
	_, err := r.uc.appendAction(ctx, a)
	return err
}
