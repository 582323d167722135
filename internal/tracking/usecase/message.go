package usecase

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/tracking"
)

func (uc *implUseCase) RecordMessage(ctx context.Context, input tracking.RecordMessageInput) (tracking.RecordMessageOutput, error) {
	if input.UserID == "" {
		return tracking.RecordMessageOutput{}, conversation.ErrEmptyUserID
	}
	if !input.Role.Valid() {
		return tracking.RecordMessageOutput{}, conversation.ErrInvalidRole
	}

	ctx, span := uc.tracer.Start(ctx, "tracking.RecordMessage")
	defer span.End()

	var dedupKey string
	if input.MessageID != "" {
		dedupKey = eventlog.MessageDedupKey(input.MessageID)
		seen, err := uc.events.Exists(ctx, dedupKey)
		if err != nil {
			uc.l.Errorf(ctx, "internal.tracking.usecase.RecordMessage: events.Exists %s: %v", dedupKey, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "exists")
			return tracking.RecordMessageOutput{}, err
		}
		if seen {
			uc.l.Infof(ctx, "internal.tracking.usecase.RecordMessage: message %s already recorded", input.MessageID)
			span.SetAttributes(attribute.Bool("message.duplicate", true))
			out := tracking.RecordMessageOutput{Duplicate: true}
			if snap, err := uc.conv.Snapshot(ctx, input.UserID); err == nil {
				out.ConversationID = snap.ConversationID
				out.Turns = len(snap.Turns)
			}
			return out, nil
		}
	}

	at := input.At
	if at.IsZero() {
		at = uc.now()
	}

	rec, err := uc.conv.RecordTurn(ctx, conversation.RecordTurnInput{
		UserID: input.UserID,
		Role:   input.Role,
		Text:   input.Text,
		At:     at,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.tracking.usecase.RecordMessage: conv.RecordTurn: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "record turn")
		return tracking.RecordMessageOutput{}, err
	}

	convID := rec.Context.ConversationID
	span.SetAttributes(
		attribute.String("conversation.id", convID),
		attribute.Bool("conversation.created", rec.Created),
	)

	if rec.Created {
		_, err := uc.events.Append(ctx, eventlog.Event{
			Kind:           eventlog.KindConversationStarted,
			DedupKey:       eventlog.DedupKey(eventlog.KindConversationStarted, convID),
			ConversationID: convID,
			UserID:         input.UserID,
			OccurredAt:     at,
		})
		if err != nil && !errors.Is(err, eventlog.ErrDuplicate) {
			uc.l.Errorf(ctx, "internal.tracking.usecase.RecordMessage: append conversation_started: %v", err)
			span.RecordError(err)
			return tracking.RecordMessageOutput{}, err
		}
	}

	_, err = uc.events.Append(ctx, eventlog.Event{
		Kind:           eventlog.KindMessage,
		DedupKey:       dedupKey,
		ConversationID: convID,
		UserID:         input.UserID,
		OccurredAt:     at,
		Message: &eventlog.MessagePayload{
			Role:      string(input.Role),
			MessageID: input.MessageID,
			Length:    utf8.RuneCountInString(input.Text),
		},
	})
	if errors.Is(err, eventlog.ErrDuplicate) {
		// A concurrent redelivery won the append; the turn is already in the window.
		uc.l.Warnf(ctx, "internal.tracking.usecase.RecordMessage: message %s appended concurrently", input.MessageID)
	} else if err != nil {
		uc.l.Errorf(ctx, "internal.tracking.usecase.RecordMessage: append message: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "append message")
		return tracking.RecordMessageOutput{}, err
	}

	return tracking.RecordMessageOutput{
		ConversationID: convID,
		Created:        rec.Created,
		Turns:          len(rec.Context.Turns),
	}, nil
}
