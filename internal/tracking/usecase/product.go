package usecase

import (
	"context"
	"strings"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/tracking"
)

func (uc *implUseCase) RecordProductView(ctx context.Context, input tracking.RecordProductViewInput) (tracking.RecordProductViewOutput, error) {
	if input.UserID == "" {
		return tracking.RecordProductViewOutput{}, conversation.ErrEmptyUserID
	}
	if strings.TrimSpace(input.ProductID) == "" {
		return tracking.RecordProductViewOutput{}, tracking.ErrInvalidInput
	}

	ctx, span := uc.tracer.Start(ctx, "tracking.RecordProductView")
	defer span.End()

	now := uc.now()
	c, err := uc.conv.UpdateFields(ctx, input.UserID, conversation.Update{
		ProductView: &conversation.ProductRef{
			ProductID:  input.ProductID,
			Title:      input.Title,
			PriceMinor: input.PriceMinor,
			Currency:   input.Currency,
			At:         now,
		},
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.tracking.usecase.RecordProductView: conv.UpdateFields user_id=%s: %v", input.UserID, err)
		span.RecordError(err)
		return tracking.RecordProductViewOutput{}, err
	}

	e, err := uc.events.Append(ctx, eventlog.Event{
		Kind:           eventlog.KindProductViewed,
		ConversationID: c.ConversationID,
		UserID:         input.UserID,
		OccurredAt:     now,
		ProductView: &eventlog.ProductViewPayload{
			ProductID:  input.ProductID,
			Title:      input.Title,
			PriceMinor: input.PriceMinor,
			Currency:   input.Currency,
		},
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.tracking.usecase.RecordProductView: append: %v", err)
		span.RecordError(err)
		return tracking.RecordProductViewOutput{}, err
	}

	return tracking.RecordProductViewOutput{ConversationID: c.ConversationID, EventID: e.ID}, nil
}

func (uc *implUseCase) RecordSearch(ctx context.Context, input tracking.RecordSearchInput) (tracking.RecordSearchOutput, error) {
	if input.UserID == "" {
		return tracking.RecordSearchOutput{}, conversation.ErrEmptyUserID
	}
	query := strings.TrimSpace(input.Query)
	if query == "" || input.ResultCount < 0 {
		return tracking.RecordSearchOutput{}, tracking.ErrInvalidInput
	}

	c, err := uc.conv.UpdateFields(ctx, input.UserID, conversation.Update{
		LastSearchQuery: &query,
		ProductSearch: &conversation.ProductSearch{
			Query:       query,
			ResultCount: input.ResultCount,
			At:          uc.now(),
		},
	})
	if err != nil {
		uc.l.Warnf(ctx, "internal.tracking.usecase.RecordSearch: conv.UpdateFields user_id=%s: %v", input.UserID, err)
		return tracking.RecordSearchOutput{}, err
	}

	return tracking.RecordSearchOutput{
		ConversationID: c.ConversationID,
		RecentSearches: len(c.RecentSearches),
	}, nil
}
