package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/correlator"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/webhook"
)

func (uc *implUseCase) Correlate(ctx context.Context, n webhook.Notification) (correlator.Outcome, error) {
	if !n.Kind.IsTransaction() || n.ExternalID == "" {
		return correlator.Outcome{}, fmt.Errorf("%w: kind=%s external_id=%q", eventlog.ErrInvalidEvent, n.Kind, n.ExternalID)
	}

	key := eventlog.DedupKey(n.Kind, n.ExternalID)
	ctx, span := uc.tracer.Start(ctx, "correlator.Correlate", trace.WithAttributes(
		attribute.String("event.kind", string(n.Kind)),
		attribute.String("event.dedup_key", key),
	))
	defer span.End()

	out := correlator.Outcome{DedupKey: key}
	if tag, ok := uc.codec.DecodePayload(n.RawMetadata); ok {
		out.Attributed = true
		out.ConversationID = tag.ConversationID
		out.UserID = tag.UserID
	}
	span.SetAttributes(attribute.Bool("event.attributed", out.Attributed))

	appended, err := uc.events.Append(ctx, eventlog.Event{
		Kind:           n.Kind,
		DedupKey:       key,
		ConversationID: out.ConversationID,
		UserID:         out.UserID,
		OccurredAt:     n.OccurredAt,
		Transaction: &eventlog.TransactionPayload{
			ExternalID:    n.ExternalID,
			OrderNumber:   n.OrderNumber,
			AmountMinor:   n.AmountMinor,
			SubtotalMinor: n.SubtotalMinor,
			TaxMinor:      n.TaxMinor,
			DiscountMinor: n.DiscountMinor,
			Currency:      n.Currency,
			LineItems:     n.LineItems,
			Email:         n.Email,
			CartToken:     n.CartToken,
		},
	})
	if errors.Is(err, eventlog.ErrDuplicate) {
		uc.l.Infof(ctx, "internal.correlator.usecase.Correlate: duplicate %s ignored", key)
		out.Duplicate = true
		span.SetAttributes(attribute.Bool("event.duplicate", true))
		return out, nil
	}
	if err != nil {
		uc.l.Errorf(ctx, "internal.correlator.usecase.Correlate: append %s: %v", key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "append")
		return correlator.Outcome{}, err
	}

	out.EventID = appended.ID
	if out.Attributed {
		uc.l.Infof(ctx, "internal.correlator.usecase.Correlate: %s attributed to conversation %s", key, out.ConversationID)
	} else {
		uc.l.Infof(ctx, "internal.correlator.usecase.Correlate: %s recorded unattributed", key)
	}
	return out, nil
}
