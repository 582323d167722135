package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"conversational-commerce/internal/agent"
	"conversational-commerce/internal/attribution"
	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/model"
	"conversational-commerce/internal/tracking"
	"conversational-commerce/pkg/commerce"
)

func (uc *implUseCase) CreateCart(ctx context.Context, input tracking.CreateCartInput) (tracking.CreateCartOutput, error) {
	if len(input.Lines) == 0 {
		return tracking.CreateCartOutput{}, tracking.ErrInvalidInput
	}
	for _, line := range input.Lines {
		if line.MerchandiseID == "" || line.Quantity <= 0 {
			return tracking.CreateCartOutput{}, tracking.ErrInvalidInput
		}
	}
	if uc.carts == nil {
		return tracking.CreateCartOutput{}, fmt.Errorf("%w: %v", tracking.ErrCartCreateFailed, commerce.ErrNotConfigured)
	}

	ctx, span := uc.tracer.Start(ctx, "tracking.CreateCart")
	defer span.End()

	var out tracking.CreateCartOutput
	if input.UserID != "" {
		snap, err := uc.conv.Snapshot(ctx, input.UserID)
		switch {
		case err == nil:
			out.ConversationID = snap.ConversationID
			out.Attributed = true
			ctx = attribution.WithTag(ctx, attribution.Tag{
				ConversationID: snap.ConversationID,
				UserID:         input.UserID,
			})
			ctx = model.WithScope(ctx, model.Scope{UserID: input.UserID, ConversationID: snap.ConversationID})
		case errors.Is(err, conversation.ErrNotFound):
			uc.l.Infof(ctx, "internal.tracking.usecase.CreateCart: no live conversation for user %s, cart is untagged", input.UserID)
			ctx = model.WithScope(ctx, model.Scope{UserID: input.UserID})
		default:
			uc.l.Warnf(ctx, "internal.tracking.usecase.CreateCart: conv.Snapshot user_id=%s: %v", input.UserID, err)
			ctx = model.WithScope(ctx, model.Scope{UserID: input.UserID})
		}
	}
	span.SetAttributes(attribute.Bool("cart.attributed", out.Attributed))

	req := commerce.CreateCartRequest{Lines: input.Lines, Buyer: input.Buyer, Note: input.Note}
	params := map[string]any{"lines": len(input.Lines)}

	err := agent.Track(ctx, actionRecorder{uc: uc}, agent.OpCreateCart, params, func(ctx context.Context) (string, error) {
		cart, err := uc.carts.CreateCart(ctx, req)
		if err != nil {
			return "", err
		}
		out.Cart = cart
		return fmt.Sprintf("cart %s created with %d items", cart.Token, cart.Quantity), nil
	})
	if errors.Is(err, agent.ErrRecordFailed) {
		uc.l.Warnf(ctx, "internal.tracking.usecase.CreateCart: %v", err)
	} else if err != nil {
		uc.l.Errorf(ctx, "internal.tracking.usecase.CreateCart: carts.CreateCart: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create cart")
		return tracking.CreateCartOutput{}, fmt.Errorf("%w: %v", tracking.ErrCartCreateFailed, err)
	}

	cart := out.Cart
	if cart.TotalAmount != "" {
		total, err := model.ParseMinor(cart.TotalAmount)
		if err != nil {
			uc.l.Warnf(ctx, "internal.tracking.usecase.CreateCart: cart %s total %q: %v", cart.Token, cart.TotalAmount, err)
		}
		out.TotalMinor = total
	}

	if out.Attributed {
		ref := cart.ID
		if _, err := uc.conv.UpdateFields(ctx, input.UserID, conversation.Update{ActiveCartRef: &ref}); err != nil {
			uc.l.Warnf(ctx, "internal.tracking.usecase.CreateCart: set active cart for user %s: %v", input.UserID, err)
		}
	}

	if cart.Token == "" {
		uc.l.Warnf(ctx, "internal.tracking.usecase.CreateCart: cart %s has no token, cart_created not recorded", cart.ID)
		return out, nil
	}

	_, err = uc.events.Append(ctx, eventlog.Event{
		Kind:           eventlog.KindCartCreated,
		DedupKey:       eventlog.DedupKey(eventlog.KindCartCreated, cart.Token),
		ConversationID: out.ConversationID,
		UserID:         input.UserID,
		OccurredAt:     cart.CreatedAt,
		Transaction: &eventlog.TransactionPayload{
			ExternalID:  cart.Token,
			AmountMinor: out.TotalMinor,
			Currency:    cart.Currency,
			CartToken:   cart.Token,
		},
	})
	if err != nil && !errors.Is(err, eventlog.ErrDuplicate) {
		// The backend's carts/create webhook carries the same key and fills the gap.
		uc.l.Errorf(ctx, "internal.tracking.usecase.CreateCart: append cart_created %s: %v", cart.Token, err)
		span.RecordError(err)
	}
	return out, nil
}
