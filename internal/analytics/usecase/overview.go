package usecase

import (
	"context"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
)

func (uc *implUseCase) Overview(ctx context.Context, w eventlog.Window) (analytics.Overview, error) {
	events, err := uc.load(ctx, "Overview", w,
		eventlog.KindConversationStarted,
		eventlog.KindMessage,
		eventlog.KindCartCreated,
		eventlog.KindOrderCompleted,
	)
	if err != nil {
		return analytics.Overview{}, err
	}

	out := analytics.Overview{Window: w}
	users := make(map[string]struct{})
	for _, e := range events {
		switch e.Kind {
		case eventlog.KindMessage:
			out.Messages++
		case eventlog.KindCartCreated:
			out.CartsCreated++
		case eventlog.KindOrderCompleted:
			out.OrdersCompleted++
			amount := e.Transaction.AmountMinor
			out.RevenueMinor += amount
			if e.Attributed() {
				out.AttributedOrders++
				out.AttributedRevenue += amount
			} else {
				out.UnattributedOrders++
			}
			continue
		}
		if e.UserID != "" && e.Kind != eventlog.KindCartCreated {
			users[e.UserID] = struct{}{}
		}
	}

	out.Conversations = len(distinctConversations(events)[eventlog.KindConversationStarted])
	out.UniqueUsers = len(users)
	out.AvgMessagesPerConv = ratio(out.Messages, out.Conversations)
	if out.OrdersCompleted > 0 {
		out.AvgOrderValueMinor = out.RevenueMinor / int64(out.OrdersCompleted)
	}
	out.CartToOrderRate = percent(out.OrdersCompleted, out.CartsCreated)
	out.ConversationToOrder = percent(out.AttributedOrders, out.Conversations)
	return out, nil
}
