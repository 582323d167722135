package usecase

import (
	"context"
	"time"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
)

func (uc *implUseCase) Engagement(ctx context.Context, w eventlog.Window) (analytics.Engagement, error) {
	events, err := uc.load(ctx, "Engagement", w)
	if err != nil {
		return analytics.Engagement{}, err
	}

	type span struct{ first, last time.Time }
	spans := make(map[string]*span)
	convsByUser := make(map[string]map[string]struct{})
	messagesByUser := make(map[string]int)

	for _, e := range events {
		if e.ConversationID != "" {
			s, ok := spans[e.ConversationID]
			if !ok {
				spans[e.ConversationID] = &span{first: e.OccurredAt, last: e.OccurredAt}
			} else {
				if e.OccurredAt.Before(s.first) {
					s.first = e.OccurredAt
				}
				if e.OccurredAt.After(s.last) {
					s.last = e.OccurredAt
				}
			}
		}

		if e.UserID == "" || e.Kind.IsTransaction() {
			continue
		}
		convs, ok := convsByUser[e.UserID]
		if !ok {
			convs = make(map[string]struct{})
			convsByUser[e.UserID] = convs
		}
		if e.ConversationID != "" {
			convs[e.ConversationID] = struct{}{}
		}
		if e.Kind == eventlog.KindMessage {
			messagesByUser[e.UserID]++
		}
	}

	out := analytics.Engagement{Window: w, ActiveUsers: len(convsByUser)}
	var conversations, messages int
	for user, convs := range convsByUser {
		conversations += len(convs)
		messages += messagesByUser[user]
		if len(convs) > 1 {
			out.RepeatUsers++
		}
	}
	out.NewUsers = out.ActiveUsers - out.RepeatUsers
	out.RepeatRate = percent(out.RepeatUsers, out.ActiveUsers)
	out.AvgMessagesPerUser = ratio(messages, out.ActiveUsers)
	out.AvgConversationsPerUser = ratio(conversations, out.ActiveUsers)

	if len(spans) > 0 {
		var total time.Duration
		for _, s := range spans {
			total += s.last.Sub(s.first)
		}
		out.AvgConversationSeconds = round2(total.Seconds() / float64(len(spans)))
	}
	return out, nil
}
