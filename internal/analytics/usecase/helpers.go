package usecase

import (
	"context"
	"math"
	"time"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/eventlog/repository"
)

func validWindow(w eventlog.Window) error {
	if w.Start.IsZero() || w.End.IsZero() || !w.Start.Before(w.End) {
		return analytics.ErrInvalidWindow
	}
	return nil
}

// load lists the window's events of the given kinds and times the query.
func (uc *implUseCase) load(ctx context.Context, query string, w eventlog.Window, kinds ...eventlog.Kind) ([]eventlog.Event, error) {
	if err := validWindow(w); err != nil {
		return nil, err
	}
	defer uc.metrics.ObserveQuery(query, time.Now())

	events, err := uc.events.List(ctx, repository.ListOptions{Start: w.Start, End: w.End, Kinds: kinds})
	if err != nil {
		uc.l.Errorf(ctx, "internal.analytics.usecase.%s: events.List: %v", query, err)
		return nil, err
	}
	return events, nil
}

// percent returns part/whole as a percentage rounded to 2 decimals, 0 when whole is 0.
func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole) * 100)
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round2(float64(part) / float64(whole))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// distinctConversations counts distinct non-empty conversation ids per kind.
func distinctConversations(events []eventlog.Event) map[eventlog.Kind]map[string]struct{} {
	out := make(map[eventlog.Kind]map[string]struct{})
	for _, e := range events {
		if e.ConversationID == "" {
			continue
		}
		set, ok := out[e.Kind]
		if !ok {
			set = make(map[string]struct{})
			out[e.Kind] = set
		}
		set[e.ConversationID] = struct{}{}
	}
	return out
}
