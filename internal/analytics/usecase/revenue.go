package usecase

import (
	"context"
	"time"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
)

const dayLayout = "2006-01-02"

// DailyRevenue buckets completed orders per UTC day; days without orders are included.
func (uc *implUseCase) DailyRevenue(ctx context.Context, w eventlog.Window) ([]analytics.DailyRevenue, error) {
	events, err := uc.load(ctx, "DailyRevenue", w, eventlog.KindOrderCompleted)
	if err != nil {
		return nil, err
	}

	start := w.Start.UTC().Truncate(24 * time.Hour)
	var days []analytics.DailyRevenue
	index := make(map[string]int)
	for d := start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		index[key] = len(days)
		days = append(days, analytics.DailyRevenue{Date: key})
	}

	for _, e := range events {
		i, ok := index[e.OccurredAt.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		days[i].RevenueMinor += e.Transaction.AmountMinor
		days[i].Orders++
	}
	return days, nil
}
