package usecase

import (
	"context"
	"sort"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
)

// TopProducts ranks products by purchased quantity, then revenue, then id.
func (uc *implUseCase) TopProducts(ctx context.Context, w eventlog.Window, limit int) ([]analytics.ProductPerformance, error) {
	if limit < 1 || limit > analytics.MaxTopLimit {
		return nil, analytics.ErrInvalidLimit
	}
	events, err := uc.load(ctx, "TopProducts", w, eventlog.KindOrderCompleted, eventlog.KindProductViewed)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*analytics.ProductPerformance)
	get := func(id string) *analytics.ProductPerformance {
		p, ok := byID[id]
		if !ok {
			p = &analytics.ProductPerformance{ProductID: id}
			byID[id] = p
		}
		return p
	}

	views := make(map[string]int)
	for _, e := range events {
		switch e.Kind {
		case eventlog.KindProductViewed:
			views[e.ProductView.ProductID]++
		case eventlog.KindOrderCompleted:
			for _, li := range e.Transaction.LineItems {
				if li.ProductID == "" {
					continue
				}
				p := get(li.ProductID)
				p.PurchaseCount += li.Quantity
				p.RevenueMinor += li.TotalMinor()
				if p.Title == "" {
					p.Title = li.Title
				}
			}
		}
	}

	out := make([]analytics.ProductPerformance, 0, len(byID))
	for id, p := range byID {
		p.Views = views[id]
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.PurchaseCount != b.PurchaseCount {
			return a.PurchaseCount > b.PurchaseCount
		}
		if a.RevenueMinor != b.RevenueMinor {
			return a.RevenueMinor > b.RevenueMinor
		}
		return a.ProductID < b.ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
