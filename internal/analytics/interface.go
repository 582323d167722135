package analytics

import (
	"context"

	"conversational-commerce/internal/eventlog"
)

// UseCase computes windowed business metrics from the Event Log. Every query
// is a pure read over [w.Start, w.End) and may run concurrently with appends.
//
//go:generate mockery --name UseCase
type UseCase interface {
	Overview(ctx context.Context, w eventlog.Window) (Overview, error)
	DailyRevenue(ctx context.Context, w eventlog.Window) ([]DailyRevenue, error)
	TopProducts(ctx context.Context, w eventlog.Window, limit int) ([]ProductPerformance, error)
	Funnel(ctx context.Context, w eventlog.Window) (Funnel, error)
	AgentPerformance(ctx context.Context, w eventlog.Window) (AgentPerformance, error)
	Engagement(ctx context.Context, w eventlog.Window) (Engagement, error)
	// SetupGuide describes the webhook subscriptions the commerce backend needs.
	SetupGuide(ctx context.Context) SetupGuide
}
