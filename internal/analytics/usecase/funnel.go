package usecase

import (
	"context"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
)

var funnelStages = []struct {
	name string
	kind eventlog.Kind
}{
	{analytics.StageConversationStarted, eventlog.KindConversationStarted},
	{analytics.StageProductViewed, eventlog.KindProductViewed},
	{analytics.StageCartCreated, eventlog.KindCartCreated},
	{analytics.StageOrderCompleted, eventlog.KindOrderCompleted},
}

// Funnel counts distinct conversations per stage. Counts are never clipped:
// a stage larger than its predecessor is reported as an anomaly.
func (uc *implUseCase) Funnel(ctx context.Context, w eventlog.Window) (analytics.Funnel, error) {
	kinds := make([]eventlog.Kind, len(funnelStages))
	for i, s := range funnelStages {
		kinds[i] = s.kind
	}
	events, err := uc.load(ctx, "Funnel", w, kinds...)
	if err != nil {
		return analytics.Funnel{}, err
	}

	out := analytics.Funnel{Window: w}
	for _, e := range events {
		if e.Kind == eventlog.KindOrderCompleted && !e.Attributed() {
			out.UnattributedOrders++
		}
	}

	reached := distinctConversations(events)
	first := len(reached[funnelStages[0].kind])
	for i, s := range funnelStages {
		count := len(reached[s.kind])
		stage := analytics.FunnelStage{
			Name:       s.name,
			Count:      count,
			Percentage: percent(count, first),
		}
		if i > 0 {
			prev := out.Stages[i-1]
			stage.DropOff = prev.Count - count
			if count > prev.Count {
				out.Anomalies = append(out.Anomalies, analytics.FunnelAnomaly{
					Stage:         s.name,
					Count:         count,
					PreviousStage: prev.Name,
					PreviousCount: prev.Count,
				})
			}
		}
		out.Stages = append(out.Stages, stage)
	}

	if len(out.Anomalies) > 0 {
		uc.l.Warnf(ctx, "internal.analytics.usecase.Funnel: %d stage(s) exceed their predecessor in [%s, %s)",
			len(out.Anomalies), w.Start.Format(dayLayout), w.End.Format(dayLayout))
	}
	out.OverallConversionRate = out.Stages[len(out.Stages)-1].Percentage
	return out, nil
}
