package usecase

import (
	"context"
	"sort"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog"
)

func (uc *implUseCase) AgentPerformance(ctx context.Context, w eventlog.Window) (analytics.AgentPerformance, error) {
	events, err := uc.load(ctx, "AgentPerformance", w, eventlog.KindAgentAction)
	if err != nil {
		return analytics.AgentPerformance{}, err
	}

	type acc struct {
		total, ok int
		latency   int64
	}
	byOp := make(map[string]*acc)
	var all acc
	for _, e := range events {
		a := e.Action
		op, found := byOp[a.Operation]
		if !found {
			op = &acc{}
			byOp[a.Operation] = op
		}
		for _, x := range []*acc{op, &all} {
			x.total++
			x.latency += a.LatencyMS
			if a.Success {
				x.ok++
			}
		}
	}

	avg := func(x acc) float64 {
		if x.total == 0 {
			return 0
		}
		return round2(float64(x.latency) / float64(x.total))
	}

	out := analytics.AgentPerformance{
		Window:       w,
		Total:        all.total,
		Successful:   all.ok,
		Failed:       all.total - all.ok,
		SuccessRate:  percent(all.ok, all.total),
		AvgLatencyMS: avg(all),
		Actions:      make([]analytics.ActionPerformance, 0, len(byOp)),
	}
	for name, x := range byOp {
		out.Actions = append(out.Actions, analytics.ActionPerformance{
			Operation:    name,
			Total:        x.total,
			Successful:   x.ok,
			SuccessRate:  percent(x.ok, x.total),
			AvgLatencyMS: avg(*x),
		})
	}
	sort.Slice(out.Actions, func(i, j int) bool {
		if out.Actions[i].Total != out.Actions[j].Total {
			return out.Actions[i].Total > out.Actions[j].Total
		}
		return out.Actions[i].Operation < out.Actions[j].Operation
	})
	return out, nil
}
