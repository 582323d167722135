package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/analytics/usecase"
	"conversational-commerce/internal/attribution"
	correlatorUsecase "conversational-commerce/internal/correlator/usecase"
	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/eventlog/repository/memory"
	"conversational-commerce/internal/model"
	"conversational-commerce/internal/webhook"
	"conversational-commerce/pkg/log"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func window(days int) eventlog.Window {
	return eventlog.Window{Start: day, End: day.AddDate(0, 0, days)}
}

func newAggregator(t *testing.T, events ...eventlog.Event) (analytics.UseCase, repository.Repository) {
	t.Helper()
	repo := memory.New(log.NewNop(), nil)
	for _, e := range events {
		if _, err := repo.Append(context.Background(), e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	return usecase.New(log.NewNop(), repo, nil, usecase.Config{PublicBaseURL: "https://agent.example/"}), repo
}

func started(conv, user string, at time.Time) eventlog.Event {
	return eventlog.Event{Kind: eventlog.KindConversationStarted, ConversationID: conv, UserID: user, OccurredAt: at}
}

func message(conv, user string, at time.Time) eventlog.Event {
	return eventlog.Event{Kind: eventlog.KindMessage, ConversationID: conv, UserID: user, OccurredAt: at,
		Message: &eventlog.MessagePayload{Role: "user", Length: 5}}
}

func viewed(conv, product string, at time.Time) eventlog.Event {
	return eventlog.Event{Kind: eventlog.KindProductViewed, ConversationID: conv, OccurredAt: at,
		ProductView: &eventlog.ProductViewPayload{ProductID: product}}
}

func cart(conv, token string, at time.Time) eventlog.Event {
	return eventlog.Event{Kind: eventlog.KindCartCreated, DedupKey: eventlog.DedupKey(eventlog.KindCartCreated, token),
		ConversationID: conv, OccurredAt: at, Transaction: &eventlog.TransactionPayload{ExternalID: token}}
}

func order(conv, id string, amount int64, at time.Time, items ...model.LineItem) eventlog.Event {
	return eventlog.Event{Kind: eventlog.KindOrderCompleted, DedupKey: eventlog.DedupKey(eventlog.KindOrderCompleted, id),
		ConversationID: conv, OccurredAt: at,
		Transaction: &eventlog.TransactionPayload{ExternalID: id, AmountMinor: amount, Currency: "BRL", LineItems: items}}
}

func action(op string, ok bool, latencyMS int64, at time.Time) eventlog.Event {
	return eventlog.Event{Kind: eventlog.KindAgentAction, OccurredAt: at,
		Action: &eventlog.ActionPayload{Operation: op, Success: ok, LatencyMS: latencyMS}}
}

func TestWindowValidation(t *testing.T) {
	uc, _ := newAggregator(t)
	ctx := context.Background()

	bad := []eventlog.Window{
		{},
		{Start: day},
		{Start: day, End: day},
		{Start: day.Add(time.Hour), End: day},
	}
	for i, w := range bad {
		if _, err := uc.Overview(ctx, w); !errors.Is(err, analytics.ErrInvalidWindow) {
			t.Errorf("window %d: expected ErrInvalidWindow, got %v", i, err)
		}
	}

	for _, limit := range []int{0, -1, 101} {
		if _, err := uc.TopProducts(ctx, window(1), limit); !errors.Is(err, analytics.ErrInvalidLimit) {
			t.Errorf("limit %d: expected ErrInvalidLimit, got %v", limit, err)
		}
	}
}

func TestOverview(t *testing.T) {
	at := day.Add(10 * time.Hour)
	uc, _ := newAggregator(t,
		started("C1", "U1", at),
		message("C1", "U1", at),
		message("C1", "U1", at.Add(time.Minute)),
		started("C2", "U2", at),
		message("C2", "U2", at),
		cart("C1", "t1", at.Add(2*time.Minute)),
		cart("C2", "t2", at.Add(2*time.Minute)),
		order("C1", "1001", 19990, at.Add(time.Hour)),
		order("", "1002", 5000, at.Add(time.Hour)),
		// outside the window
		order("C2", "1003", 99900, day.AddDate(0, 0, 2)),
	)

	got, err := uc.Overview(context.Background(), window(1))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	want := analytics.Overview{
		Window:              window(1),
		Conversations:       2,
		UniqueUsers:         2,
		Messages:            3,
		AvgMessagesPerConv:  1.5,
		CartsCreated:        2,
		OrdersCompleted:     2,
		AttributedOrders:    1,
		UnattributedOrders:  1,
		RevenueMinor:        24990,
		AttributedRevenue:   19990,
		AvgOrderValueMinor:  12495,
		CartToOrderRate:     100,
		ConversationToOrder: 50,
	}
	if got != want {
		t.Errorf("Overview =\n%+v\nwant\n%+v", got, want)
	}
}

func TestDailyRevenue(t *testing.T) {
	uc, _ := newAggregator(t,
		order("C1", "1", 1000, day.Add(time.Hour)),
		order("C1", "2", 2500, day.Add(23*time.Hour)),
		order("", "3", 700, day.AddDate(0, 0, 2).Add(time.Minute)),
	)

	got, err := uc.DailyRevenue(context.Background(), window(3))
	if err != nil {
		t.Fatalf("DailyRevenue: %v", err)
	}
	want := []analytics.DailyRevenue{
		{Date: "2025-06-01", RevenueMinor: 3500, Orders: 2},
		{Date: "2025-06-02"},
		{Date: "2025-06-03", RevenueMinor: 700, Orders: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestTopProducts(t *testing.T) {
	at := day.Add(time.Hour)
	uc, _ := newAggregator(t,
		viewed("C1", "P2", at),
		viewed("C2", "P2", at),
		order("C1", "1", 0, at,
			model.LineItem{ProductID: "P1", Title: "Vestido", Quantity: 2, PriceMinor: 1000},
			model.LineItem{ProductID: "P2", Title: "Bolsa", Quantity: 2, PriceMinor: 3000}),
		order("", "2", 0, at,
			model.LineItem{ProductID: "P3", Title: "Cinto", Quantity: 2, PriceMinor: 1000},
			model.LineItem{ProductID: "P4", Title: "Brinco", Quantity: 1, PriceMinor: 9000}),
	)

	got, err := uc.TopProducts(context.Background(), window(1), 3)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	wantIDs := []string{"P2", "P1", "P3"}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d products, want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ProductID != id {
			t.Errorf("rank %d = %s, want %s", i, got[i].ProductID, id)
		}
	}
	if got[0].RevenueMinor != 6000 || got[0].PurchaseCount != 2 || got[0].Views != 2 || got[0].Title != "Bolsa" {
		t.Errorf("unexpected top product: %+v", got[0])
	}
}

func TestFunnel(t *testing.T) {
	at := day.Add(time.Hour)

	t.Run("well-formed data is monotonic", func(t *testing.T) {
		var events []eventlog.Event
		for i := 1; i <= 4; i++ {
			conv := fmt.Sprintf("C%d", i)
			events = append(events, started(conv, "U"+conv, at))
			if i <= 3 {
				events = append(events, viewed(conv, "P1", at), viewed(conv, "P2", at))
			}
			if i <= 2 {
				events = append(events, cart(conv, "t"+conv, at))
			}
			if i == 1 {
				events = append(events, order(conv, "o"+conv, 1000, at))
			}
		}
		events = append(events, order("", "stray", 500, at))
		uc, _ := newAggregator(t, events...)

		f, err := uc.Funnel(context.Background(), window(1))
		if err != nil {
			t.Fatalf("Funnel: %v", err)
		}
		want := []analytics.FunnelStage{
			{Name: analytics.StageConversationStarted, Count: 4, Percentage: 100},
			{Name: analytics.StageProductViewed, Count: 3, Percentage: 75, DropOff: 1},
			{Name: analytics.StageCartCreated, Count: 2, Percentage: 50, DropOff: 1},
			{Name: analytics.StageOrderCompleted, Count: 1, Percentage: 25, DropOff: 1},
		}
		for i := range want {
			if f.Stages[i] != want[i] {
				t.Errorf("stage %d = %+v, want %+v", i, f.Stages[i], want[i])
			}
			if i > 0 && f.Stages[i].Count > f.Stages[i-1].Count {
				t.Errorf("stage %d exceeds its predecessor", i)
			}
		}
		if len(f.Anomalies) != 0 || f.UnattributedOrders != 1 || f.OverallConversionRate != 25 {
			t.Errorf("unexpected funnel: %+v", f)
		}
	})

	t.Run("anomalies are reported, not clipped", func(t *testing.T) {
		uc, _ := newAggregator(t,
			started("C1", "U1", at),
			cart("C1", "t1", at),
			cart("C2", "t2", at),
		)
		f, err := uc.Funnel(context.Background(), window(1))
		if err != nil {
			t.Fatalf("Funnel: %v", err)
		}
		if f.Stages[2].Count != 2 || f.Stages[2].Percentage != 200 {
			t.Errorf("cart stage was altered: %+v", f.Stages[2])
		}
		if len(f.Anomalies) != 1 {
			t.Fatalf("expected 1 anomaly, got %+v", f.Anomalies)
		}
		a := f.Anomalies[0]
		if a.Stage != analytics.StageCartCreated || a.PreviousStage != analytics.StageProductViewed || a.Count != 2 || a.PreviousCount != 0 {
			t.Errorf("unexpected anomaly: %+v", a)
		}
	})

	t.Run("empty window", func(t *testing.T) {
		uc, _ := newAggregator(t)
		f, err := uc.Funnel(context.Background(), window(1))
		if err != nil {
			t.Fatalf("Funnel: %v", err)
		}
		for _, s := range f.Stages {
			if s.Count != 0 || s.Percentage != 0 {
				t.Errorf("unexpected stage: %+v", s)
			}
		}
	})
}

func TestAttributionScenarios(t *testing.T) {
	ctx := context.Background()
	at := day.Add(9 * time.Hour)
	codec := attribution.NewCodec("")

	repo := memory.New(log.NewNop(), nil)
	for _, e := range []eventlog.Event{started("C1", "U1", at), cart("C1", "tok1", at.Add(time.Minute))} {
		if _, err := repo.Append(ctx, e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	corr := correlatorUsecase.New(log.NewNop(), repo, codec)
	uc := usecase.New(log.NewNop(), repo, nil, usecase.Config{})

	tagged := `{"id": 5001, "total_price": "150.00", "currency": "BRL", "note_attributes": [
		{"name": "_agent_conversation_id", "value": "C1"},
		{"name": "_agent_user_id", "value": "U1"},
		{"name": "_agent_source", "value": "behold_whatsapp_agent"}]}`
	untagged := `{"id": 5002, "total_price": "80.00", "currency": "BRL"}`

	for _, body := range []string{tagged, tagged, untagged} {
		n, err := webhook.Parse(webhook.TopicOrdersCreate, []byte(body), at.Add(time.Hour))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		if _, err := corr.Correlate(ctx, n); err != nil {
			t.Fatalf("Correlate: %v", err)
		}
	}

	ov, err := uc.Overview(ctx, window(1))
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.OrdersCompleted != 2 || ov.RevenueMinor != 23000 {
		t.Errorf("gross totals: orders=%d revenue=%d, want 2 and 23000", ov.OrdersCompleted, ov.RevenueMinor)
	}
	if ov.AttributedOrders != 1 || ov.AttributedRevenue != 15000 || ov.UnattributedOrders != 1 {
		t.Errorf("attribution split: %+v", ov)
	}

	f, err := uc.Funnel(ctx, window(1))
	if err != nil {
		t.Fatalf("Funnel: %v", err)
	}
	if f.Stages[3].Count != 1 || f.UnattributedOrders != 1 {
		t.Errorf("order stage = %+v, unattributed = %d", f.Stages[3], f.UnattributedOrders)
	}
}

func TestAgentPerformance(t *testing.T) {
	at := day.Add(time.Hour)
	uc, _ := newAggregator(t,
		action("search_products", true, 100, at),
		action("search_products", false, 300, at),
		action("create_cart", true, 50, at),
		action("get_cart", true, 20, at),
	)

	got, err := uc.AgentPerformance(context.Background(), window(1))
	if err != nil {
		t.Fatalf("AgentPerformance: %v", err)
	}
	if got.Total != 4 || got.Successful != 3 || got.Failed != 1 || got.SuccessRate != 75 || got.AvgLatencyMS != 117.5 {
		t.Errorf("unexpected totals: %+v", got)
	}
	wantOrder := []string{"search_products", "create_cart", "get_cart"}
	for i, op := range wantOrder {
		if got.Actions[i].Operation != op {
			t.Errorf("action %d = %s, want %s", i, got.Actions[i].Operation, op)
		}
	}
	if s := got.Actions[0]; s.SuccessRate != 50 || s.AvgLatencyMS != 200 {
		t.Errorf("unexpected search stats: %+v", s)
	}
}

func TestEngagement(t *testing.T) {
	at := day.Add(time.Hour)
	uc, _ := newAggregator(t,
		started("C1", "U1", at),
		message("C1", "U1", at),
		message("C1", "U1", at.Add(10*time.Minute)),
		started("C2", "U1", at.Add(3*time.Hour)),
		message("C2", "U1", at.Add(3*time.Hour+20*time.Minute)),
		started("C3", "U2", at),
		message("C3", "U2", at),
		order("C3", "9", 100, at.Add(30*time.Minute)),
	)

	got, err := uc.Engagement(context.Background(), window(1))
	if err != nil {
		t.Fatalf("Engagement: %v", err)
	}
	if got.ActiveUsers != 2 || got.RepeatUsers != 1 || got.NewUsers != 1 || got.RepeatRate != 50 {
		t.Errorf("unexpected user counts: %+v", got)
	}
	// C1 600s, C2 1200s, C3 1800s
	if got.AvgConversationSeconds != 1200 {
		t.Errorf("AvgConversationSeconds = %v, want 1200", got.AvgConversationSeconds)
	}
	if got.AvgMessagesPerUser != 2 || got.AvgConversationsPerUser != 1.5 {
		t.Errorf("unexpected per-user averages: %+v", got)
	}
}

func TestSetupGuide(t *testing.T) {
	uc, _ := newAggregator(t)
	g := uc.SetupGuide(context.Background())
	if len(g.Subscriptions) != 4 {
		t.Fatalf("expected 4 subscriptions, got %d", len(g.Subscriptions))
	}
	if g.Subscriptions[0].Topic != "orders/create" || g.Subscriptions[0].Address != "https://agent.example/webhooks/shopify/orders/create" {
		t.Errorf("unexpected subscription: %+v", g.Subscriptions[0])
	}
}
