// Package repotest holds behaviour tests shared by every Event Log backend.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/model"
)

// Run exercises newRepo against the Event Log contract. newRepo must return
// an empty repository.
func Run(t *testing.T, newRepo func(t *testing.T) repository.Repository) {
	t.Run("append and list", func(t *testing.T) { testAppendList(t, newRepo(t)) })
	t.Run("duplicate", func(t *testing.T) { testDuplicate(t, newRepo(t)) })
	t.Run("concurrent duplicates", func(t *testing.T) { testConcurrentDuplicates(t, newRepo(t)) })
	t.Run("window and kinds", func(t *testing.T) { testWindow(t, newRepo(t)) })
	t.Run("late arrivals", func(t *testing.T) { testLateArrivals(t, newRepo(t)) })
	t.Run("invalid kind", func(t *testing.T) { testInvalid(t, newRepo(t)) })
}

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func order(id string, at time.Time) eventlog.Event {
	return eventlog.Event{
		Kind:           eventlog.KindOrderCompleted,
		DedupKey:       eventlog.DedupKey(eventlog.KindOrderCompleted, id),
		ConversationID: "C1",
		UserID:         "U1",
		OccurredAt:     at,
		Transaction: &eventlog.TransactionPayload{
			ExternalID:  id,
			AmountMinor: 19990,
			Currency:    "BRL",
			LineItems: []model.LineItem{
				{ProductID: "P1", Title: "Vestido", Quantity: 2, PriceMinor: 9995},
			},
		},
	}
}

func testAppendList(t *testing.T, r repository.Repository) {
	ctx := context.Background()

	first, err := r.Append(ctx, eventlog.Event{Kind: eventlog.KindConversationStarted, ConversationID: "C1", UserID: "U1", OccurredAt: base})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if first.ID == "" || first.Seq == 0 {
		t.Errorf("expected id and seq to be assigned, got %+v", first)
	}

	if _, err := r.Append(ctx, order("1001", base.Add(time.Minute))); err != nil {
		t.Fatalf("Append order: %v", err)
	}
	if _, err := r.Append(ctx, eventlog.Event{
		Kind: eventlog.KindAgentAction, ConversationID: "C1", OccurredAt: base.Add(30 * time.Second),
		Action: &eventlog.ActionPayload{Operation: "search_products", Success: true, LatencyMS: 120, Parameters: map[string]any{"query": "vestido"}},
	}); err != nil {
		t.Fatalf("Append action: %v", err)
	}

	events, err := r.List(ctx, repository.ListOptions{Start: base, End: base.Add(time.Hour)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	// Append order, not occurred_at order.
	if events[0].Kind != eventlog.KindConversationStarted || events[1].Kind != eventlog.KindOrderCompleted || events[2].Kind != eventlog.KindAgentAction {
		t.Errorf("unexpected order: %s, %s, %s", events[0].Kind, events[1].Kind, events[2].Kind)
	}
	if !(events[0].Seq < events[1].Seq && events[1].Seq < events[2].Seq) {
		t.Errorf("seq not increasing: %d %d %d", events[0].Seq, events[1].Seq, events[2].Seq)
	}

	tx := events[1].Transaction
	if tx == nil || tx.AmountMinor != 19990 || len(tx.LineItems) != 1 || tx.LineItems[0].TotalMinor() != 19990 {
		t.Errorf("transaction payload not preserved: %+v", tx)
	}
	if !events[1].OccurredAt.Equal(base.Add(time.Minute)) {
		t.Errorf("occurred_at = %v", events[1].OccurredAt)
	}
	if a := events[2].Action; a == nil || a.Operation != "search_products" || a.Parameters["query"] != "vestido" {
		t.Errorf("action payload not preserved: %+v", a)
	}

	if n, _ := r.Count(ctx); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func testDuplicate(t *testing.T, r repository.Repository) {
	ctx := context.Background()

	if _, err := r.Append(ctx, order("1001", base)); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if _, err := r.Append(ctx, order("1001", base.Add(time.Second))); !errors.Is(err, eventlog.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if n, _ := r.Count(ctx); n != 1 {
		t.Errorf("Count = %d after duplicate, want 1", n)
	}

	ok, err := r.Exists(ctx, eventlog.DedupKey(eventlog.KindOrderCompleted, "1001"))
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}
	if ok, _ := r.Exists(ctx, "order_completed:9999"); ok {
		t.Error("Exists reported an unknown key")
	}

	// Events without a dedup key never collide.
	for i := 0; i < 2; i++ {
		if _, err := r.Append(ctx, eventlog.Event{Kind: eventlog.KindMessage, UserID: "U1", OccurredAt: base}); err != nil {
			t.Fatalf("Append message %d: %v", i, err)
		}
	}
	if n, _ := r.Count(ctx); n != 3 {
		t.Errorf("Count = %d, want 3", n)
	}
}

func testConcurrentDuplicates(t *testing.T, r repository.Repository) {
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		appended  atomic.Int32
		duplicate atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Append(ctx, order("2002", base))
			switch {
			case err == nil:
				appended.Add(1)
			case errors.Is(err, eventlog.ErrDuplicate):
				duplicate.Add(1)
			default:
				t.Errorf("Append: %v", err)
			}
		}()
	}
	wg.Wait()

	if appended.Load() != 1 || duplicate.Load() != workers-1 {
		t.Errorf("appended=%d duplicate=%d, want 1 and %d", appended.Load(), duplicate.Load(), workers-1)
	}
	if n, _ := r.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func testWindow(t *testing.T, r repository.Repository) {
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := r.Append(ctx, order(fmt.Sprint(3000+i), base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if _, err := r.Append(ctx, eventlog.Event{Kind: eventlog.KindMessage, UserID: "U1", OccurredAt: base.Add(time.Hour)}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// [base+1h, base+3h) holds orders 3001, 3002 and the message.
	events, _ := r.List(ctx, repository.ListOptions{Start: base.Add(time.Hour), End: base.Add(3 * time.Hour)})
	if len(events) != 3 {
		t.Errorf("window: got %d events, want 3", len(events))
	}

	orders, _ := r.List(ctx, repository.ListOptions{Start: base.Add(time.Hour), End: base.Add(3 * time.Hour), Kinds: []eventlog.Kind{eventlog.KindOrderCompleted}})
	if len(orders) != 2 || orders[0].Transaction.ExternalID != "3001" || orders[1].Transaction.ExternalID != "3002" {
		t.Errorf("kinds filter: got %d orders", len(orders))
	}

	open, _ := r.List(ctx, repository.ListOptions{Start: base.Add(3 * time.Hour)})
	if len(open) != 1 {
		t.Errorf("open-ended window: got %d, want 1", len(open))
	}
}

// testLateArrivals appends events whose occurred_at is not in append order,
// as happens with delayed webhooks.
func testLateArrivals(t *testing.T, r repository.Repository) {
	ctx := context.Background()

	offsets := []time.Duration{2 * time.Hour, 0, time.Hour, 3 * time.Hour, 30 * time.Minute}
	for i, off := range offsets {
		if _, err := r.Append(ctx, order(fmt.Sprint(4000+i), base.Add(off))); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// [base, base+2h) holds 4001, 4002 and 4004, returned in append order.
	events, err := r.List(ctx, repository.ListOptions{Start: base, End: base.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"4001", "4002", "4004"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, e := range events {
		if e.Transaction.ExternalID != want[i] {
			t.Errorf("events[%d] = %s, want %s", i, e.Transaction.ExternalID, want[i])
		}
		if i > 0 && e.Seq <= events[i-1].Seq {
			t.Errorf("events not in append order: seq %d after %d", e.Seq, events[i-1].Seq)
		}
	}

	all, _ := r.List(ctx, repository.ListOptions{})
	if len(all) != len(offsets) {
		t.Errorf("unbounded list: got %d, want %d", len(all), len(offsets))
	}
}

func testInvalid(t *testing.T, r repository.Repository) {
	if _, err := r.Append(context.Background(), eventlog.Event{Kind: "refund"}); !errors.Is(err, eventlog.ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}
