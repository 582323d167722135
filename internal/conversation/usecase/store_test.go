package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/conversation/usecase"
)

// ── Mocks ──────────────────────────────────────────────────────────────────

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Info(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Warn(ctx context.Context, args ...interface{})                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...interface{})   {}
func (m *mockLogger) Error(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...interface{})                 {}
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...interface{}) {}
func (m *mockLogger) Panic(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...interface{})  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...interface{})                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...interface{})  {}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

type mockRepo struct {
	mu      sync.Mutex
	stored  map[string]conversation.Context
	saveErr error
	deletes int
}

func newMockRepo() *mockRepo {
	return &mockRepo{stored: make(map[string]conversation.Context)}
}

func (m *mockRepo) Save(ctx context.Context, c conversation.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.stored[c.UserID] = c.Clone()
	return nil
}

func (m *mockRepo) Load(ctx context.Context, userID string) (conversation.Context, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.stored[userID]
	return c.Clone(), ok, nil
}

func (m *mockRepo) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	delete(m.stored, userID)
	return nil
}

func newStore(clock *fakeClock, opts ...usecase.Option) conversation.UseCase {
	opts = append([]usecase.Option{usecase.WithClock(clock.Now)}, opts...)
	return usecase.New(&mockLogger{}, usecase.Config{TTL: 2 * time.Hour, MaxTurns: 5, ShardCount: 4}, opts...)
}

// ── Tests ──────────────────────────────────────────────────────────────────

func TestRecordTurn_WindowKeepsLastFiveUserTurns(t *testing.T) {
	clock := newFakeClock()
	store := newStore(clock)
	ctx := context.Background()

	var last time.Time
	for i := 1; i <= 6; i++ {
		last = clock.Advance(time.Minute)
		_, err := store.RecordTurn(ctx, conversation.RecordTurnInput{
			UserID: "U1", Role: conversation.RoleUser, Text: fmt.Sprintf("message %d", i),
		})
		if err != nil {
			t.Fatalf("RecordTurn %d: %v", i, err)
		}
	}

	snap, err := store.Snapshot(ctx, "U1")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Turns) != 5 {
		t.Fatalf("expected 5 turns, got %d", len(snap.Turns))
	}
	if snap.Turns[0].Text != "message 2" || snap.Turns[4].Text != "message 6" {
		t.Errorf("unexpected window: first=%q last=%q", snap.Turns[0].Text, snap.Turns[4].Text)
	}
	if !snap.LastActiveAt.Equal(last) {
		t.Errorf("LastActiveAt = %v, want %v", snap.LastActiveAt, last)
	}
}

func TestRecordTurn_WindowKeepsPairs(t *testing.T) {
	clock := newFakeClock()
	store := newStore(clock)
	ctx := context.Background()

	for i := 1; i <= 7; i++ {
		for _, role := range []conversation.Role{conversation.RoleUser, conversation.RoleAssistant} {
			clock.Advance(time.Second)
			if _, err := store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: role, Text: fmt.Sprintf("%s %d", role, i)}); err != nil {
				t.Fatalf("RecordTurn: %v", err)
			}
		}
	}

	snap, _ := store.Snapshot(ctx, "U1")
	if len(snap.Turns) != 10 {
		t.Fatalf("expected 10 turns, got %d", len(snap.Turns))
	}
	if snap.Turns[0].Text != "user 3" || snap.Turns[9].Text != "assistant 7" {
		t.Errorf("unexpected window bounds: %q .. %q", snap.Turns[0].Text, snap.Turns[9].Text)
	}
	if snap.UserTurns() != 5 {
		t.Errorf("expected 5 user turns, got %d", snap.UserTurns())
	}
}

func TestRecordTurn_ConcurrentSameUserCreatesOneConversation(t *testing.T) {
	store := newStore(newFakeClock())
	ctx := context.Background()

	const n = 64
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: fmt.Sprint(i)})
			if err != nil {
				t.Errorf("RecordTurn: %v", err)
				return
			}
			ids <- out.Context.ConversationID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool)
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("expected exactly one conversation id, got %d", len(seen))
	}
}

func TestRecordTurn_UsersDoNotCrossContaminate(t *testing.T) {
	store := newStore(newFakeClock())
	ctx := context.Background()

	users := []string{"alice", "bob", "carol"}
	var wg sync.WaitGroup
	for _, u := range users {
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(u string, i int) {
				defer wg.Done()
				_, err := store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: u, Role: conversation.RoleUser, Text: fmt.Sprintf("%s-%d", u, i)})
				if err != nil {
					t.Errorf("RecordTurn: %v", err)
				}
			}(u, i)
		}
	}
	wg.Wait()

	convIDs := make(map[string]bool)
	for _, u := range users {
		snap, err := store.Snapshot(ctx, u)
		if err != nil {
			t.Fatalf("Snapshot(%s): %v", u, err)
		}
		convIDs[snap.ConversationID] = true
		for _, turn := range snap.Turns {
			if !strings.HasPrefix(turn.Text, u+"-") {
				t.Errorf("user %s holds foreign turn %q", u, turn.Text)
			}
		}
	}
	if len(convIDs) != len(users) {
		t.Errorf("expected %d distinct conversations, got %d", len(users), len(convIDs))
	}
}

func TestStore_NotFound(t *testing.T) {
	store := newStore(newFakeClock())
	ctx := context.Background()

	t.Run("AppendTurn without context", func(t *testing.T) {
		_, err := store.AppendTurn(ctx, "ghost", conversation.RoleUser, "hi")
		if !errors.Is(err, conversation.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdateFields without context", func(t *testing.T) {
		ref := "cart-1"
		_, err := store.UpdateFields(ctx, "ghost", conversation.Update{ActiveCartRef: &ref})
		if !errors.Is(err, conversation.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Snapshot without context", func(t *testing.T) {
		if _, err := store.Snapshot(ctx, "ghost"); !errors.Is(err, conversation.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("empty user id", func(t *testing.T) {
		if _, _, err := store.GetOrCreate(ctx, ""); !errors.Is(err, conversation.ErrEmptyUserID) {
			t.Errorf("expected ErrEmptyUserID, got %v", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		_, err := store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "u", Role: "system", Text: "x"})
		if !errors.Is(err, conversation.ErrInvalidRole) {
			t.Errorf("expected ErrInvalidRole, got %v", err)
		}
	})
}

func TestGetOrCreate_ThenAppendTurn(t *testing.T) {
	clock := newFakeClock()
	store := newStore(clock)
	ctx := context.Background()

	c1, created, err := store.GetOrCreate(ctx, "U1")
	if err != nil || !created {
		t.Fatalf("GetOrCreate: created=%v err=%v", created, err)
	}

	clock.Advance(time.Minute)
	c2, created, _ := store.GetOrCreate(ctx, "U1")
	if created || c2.ConversationID != c1.ConversationID {
		t.Errorf("expected the same conversation, got created=%v %s vs %s", created, c2.ConversationID, c1.ConversationID)
	}
	if !c2.LastActiveAt.After(c1.LastActiveAt) {
		t.Errorf("GetOrCreate should refresh last_active_at")
	}

	got, err := store.AppendTurn(ctx, "U1", conversation.RoleAssistant, "Olá! Como posso ajudar?")
	if err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if len(got.Turns) != 1 || got.Turns[0].Role != conversation.RoleAssistant {
		t.Errorf("unexpected turns: %+v", got.Turns)
	}
}

func TestGetOrCreate_ReplacesExpiredContext(t *testing.T) {
	clock := newFakeClock()
	store := newStore(clock)
	ctx := context.Background()

	first, _, _ := store.GetOrCreate(ctx, "U1")
	clock.Advance(2*time.Hour + time.Second)

	second, created, err := store.GetOrCreate(ctx, "U1")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if !created || second.ConversationID == first.ConversationID {
		t.Errorf("expected a fresh conversation after TTL, got created=%v", created)
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	store := newStore(newFakeClock())
	ctx := context.Background()

	store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: "original"})
	store.UpdateFields(ctx, "U1", conversation.Update{
		Preferences:     map[string]any{"sizes": []any{"M"}},
		ShippingAddress: map[string]string{"city": "Recife"},
	})

	snap, _ := store.Snapshot(ctx, "U1")
	snap.Turns[0].Text = "tampered"
	snap.Preferences["sizes"].([]any)[0] = "XL"
	snap.ShippingAddress["city"] = "Natal"

	again, _ := store.Snapshot(ctx, "U1")
	if again.Turns[0].Text != "original" {
		t.Errorf("turn mutated through snapshot: %q", again.Turns[0].Text)
	}
	if again.Preferences["sizes"].([]any)[0] != "M" {
		t.Errorf("preferences mutated through snapshot: %v", again.Preferences)
	}
	if again.ShippingAddress["city"] != "Recife" {
		t.Errorf("address mutated through snapshot: %v", again.ShippingAddress)
	}
}

func TestUpdateFields(t *testing.T) {
	clock := newFakeClock()
	store := newStore(clock)
	ctx := context.Background()
	store.GetOrCreate(ctx, "U1")

	t.Run("cart and preferences merge", func(t *testing.T) {
		cart := "gid://shopify/Cart/c1"
		store.UpdateFields(ctx, "U1", conversation.Update{Preferences: map[string]any{"size": "M", "color": "blue"}})
		got, err := store.UpdateFields(ctx, "U1", conversation.Update{
			ActiveCartRef: &cart,
			Preferences:   map[string]any{"color": nil, "budget": 200},
		})
		if err != nil {
			t.Fatalf("UpdateFields: %v", err)
		}
		if got.ActiveCartRef != cart {
			t.Errorf("ActiveCartRef = %q", got.ActiveCartRef)
		}
		if _, ok := got.Preferences["color"]; ok {
			t.Error("nil preference value should delete the key")
		}
		if got.Preferences["size"] != "M" || got.Preferences["budget"] != 200 {
			t.Errorf("unexpected preferences: %v", got.Preferences)
		}
	})

	t.Run("searches keep last three", func(t *testing.T) {
		var got conversation.Context
		for i := 1; i <= 4; i++ {
			got, _ = store.UpdateFields(ctx, "U1", conversation.Update{
				ProductSearch: &conversation.ProductSearch{Query: fmt.Sprintf("q%d", i), ResultCount: i},
			})
		}
		if len(got.RecentSearches) != usecase.MaxRecentSearches || got.RecentSearches[0].Query != "q2" {
			t.Errorf("unexpected searches: %+v", got.RecentSearches)
		}
		if got.LastSearchQuery != "q4" {
			t.Errorf("LastSearchQuery = %q", got.LastSearchQuery)
		}
	})

	t.Run("product views deduplicate and cap", func(t *testing.T) {
		var got conversation.Context
		for i := 1; i <= 12; i++ {
			got, _ = store.UpdateFields(ctx, "U1", conversation.Update{
				ProductView: &conversation.ProductRef{ProductID: fmt.Sprintf("p%d", i)},
			})
		}
		got, _ = store.UpdateFields(ctx, "U1", conversation.Update{ProductView: &conversation.ProductRef{ProductID: "p5"}})
		if len(got.RecentProducts) != usecase.MaxRecentProducts {
			t.Fatalf("expected %d products, got %d", usecase.MaxRecentProducts, len(got.RecentProducts))
		}
		if got.RecentProducts[len(got.RecentProducts)-1].ProductID != "p5" {
			t.Errorf("re-viewed product should move to the end: %+v", got.RecentProducts)
		}
		for _, p := range got.RecentProducts[:len(got.RecentProducts)-1] {
			if p.ProductID == "p5" {
				t.Error("p5 should not appear twice")
			}
		}
	})
}

func TestClear(t *testing.T) {
	store := newStore(newFakeClock())
	ctx := context.Background()
	store.GetOrCreate(ctx, "U1")

	existed, err := store.Clear(ctx, "U1")
	if err != nil || !existed {
		t.Fatalf("Clear: existed=%v err=%v", existed, err)
	}
	if _, err := store.Snapshot(ctx, "U1"); !errors.Is(err, conversation.ErrNotFound) {
		t.Errorf("expected ErrNotFound after clear, got %v", err)
	}

	existed, err = store.Clear(ctx, "U1")
	if err != nil || existed {
		t.Errorf("second Clear should be a no-op success: existed=%v err=%v", existed, err)
	}
}

func TestEvictExpired_TTLBoundary(t *testing.T) {
	clock := newFakeClock()
	store := newStore(clock)
	ctx := context.Background()

	// "stale" goes idle first; "fresh" two seconds later.
	store.GetOrCreate(ctx, "stale")
	clock.Advance(2 * time.Second)
	store.GetOrCreate(ctx, "fresh")

	// now - stale.last = TTL + 1s, now - fresh.last = TTL - 1s
	clock.Advance(2*time.Hour - time.Second)

	n, err := store.EvictExpired(ctx)
	if err != nil {
		t.Fatalf("EvictExpired: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 eviction, got %d", n)
	}
	if _, err := store.Snapshot(ctx, "stale"); !errors.Is(err, conversation.ErrNotFound) {
		t.Errorf("stale context should be gone, got %v", err)
	}
	if _, err := store.Snapshot(ctx, "fresh"); err != nil {
		t.Errorf("fresh context should survive: %v", err)
	}
}

func TestRecordTurn_IdleTimeUsesStoreClock(t *testing.T) {
	ctx := context.Background()

	t.Run("future turn time does not pin the context", func(t *testing.T) {
		clock := newFakeClock()
		store := newStore(clock)
		now := clock.Now()

		out, err := store.RecordTurn(ctx, conversation.RecordTurnInput{
			UserID: "U1", Role: conversation.RoleUser, Text: "oi", At: now.AddDate(10, 0, 0),
		})
		if err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
		if !out.Context.LastActiveAt.Equal(now) {
			t.Errorf("LastActiveAt = %v, want %v", out.Context.LastActiveAt, now)
		}
		if !out.Context.Turns[0].At.Equal(now) {
			t.Errorf("turn time = %v, want it clamped to %v", out.Context.Turns[0].At, now)
		}

		clock.Advance(2*time.Hour + time.Second)
		if n, _ := store.EvictExpired(ctx); n != 1 {
			t.Errorf("expected 1 eviction, got %d", n)
		}
	})

	t.Run("late delivery still refreshes activity", func(t *testing.T) {
		clock := newFakeClock()
		store := newStore(clock)
		t0 := clock.Now()

		if _, err := store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: "oi"}); err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
		touched := clock.Advance(119 * time.Minute)
		out, err := store.RecordTurn(ctx, conversation.RecordTurnInput{
			UserID: "U1", Role: conversation.RoleAssistant, Text: "ola", At: t0.Add(time.Minute),
		})
		if err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
		if !out.Context.LastActiveAt.Equal(touched) {
			t.Errorf("LastActiveAt = %v, want %v", out.Context.LastActiveAt, touched)
		}
		if !out.Context.Turns[1].At.Equal(t0.Add(time.Minute)) {
			t.Errorf("turn time = %v, want the delivered one", out.Context.Turns[1].At)
		}

		clock.Advance(3 * time.Minute)
		if n, _ := store.EvictExpired(ctx); n != 0 {
			t.Errorf("context touched 3 minutes ago was evicted (%d)", n)
		}
	})
}

func TestStats(t *testing.T) {
	store := newStore(newFakeClock())
	ctx := context.Background()

	store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "a", Role: conversation.RoleUser, Text: "1"})
	store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "a", Role: conversation.RoleAssistant, Text: "2"})
	store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "b", Role: conversation.RoleUser, Text: "3"})
	cart := "cart-b"
	store.UpdateFields(ctx, "b", conversation.Update{ActiveCartRef: &cart})

	st := store.Stats(ctx)
	if st.ActiveContexts != 2 || st.TotalTurns != 3 || st.ActiveCarts != 1 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.TTL != 2*time.Hour || st.MaxTurns != 5 {
		t.Errorf("unexpected limits: %+v", st)
	}
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()

	t.Run("failed save leaves no context behind", func(t *testing.T) {
		repo := newMockRepo()
		repo.saveErr = errors.New("redis down")
		store := newStore(newFakeClock(), usecase.WithRepository(repo))

		_, err := store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: "hi"})
		if !errors.Is(err, conversation.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		if _, err := store.Snapshot(ctx, "U1"); !errors.Is(err, conversation.ErrNotFound) {
			t.Errorf("expected no context after failed create, got %v", err)
		}
	})

	t.Run("failed save keeps previous state", func(t *testing.T) {
		repo := newMockRepo()
		store := newStore(newFakeClock(), usecase.WithRepository(repo))
		store.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: "first"})

		repo.mu.Lock()
		repo.saveErr = errors.New("redis down")
		repo.mu.Unlock()

		if _, err := store.AppendTurn(ctx, "U1", conversation.RoleAssistant, "lost"); !errors.Is(err, conversation.ErrPersistence) {
			t.Fatalf("expected ErrPersistence, got %v", err)
		}
		snap, _ := store.Snapshot(ctx, "U1")
		if len(snap.Turns) != 1 {
			t.Errorf("context partially updated: %+v", snap.Turns)
		}
	})

	t.Run("restores a persisted context", func(t *testing.T) {
		clock := newFakeClock()
		repo := newMockRepo()
		first := newStore(clock, usecase.WithRepository(repo))
		out, _ := first.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: "before restart"})

		clock.Advance(10 * time.Minute)
		restarted := newStore(clock, usecase.WithRepository(repo))
		again, err := restarted.RecordTurn(ctx, conversation.RecordTurnInput{UserID: "U1", Role: conversation.RoleUser, Text: "after restart"})
		if err != nil {
			t.Fatalf("RecordTurn: %v", err)
		}
		if again.Created || again.Context.ConversationID != out.Context.ConversationID {
			t.Errorf("expected restored conversation %s, got %s (created=%v)", out.Context.ConversationID, again.Context.ConversationID, again.Created)
		}
		if len(again.Context.Turns) != 2 {
			t.Errorf("expected 2 turns after restore, got %d", len(again.Context.Turns))
		}
	})

	t.Run("clear deletes persisted copy", func(t *testing.T) {
		repo := newMockRepo()
		store := newStore(newFakeClock(), usecase.WithRepository(repo))
		store.GetOrCreate(ctx, "U1")
		store.Clear(ctx, "U1")
		if _, ok, _ := repo.Load(ctx, "U1"); ok {
			t.Error("persisted context should be deleted")
		}
	})
}
