package memory_test

import (
	"context"
	"testing"

	"conversational-commerce/internal/eventlog"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/eventlog/repository/memory"
	"conversational-commerce/internal/eventlog/repository/repotest"
	"conversational-commerce/pkg/log"
)

func TestMemoryRepository(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.Repository {
		return memory.New(log.NewNop(), nil)
	})
}

func TestMemoryRepository_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := memory.New(log.NewNop(), nil)

	r.Append(ctx, eventlog.Event{
		Kind:        eventlog.KindProductViewed,
		ProductView: &eventlog.ProductViewPayload{ProductID: "P1", Title: "Vestido"},
	})

	first, _ := r.List(ctx, repository.ListOptions{})
	first[0].ProductView.Title = "changed"

	again, _ := r.List(ctx, repository.ListOptions{})
	if again[0].ProductView.Title != "Vestido" {
		t.Errorf("stored event mutated through List result: %q", again[0].ProductView.Title)
	}
}
