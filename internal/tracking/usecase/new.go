package usecase

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/attribution"
	"conversational-commerce/internal/conversation"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/internal/tracking"
	"conversational-commerce/pkg/commerce"
	"conversational-commerce/pkg/log"
)

type implUseCase struct {
	l      log.Logger
	conv   conversation.UseCase
	events repository.Repository
	carts  commerce.CartCreator
	tracer trace.Tracer
	now    func() time.Time
}

// New creates the tracking service. carts may be nil when no commerce backend
// is configured; CreateCart then fails with ErrCartCreateFailed.
func New(l log.Logger, conv conversation.UseCase, events repository.Repository, carts commerce.CartCreator, tagger *attribution.Tagger) tracking.UseCase {
	uc := &implUseCase{
		l:      l,
		conv:   conv,
		events: events,
		tracer: otel.Tracer("conversational-commerce/tracking"),
		now:    time.Now,
	}
	if carts != nil {
		uc.carts = attribution.NewTaggedCreator(carts, tagger)
	}
	return uc
}
