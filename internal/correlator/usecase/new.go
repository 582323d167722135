package usecase

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"conversational-commerce/internal/attribution"
	"conversational-commerce/internal/correlator"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/pkg/log"
)

type implUseCase struct {
	l      log.Logger
	events repository.Repository
	codec  attribution.Codec
	tracer trace.Tracer
}

// New creates the Order Correlator. It only writes to the Event Log.
func New(l log.Logger, events repository.Repository, codec attribution.Codec) correlator.UseCase {
	return &implUseCase{
		l:      l,
		events: events,
		codec:  codec,
		tracer: otel.Tracer("conversational-commerce/correlator"),
	}
}
