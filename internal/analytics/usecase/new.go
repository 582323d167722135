package usecase

import (
	"conversational-commerce/internal/analytics"
	"conversational-commerce/internal/eventlog/repository"
	"conversational-commerce/pkg/log"
	"conversational-commerce/pkg/metrics"
)

// Config carries what the setup guide needs to know about the deployment.
type Config struct {
	PublicBaseURL    string
	SignatureHeader  string
	SecretConfigured bool
	SourceMarker     string
}

type implUseCase struct {
	l       log.Logger
	events  repository.Repository
	metrics *metrics.Metrics
	cfg     Config
}

// New creates the Aggregator. m may be nil.
func New(l log.Logger, events repository.Repository, m *metrics.Metrics, cfg Config) analytics.UseCase {
	return &implUseCase{
		l:       l,
		events:  events,
		metrics: m,
		cfg:     cfg,
	}
}
