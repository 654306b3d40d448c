package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/forward"
	"github.com/agenciau/leadrelay/internal/meta"
)

// Deliverer sends an enriched batch upstream. Satisfied by *meta.Client.
type Deliverer interface {
	Send(ctx context.Context, batch domain.ConversionBatch) (*meta.Response, error)
}

// Forwarder posts a raw lead to the workflow webhook. Satisfied by
// *forward.WebhookClient.
type Forwarder interface {
	Forward(ctx context.Context, lead domain.Lead) error
}

type Service struct {
	deliverer   Deliverer
	forwardPool forward.WorkerPool
	thresholds  domain.Thresholds
	logger      zerolog.Logger
}

func New(
	deliverer Deliverer,
	forwardPool forward.WorkerPool,
	forwarder Forwarder,
	thresholds domain.Thresholds,
	logger zerolog.Logger,
) *Service {
	forwardPool.Start(forwarder.Forward)

	return &Service{
		deliverer:   deliverer,
		forwardPool: forwardPool,
		thresholds:  thresholds,
		logger:      logger,
	}
}
