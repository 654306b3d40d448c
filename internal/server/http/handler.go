package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/agenciau/leadrelay/internal/apierror"
	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/meta"
	"github.com/agenciau/leadrelay/internal/service"
)

// ConversionService is the handler's view of the relay pipeline.
type ConversionService interface {
	RelayBatch(ctx context.Context, batch domain.ConversionBatch, clientIP, userAgent string) (*service.RelayResult, error)
	SubmitLead(ctx context.Context, lead domain.Lead, eventID, testEventCode, clientIP, userAgent string) (*service.LeadResult, error)
}

type Handler struct {
	conversions ConversionService
	metaCfg     meta.Config
	logger      zerolog.Logger
}

// NewHandler wires the relay endpoints. Credentials live only in metaCfg;
// nothing in a request body can supply them.
func NewHandler(conversions ConversionService, metaCfg meta.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		conversions: conversions,
		metaCfg:     metaCfg,
		logger:      logger,
	}
}

func (h *Handler) error(err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	var apiErr apierror.Error
	if !errors.As(err, &apiErr) {
		apiErr = apierror.NewAPIError(err.Error(), http.StatusInternalServerError)
	}

	w.WriteHeader(apiErr.StatusCode())
	if err = json.NewEncoder(w).Encode(apiErr); err != nil {
		h.logger.Error().Err(err).Send()
	}
}
