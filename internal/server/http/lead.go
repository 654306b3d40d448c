package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/agenciau/leadrelay/internal/apierror"
	"github.com/agenciau/leadrelay/internal/domain"
	"github.com/agenciau/leadrelay/internal/enrich"
)

type leadRequest struct {
	domain.Lead
	EventID       string `json:"event_id,omitempty"`
	TestEventCode string `json:"test_event_code,omitempty"`
}

type leadResponse struct {
	Success        bool   `json:"success"`
	Classification string `json:"classification"`
	EventID        string `json:"event_id"`
	Tracked        bool   `json:"tracked"`
}

// Lead accepts a raw qualification form submission. Qualified leads are
// forwarded to the workflow webhook and reported upstream; a tracking
// failure alone never fails the submission.
func (h *Handler) Lead(w http.ResponseWriter, r *http.Request) {
	var payload leadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.error(apierror.NewValidationError("invalid lead payload"), w)
		return
	}
	if payload.Name == "" || payload.Email == "" || payload.Phone == "" || payload.Income <= 0 {
		h.error(apierror.NewValidationError("name, email, phone and income are required"), w)
		return
	}

	result, err := h.conversions.SubmitLead(
		r.Context(),
		payload.Lead,
		payload.EventID,
		payload.TestEventCode,
		enrich.ClientIP(r),
		r.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, domain.ErrNotQualified) {
			h.error(apierror.NewUnprocessableError("lead does not qualify"), w)
			return
		}
		h.error(err, w)
		return
	}

	_ = encodeJSONResponse(w, http.StatusOK, leadResponse{
		Success:        true,
		Classification: result.Classification.String(),
		EventID:        result.EventID,
		Tracked:        result.Tracked,
	})
}
