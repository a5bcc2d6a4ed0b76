package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/quote"
	"loan-portal/internal/pkg/apperrors"
)

type QuoteHandler struct {
	service application.ApplicationService
	logger  *slog.Logger
}

func NewQuoteHandler(svc application.ApplicationService, logger *slog.Logger) *QuoteHandler {
	if svc == nil {
		panic("application service cannot be nil")
	}
	return &QuoteHandler{
		service: svc,
		logger:  logger.With(slog.String("component", "QuoteHandler")),
	}
}

// Catalog lists the loan options, periods and purposes. Amounts already
// quoted in this session carry their savings contribution.
func (h *QuoteHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	entries, err := h.service.Catalog(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCatalogResponse(entries))
}

// Quote prices ?amount=&period=. The period defaults to the standard term.
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}

	amount, err := strconv.ParseInt(r.URL.Query().Get("amount"), 10, 64)
	if err != nil || amount <= 0 {
		respondError(w, apperrors.NewValidationError("amount", "amount must be a positive whole number"))
		return
	}

	period := quote.DefaultRepaymentPeriod
	if raw := r.URL.Query().Get("period"); raw != "" {
		period, err = strconv.Atoi(raw)
		if err != nil {
			respondError(w, fmt.Errorf("%w: period %q is not a number", apperrors.ErrInvalidPeriod, raw))
			return
		}
	}

	q, err := h.service.Quote(r.Context(), owner, amount, period)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewQuoteResponse(q))
}
