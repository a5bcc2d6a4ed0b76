package handler

import (
	"log/slog"
	"net/http"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/domain/application"
)

// ApplicationHandler drives the three-step loan application for the
// session owner.
type ApplicationHandler struct {
	service    application.ApplicationService
	tillNumber string
	logger     *slog.Logger
}

func NewApplicationHandler(svc application.ApplicationService, tillNumber string, logger *slog.Logger) *ApplicationHandler {
	if svc == nil {
		panic("application service cannot be nil")
	}
	return &ApplicationHandler{
		service:    svc,
		tillNumber: tillNumber,
		logger:     logger.With(slog.String("component", "ApplicationHandler")),
	}
}

func (h *ApplicationHandler) Start(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	wc, err := h.service.Start(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewApplicationResponse(wc, h.tillNumber))
}

func (h *ApplicationHandler) Current(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	wc, err := h.service.Current(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(wc, h.tillNumber))
}

func (h *ApplicationHandler) SetGuarantor(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req dto.GuarantorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	wc, err := h.service.SetGuarantor(r.Context(), owner, req.GuarantorName, req.GuarantorPhone)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(wc, h.tillNumber))
}

func (h *ApplicationHandler) SelectLoan(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req dto.LoanSelectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	wc, err := h.service.SelectLoan(r.Context(), owner, req.ToDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(wc, h.tillNumber))
}

// VerifyPayment answers 200 for both outcomes; a mismatch is reported in
// the body status and reason.
func (h *ApplicationHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req dto.VerificationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	wc, result, err := h.service.VerifyPayment(r.Context(), owner, req.Message)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewVerificationResponse(result, dto.NewApplicationResponse(wc, h.tillNumber)))
}

func (h *ApplicationHandler) Next(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	wc, err := h.service.Next(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(wc, h.tillNumber))
}

func (h *ApplicationHandler) Back(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	wc, err := h.service.Back(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewApplicationResponse(wc, h.tillNumber))
}

func (h *ApplicationHandler) Record(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	record, err := h.service.LatestRecord(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewLoanRecordResponse(record))
}
