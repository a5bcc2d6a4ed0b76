package handler

import (
	"log/slog"
	"net/http"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/domain/onboarding"
)

// OnboardingHandler serves the KYC questionnaire and the dashboard summary.
type OnboardingHandler struct {
	service onboarding.OnboardingService
	logger  *slog.Logger
}

func NewOnboardingHandler(svc onboarding.OnboardingService, logger *slog.Logger) *OnboardingHandler {
	if svc == nil {
		panic("onboarding service cannot be nil")
	}
	return &OnboardingHandler{
		service: svc,
		logger:  logger.With(slog.String("component", "OnboardingHandler")),
	}
}

func (h *OnboardingHandler) SaveKYC(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	var req dto.KYCRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}
	kyc, err := h.service.SaveKYC(r.Context(), owner, req.ToDomain())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewKYCResponse(kyc))
}

func (h *OnboardingHandler) GetKYC(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	kyc, err := h.service.GetKYC(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewKYCResponse(kyc))
}

func (h *OnboardingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	summary, err := h.service.Summary(r.Context(), owner)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewDashboardResponse(summary))
}
