package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/config"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/pkg/apperrors"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 24 * time.Hour

// AuthHandler serves sign-up, sign-in and sign-out. A successful sign-up or
// sign-in returns a bearer token whose subject is the phone number.
type AuthHandler struct {
	service onboarding.OnboardingService
	cfg     config.AuthConfig
	now     func() time.Time
	logger  *slog.Logger
}

func NewAuthHandler(svc onboarding.OnboardingService, cfg config.AuthConfig, logger *slog.Logger) *AuthHandler {
	if svc == nil {
		panic("onboarding service cannot be nil")
	}
	return &AuthHandler{
		service: svc,
		cfg:     cfg,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "AuthHandler")),
	}
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req dto.SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	profile, err := h.service.SignUp(r.Context(), req.ToDomain())
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountCreationFailed) {
			h.logger.WarnContext(r.Context(), "Sign-up stored locally but account creation failed", slog.String("phone", profile.Phone))
		}
		respondError(w, err)
		return
	}

	resp, err := h.issueToken(profile.Phone)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, err)
		return
	}
	p := dto.NewProfileResponse(profile)
	resp.Profile = &p
	respondJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req dto.SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.SignIn(r.Context(), req.Phone, req.PIN); err != nil {
		respondError(w, err)
		return
	}

	resp, err := h.issueToken(strings.TrimSpace(req.Phone))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	owner, err := requireOwner(r)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.service.SignOut(r.Context(), owner); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) issueToken(phone string) (dto.TokenResponse, error) {
	ttl := h.cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := h.now()
	expiresAt := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Subject:   phone,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return dto.TokenResponse{}, fmt.Errorf("%w: failed to sign token: %v", apperrors.ErrInternalServer, err)
	}
	return dto.TokenResponse{Token: signed, ExpiresAt: expiresAt.UTC()}, nil
}
