package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/domain/customer"

	"github.com/go-chi/chi/v5"
)

// AccountHandler is the server side of the sign-up account registration.
type AccountHandler struct {
	service customer.AccountService
	logger  *slog.Logger
}

func NewAccountHandler(svc customer.AccountService, logger *slog.Logger) *AccountHandler {
	if svc == nil {
		panic("account service cannot be nil")
	}
	return &AccountHandler{
		service: svc,
		logger:  logger.With(slog.String("component", "AccountHandler")),
	}
}

func (h *AccountHandler) SaveUser(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, err)
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req.ToDomain())
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to save user", slog.String("phone", req.Phone), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.SaveUserResponse{
		Success:   true,
		AccountID: strconv.FormatInt(account.AccountID, 10),
	})
}

func (h *AccountHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.GetAccountByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewAccountResponse(account))
}
