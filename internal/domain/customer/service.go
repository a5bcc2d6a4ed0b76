package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-portal/internal/event"
	"loan-portal/internal/infrastructure/monitoring"
	"loan-portal/internal/pkg/apperrors"
)

type AccountService interface {
	CreateAccount(ctx context.Context, req NewAccount) (*Account, error)
	GetAccountByPhone(ctx context.Context, phone string) (*Account, error)
}

var _ AccountService = (*accountService)(nil)

type accountService struct {
	repo   AccountRepository
	pub    event.EventPublisher
	now    func() time.Time
	logger *slog.Logger
}

func NewAccountService(repo AccountRepository, publisher event.EventPublisher, logger *slog.Logger) AccountService {
	if repo == nil {
		panic("account repository cannot be nil")
	}
	if publisher == nil {
		panic("event publisher cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &accountService{
		repo:   repo,
		pub:    publisher,
		now:    time.Now,
		logger: logger.With(slog.String("component", "accountService")),
	}
}

func NewAccountEventPayload(acc *Account) event.AccountPayload {
	if acc == nil {
		return event.AccountPayload{}
	}
	return event.AccountPayload{
		AccountID:  acc.AccountID,
		FirstName:  acc.FirstName,
		LastName:   acc.LastName,
		Phone:      acc.Phone,
		SignupDate: acc.SignupDate,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req NewAccount) (*Account, error) {
	req = req.normalized()
	logCtx := s.logger.With(slog.String("phone", req.Phone))
	logCtx.InfoContext(ctx, "Attempting to create account")

	if err := req.Validate(); err != nil {
		logCtx.WarnContext(ctx, "Validation failed", slog.Any("error", err))
		monitoring.RecordAccountCreation("invalid")
		return nil, err
	}

	acc := newAccount(req, s.now())
	if err := s.repo.Create(ctx, acc); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			logCtx.WarnContext(ctx, "Account already registered")
			monitoring.RecordAccountCreation("duplicate")
			return nil, fmt.Errorf("%w: account for phone %s", apperrors.ErrAlreadyExists, req.Phone)
		}
		logCtx.ErrorContext(ctx, "Repository failed to create account", slog.Any("error", err))
		monitoring.RecordAccountCreation("failure")
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	monitoring.RecordAccountCreation("success")

	logCtx = logCtx.With(slog.Int64("accountID", acc.AccountID))
	createdEvent := event.AccountCreatedEvent{
		Timestamp: s.now(),
		Payload:   NewAccountEventPayload(acc),
	}
	if pubErr := s.pub.PublishAccountCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Account created, but FAILED to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Successfully created account")
	return acc, nil
}

func (s *accountService) GetAccountByPhone(ctx context.Context, phone string) (*Account, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, apperrors.NewValidationError("phone", "phone is required")
	}

	acc, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "Account not found", slog.String("phone", phone))
			return nil, fmt.Errorf("%w: account for phone %s", apperrors.ErrNotFound, phone)
		}
		s.logger.ErrorContext(ctx, "Repository error finding account", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return acc, nil
}
