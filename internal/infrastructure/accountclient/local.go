package accountclient

import (
	"context"
	"fmt"
	"log/slog"

	"loan-portal/internal/domain/customer"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/pkg/apperrors"
)

var (
	_ onboarding.AccountCreator = (*Registry)(nil)
	_ onboarding.AccountCreator = (*Disabled)(nil)
)

// Registry creates accounts through the in-process account service, used when
// this instance owns the users table and no remote endpoint is configured.
type Registry struct {
	accounts customer.AccountService
	logger   *slog.Logger
}

func NewRegistry(accounts customer.AccountService, logger *slog.Logger) *Registry {
	if accounts == nil {
		panic("account service cannot be nil")
	}
	return &Registry{accounts: accounts, logger: logger.With("component", "AccountRegistry")}
}

func (r *Registry) CreateAccount(ctx context.Context, req onboarding.AccountRequest) error {
	acc, err := r.accounts.CreateAccount(ctx, customer.NewAccount{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		IDNumber:   req.IDNumber,
		Phone:      req.Phone,
		PIN:        req.PIN,
		SignupDate: req.SignupDate,
	})
	if err != nil {
		r.logger.WarnContext(ctx, "Account registry rejected request", slog.String("phone", req.Phone), slog.Any("error", err))
		return fmt.Errorf("%w: %w", apperrors.ErrAccountCreationFailed, err)
	}
	r.logger.InfoContext(ctx, "Account created", slog.Int64("accountID", acc.AccountID))
	return nil
}

// Disabled accepts every request without creating an account. It stands in
// when neither an endpoint nor a database is configured.
type Disabled struct {
	logger *slog.Logger
}

func NewDisabled(logger *slog.Logger) *Disabled {
	return &Disabled{logger: logger.With("component", "AccountRegistry")}
}

func (d *Disabled) CreateAccount(ctx context.Context, req onboarding.AccountRequest) error {
	d.logger.WarnContext(ctx, "Account creation disabled, skipping registry call", slog.String("phone", req.Phone))
	return nil
}
