package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/domain/quote"
	"loan-portal/internal/pkg/apperrors"
)

var (
	_ application.Repository = (*SessionRepository)(nil)
	_ onboarding.Repository  = (*SessionRepository)(nil)
)

// SessionRepository maps the per-owner session values onto JSON documents in
// a Store. Misses surface as apperrors.ErrNotFound; every other store or
// encoding failure is wrapped with apperrors.ErrPersistence.
type SessionRepository struct {
	store  Store
	logger *slog.Logger
}

func NewSessionRepository(store Store, logger *slog.Logger) *SessionRepository {
	if store == nil {
		panic("session store cannot be nil")
	}
	return &SessionRepository{
		store:  store,
		logger: logger.With("component", "SessionRepository"),
	}
}

func (r *SessionRepository) load(ctx context.Context, owner, name string, dest any) error {
	key := SessionKey(owner, name)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		r.logger.ErrorContext(ctx, "Store read failed", slog.String("key", key), slog.Any("error", err))
		return apperrors.WrapPersistenceError(err, "read "+name)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		r.logger.ErrorContext(ctx, "Corrupt session value", slog.String("key", key), slog.Any("error", err))
		return apperrors.WrapPersistenceError(err, "decode "+name)
	}
	return nil
}

func (r *SessionRepository) save(ctx context.Context, owner, name string, value any) error {
	key := SessionKey(owner, name)
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.WrapPersistenceError(err, "encode "+name)
	}
	if err := r.store.Set(ctx, key, raw); err != nil {
		r.logger.ErrorContext(ctx, "Store write failed", slog.String("key", key), slog.Any("error", err))
		return apperrors.WrapPersistenceError(err, "write "+name)
	}
	return nil
}

func (r *SessionRepository) delete(ctx context.Context, owner, name string) error {
	key := SessionKey(owner, name)
	if err := r.store.Delete(ctx, key); err != nil {
		r.logger.ErrorContext(ctx, "Store delete failed", slog.String("key", key), slog.Any("error", err))
		return apperrors.WrapPersistenceError(err, "delete "+name)
	}
	return nil
}

func (r *SessionRepository) LoadWorkflow(ctx context.Context, owner string) (application.WorkflowContext, error) {
	var wc application.WorkflowContext
	if err := r.load(ctx, owner, keyDraft, &wc); err != nil {
		return application.WorkflowContext{}, err
	}
	return wc, nil
}

func (r *SessionRepository) SaveWorkflow(ctx context.Context, wc application.WorkflowContext) error {
	if wc.Owner == "" {
		return fmt.Errorf("%w: workflow owner is required", apperrors.ErrInvalidArgument)
	}
	return r.save(ctx, wc.Owner, keyDraft, wc)
}

// LoadSavingsPlan returns an empty plan when none has been stored yet.
func (r *SessionRepository) LoadSavingsPlan(ctx context.Context, owner string) (quote.SavingsPlan, error) {
	return r.addSavings(ctx, owner, nil)
}

// SaveSavingsPlan stores the amounts of plan that are not memoized yet, one
// hash field per amount, and returns the plan as stored.
func (r *SessionRepository) SaveSavingsPlan(ctx context.Context, owner string, plan quote.SavingsPlan) (quote.SavingsPlan, error) {
	fields := make(map[string]string, len(plan))
	for amount, savings := range plan {
		fields[strconv.FormatInt(amount, 10)] = strconv.FormatInt(savings, 10)
	}
	return r.addSavings(ctx, owner, fields)
}

func (r *SessionRepository) addSavings(ctx context.Context, owner string, fields map[string]string) (quote.SavingsPlan, error) {
	key := SessionKey(owner, keySavingsPlan)
	stored, err := r.store.AddFields(ctx, key, fields)
	if err != nil {
		r.logger.ErrorContext(ctx, "Store hash write failed", slog.String("key", key), slog.Any("error", err))
		return nil, apperrors.WrapPersistenceError(err, "write "+keySavingsPlan)
	}

	plan := make(quote.SavingsPlan, len(stored))
	for f, v := range stored {
		amount, aErr := strconv.ParseInt(f, 10, 64)
		savings, sErr := strconv.ParseInt(v, 10, 64)
		if err := errors.Join(aErr, sErr); err != nil {
			r.logger.ErrorContext(ctx, "Corrupt savings plan entry", slog.String("key", key), slog.String("field", f), slog.Any("error", err))
			return nil, apperrors.WrapPersistenceError(err, "decode "+keySavingsPlan)
		}
		plan[amount] = savings
	}
	return plan, nil
}

func (r *SessionRepository) LoadLoanRecord(ctx context.Context, owner string) (*application.LoanRecord, error) {
	var rec application.LoanRecord
	if err := r.load(ctx, owner, keyLoanData, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *SessionRepository) SaveLoanRecord(ctx context.Context, owner string, record application.LoanRecord) error {
	return r.save(ctx, owner, keyLoanData, record)
}

func (r *SessionRepository) SaveProfile(ctx context.Context, profile onboarding.Profile) error {
	if profile.Phone == "" {
		return fmt.Errorf("%w: profile phone is required", apperrors.ErrInvalidArgument)
	}
	return r.save(ctx, profile.Phone, keyUserData, profile)
}

func (r *SessionRepository) LoadProfile(ctx context.Context, phone string) (onboarding.Profile, error) {
	var p onboarding.Profile
	if err := r.load(ctx, phone, keyUserData, &p); err != nil {
		return onboarding.Profile{}, err
	}
	return p, nil
}

func (r *SessionRepository) SetAuthenticated(ctx context.Context, phone string) error {
	return r.save(ctx, phone, keyIsAuthenticated, true)
}

func (r *SessionRepository) ClearAuthenticated(ctx context.Context, phone string) error {
	return r.delete(ctx, phone, keyIsAuthenticated)
}

func (r *SessionRepository) IsAuthenticated(ctx context.Context, phone string) (bool, error) {
	var ok bool
	if err := r.load(ctx, phone, keyIsAuthenticated, &ok); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

func (r *SessionRepository) SaveKYC(ctx context.Context, phone string, kyc onboarding.KYCProfile) error {
	return r.save(ctx, phone, keyKYCData, kyc)
}

func (r *SessionRepository) LoadKYC(ctx context.Context, phone string) (onboarding.KYCProfile, error) {
	var k onboarding.KYCProfile
	if err := r.load(ctx, phone, keyKYCData, &k); err != nil {
		return onboarding.KYCProfile{}, err
	}
	return k, nil
}
