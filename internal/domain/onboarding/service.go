package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-portal/internal/domain/application"
	"loan-portal/internal/pkg/apperrors"
)

// Repository is the session-scoped storage for onboarding state. Loads of
// missing keys return apperrors.ErrNotFound.
type Repository interface {
	SaveProfile(ctx context.Context, profile Profile) error
	LoadProfile(ctx context.Context, phone string) (Profile, error)
	SetAuthenticated(ctx context.Context, phone string) error
	ClearAuthenticated(ctx context.Context, phone string) error
	IsAuthenticated(ctx context.Context, phone string) (bool, error)
	SaveKYC(ctx context.Context, phone string, kyc KYCProfile) error
	LoadKYC(ctx context.Context, phone string) (KYCProfile, error)
	LoadLoanRecord(ctx context.Context, owner string) (*application.LoanRecord, error)
}

// AccountCreator registers the new user with the account registry.
type AccountCreator interface {
	CreateAccount(ctx context.Context, req AccountRequest) error
}

type OnboardingService interface {
	SignUp(ctx context.Context, req SignUpRequest) (Profile, error)
	SignIn(ctx context.Context, phone, pin string) error
	SignOut(ctx context.Context, phone string) error
	SaveKYC(ctx context.Context, phone string, kyc KYCProfile) (KYCProfile, error)
	GetKYC(ctx context.Context, phone string) (KYCProfile, error)
	Summary(ctx context.Context, phone string) (Summary, error)
}

var _ OnboardingService = (*onboardingService)(nil)

type onboardingService struct {
	repo     Repository
	accounts AccountCreator
	now      func() time.Time
	logger   *slog.Logger
}

func NewOnboardingService(repo Repository, accounts AccountCreator, logger *slog.Logger) OnboardingService {
	if repo == nil || accounts == nil || logger == nil {
		panic("onboarding service dependencies cannot be nil")
	}
	return &onboardingService{
		repo:     repo,
		accounts: accounts,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "onboardingService")),
	}
}

// SignUp stores the profile and marks the phone authenticated before asking
// the registry to create the account. A registry failure leaves the local
// state in place so the user can retry.
func (s *onboardingService) SignUp(ctx context.Context, req SignUpRequest) (Profile, error) {
	req = req.trimmed()
	if err := req.Validate(); err != nil {
		return Profile{}, err
	}

	logCtx := s.logger.With(slog.String("phone", req.Phone))
	signupDate := s.now().UTC()
	profile := Profile{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		IDNumber:   req.IDNumber,
		Phone:      req.Phone,
		SignupDate: signupDate,
	}

	if err := s.repo.SaveProfile(ctx, profile); err != nil {
		logCtx.ErrorContext(ctx, "Failed to save profile", slog.Any("error", err))
		return Profile{}, fmt.Errorf("failed to save profile: %w", err)
	}
	if err := s.repo.SetAuthenticated(ctx, req.Phone); err != nil {
		logCtx.ErrorContext(ctx, "Failed to mark session authenticated", slog.Any("error", err))
		return Profile{}, fmt.Errorf("failed to save session: %w", err)
	}

	err := s.accounts.CreateAccount(ctx, AccountRequest{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		IDNumber:   req.IDNumber,
		Phone:      req.Phone,
		PIN:        req.PIN,
		SignupDate: signupDate,
	})
	if err != nil {
		logCtx.ErrorContext(ctx, "Account creation failed", slog.Any("error", err))
		if errors.Is(err, apperrors.ErrAccountCreationFailed) {
			return profile, fmt.Errorf("%s: %w", msgAccountFailed, err)
		}
		return profile, fmt.Errorf("%w: %s: %w", apperrors.ErrAccountCreationFailed, msgAccountFailed, err)
	}

	logCtx.InfoContext(ctx, "User signed up")
	return profile, nil
}

// SignIn only checks that both credentials are present.
func (s *onboardingService) SignIn(ctx context.Context, phone, pin string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || pin == "" {
		return apperrors.NewValidationError("credentials", msgMissingCredentials)
	}
	if err := s.repo.SetAuthenticated(ctx, phone); err != nil {
		s.logger.ErrorContext(ctx, "Failed to mark session authenticated", slog.String("phone", phone), slog.Any("error", err))
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.logger.InfoContext(ctx, "User signed in", slog.String("phone", phone))
	return nil
}

func (s *onboardingService) SignOut(ctx context.Context, phone string) error {
	if err := s.repo.ClearAuthenticated(ctx, phone); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear session", slog.String("phone", phone), slog.Any("error", err))
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.logger.InfoContext(ctx, "User signed out", slog.String("phone", phone))
	return nil
}

func (s *onboardingService) SaveKYC(ctx context.Context, phone string, kyc KYCProfile) (KYCProfile, error) {
	if err := kyc.Validate(); err != nil {
		return KYCProfile{}, err
	}
	kyc.Completed = true

	if err := s.repo.SaveKYC(ctx, phone, kyc); err != nil {
		s.logger.ErrorContext(ctx, "Failed to save KYC", slog.String("phone", phone), slog.Any("error", err))
		return KYCProfile{}, fmt.Errorf("failed to save KYC: %w", err)
	}
	s.logger.InfoContext(ctx, "KYC completed", slog.String("phone", phone))
	return kyc, nil
}

func (s *onboardingService) GetKYC(ctx context.Context, phone string) (KYCProfile, error) {
	kyc, err := s.repo.LoadKYC(ctx, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return KYCProfile{}, fmt.Errorf("%w: no KYC details on file", apperrors.ErrNotFound)
		}
		return KYCProfile{}, fmt.Errorf("failed to load KYC: %w", err)
	}
	return kyc, nil
}

// Summary assembles the dashboard view. Missing profile, KYC or loan data
// fall back to defaults rather than failing.
func (s *onboardingService) Summary(ctx context.Context, phone string) (Summary, error) {
	summary := Summary{Profile: Profile{Phone: phone}}

	profile, err := s.repo.LoadProfile(ctx, phone)
	switch {
	case err == nil:
		summary.Profile = profile
	case !errors.Is(err, apperrors.ErrNotFound):
		return Summary{}, fmt.Errorf("failed to load profile: %w", err)
	}

	var kycPtr *KYCProfile
	kyc, err := s.repo.LoadKYC(ctx, phone)
	switch {
	case err == nil:
		kycPtr = &kyc
	case !errors.Is(err, apperrors.ErrNotFound):
		return Summary{}, fmt.Errorf("failed to load KYC: %w", err)
	}

	record, err := s.repo.LoadLoanRecord(ctx, phone)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return Summary{}, fmt.Errorf("failed to load loan record: %w", err)
	}

	summary.CreditScore = CreditScore(kycPtr)
	summary.CreditRating = CreditRating(summary.CreditScore)
	summary.EligibleAmount = EligibleAmount(kycPtr)
	summary.KYCCompleted = kycPtr != nil && kycPtr.Completed
	summary.Loan = record
	summary.LoanStatus = LoanStatusLabel(record)
	return summary, nil
}
