package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loan-portal/internal/domain/quote"
	"loan-portal/internal/domain/verification"
	"loan-portal/internal/event"
	"loan-portal/internal/infrastructure/monitoring"
	"loan-portal/internal/pkg/apperrors"
)

// Repository is the session-scoped persistence the service needs. Loads of
// missing keys return apperrors.ErrNotFound, except LoadSavingsPlan which
// yields an empty plan. SaveSavingsPlan only adds amounts that are not stored
// yet and returns the plan as stored: a memoized amount keeps its first value.
type Repository interface {
	LoadWorkflow(ctx context.Context, owner string) (WorkflowContext, error)
	SaveWorkflow(ctx context.Context, wc WorkflowContext) error
	LoadSavingsPlan(ctx context.Context, owner string) (quote.SavingsPlan, error)
	SaveSavingsPlan(ctx context.Context, owner string, plan quote.SavingsPlan) (quote.SavingsPlan, error)
	LoadLoanRecord(ctx context.Context, owner string) (*LoanRecord, error)
	RecordSink
}

type CatalogEntry struct {
	quote.LoanOption
	// SavingsAmount is set once the amount has been quoted in this session.
	SavingsAmount *int64
}

type ApplicationService interface {
	Start(ctx context.Context, owner string) (WorkflowContext, error)
	Current(ctx context.Context, owner string) (WorkflowContext, error)
	SetGuarantor(ctx context.Context, owner, name, phone string) (WorkflowContext, error)
	SelectLoan(ctx context.Context, owner string, sel LoanSelection) (WorkflowContext, error)
	VerifyPayment(ctx context.Context, owner, message string) (WorkflowContext, verification.Result, error)
	Next(ctx context.Context, owner string) (WorkflowContext, error)
	Back(ctx context.Context, owner string) (WorkflowContext, error)
	LatestRecord(ctx context.Context, owner string) (*LoanRecord, error)
	Quote(ctx context.Context, owner string, amount int64, periodMonths int) (quote.Quote, error)
	Catalog(ctx context.Context, owner string) ([]CatalogEntry, error)
}

var _ ApplicationService = (*applicationService)(nil)

type applicationService struct {
	repo      Repository
	workflow  *Workflow
	rnd       quote.RandomSource
	publisher event.EventPublisher
	locks     *ownerLocks
	logger    *slog.Logger
}

func NewApplicationService(repo Repository, workflow *Workflow, rnd quote.RandomSource, publisher event.EventPublisher, logger *slog.Logger) ApplicationService {
	if repo == nil || workflow == nil || publisher == nil || logger == nil {
		panic("application service dependencies cannot be nil")
	}
	if rnd == nil {
		rnd = quote.DefaultSource
	}
	return &applicationService{
		repo:      repo,
		workflow:  workflow,
		rnd:       rnd,
		publisher: publisher,
		locks:     newOwnerLocks(),
		logger:    logger.With(slog.String("component", "applicationService")),
	}
}

func (s *applicationService) Start(ctx context.Context, owner string) (WorkflowContext, error) {
	logCtx := s.logger.With(slog.String("owner", owner))
	logCtx.InfoContext(ctx, "Starting new loan application")

	unlock := s.locks.Lock(owner)
	defer unlock()

	wc := NewWorkflowContext(owner)
	if err := s.repo.SaveWorkflow(ctx, wc); err != nil {
		logCtx.ErrorContext(ctx, "Failed to save new application", slog.Any("error", err))
		return wc, fmt.Errorf("failed to start application: %w", err)
	}
	return wc, nil
}

func (s *applicationService) Current(ctx context.Context, owner string) (WorkflowContext, error) {
	wc, err := s.repo.LoadWorkflow(ctx, owner)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "No application in progress", slog.String("owner", owner))
			return WorkflowContext{}, fmt.Errorf("%w: no loan application in progress", apperrors.ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to load application", slog.String("owner", owner), slog.Any("error", err))
		return WorkflowContext{}, fmt.Errorf("failed to load application: %w", err)
	}
	return wc, nil
}

func (s *applicationService) SetGuarantor(ctx context.Context, owner, name, phone string) (WorkflowContext, error) {
	return s.apply(ctx, owner, "SetGuarantor", func(wc WorkflowContext) (WorkflowContext, error) {
		return wc.SetGuarantor(name, phone)
	})
}

func (s *applicationService) SelectLoan(ctx context.Context, owner string, sel LoanSelection) (WorkflowContext, error) {
	unlock := s.locks.Lock(owner)
	defer unlock()

	plan, err := s.repo.LoadSavingsPlan(ctx, owner)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load savings plan", slog.String("owner", owner), slog.Any("error", err))
		return WorkflowContext{}, fmt.Errorf("failed to load savings plan: %w", err)
	}

	return s.applyLocked(ctx, owner, "SelectLoan", func(wc WorkflowContext) (WorkflowContext, error) {
		next, nextPlan, err := wc.SelectLoan(sel, plan, s.rnd)
		if err != nil {
			return next, err
		}
		if len(nextPlan) != len(plan) {
			monitoring.RecordQuote(false)
			stored, saveErr := s.repo.SaveSavingsPlan(ctx, owner, nextPlan)
			if saveErr != nil {
				return wc, fmt.Errorf("failed to save savings plan: %w", saveErr)
			}
			if v, ok := stored.Lookup(next.Draft.EffectiveAmount()); ok && v != next.Draft.SavingsAmount {
				next.Draft.SavingsAmount = v
			}
		} else if next.Draft.EffectiveAmount() > 0 {
			monitoring.RecordQuote(true)
		}
		return next, nil
	})
}

func (s *applicationService) VerifyPayment(ctx context.Context, owner, message string) (WorkflowContext, verification.Result, error) {
	var result verification.Result
	wc, err := s.apply(ctx, owner, "VerifyPayment", func(wc WorkflowContext) (WorkflowContext, error) {
		next, res, err := wc.VerifyPayment(message)
		if err != nil {
			return next, err
		}
		result = res
		monitoring.RecordVerification(res.Verified())
		return next, nil
	})
	return wc, result, err
}

func (s *applicationService) Next(ctx context.Context, owner string) (WorkflowContext, error) {
	logCtx := s.logger.With(slog.String("owner", owner))

	var record *LoanRecord
	wc, err := s.apply(ctx, owner, "Next", func(wc WorkflowContext) (WorkflowContext, error) {
		submitting := wc.Step == StepPaymentVerification
		next, rec, err := s.workflow.Next(ctx, wc)
		if submitting {
			switch {
			case rec != nil:
				monitoring.RecordSubmission("success")
			case errors.Is(err, apperrors.ErrPersistence):
				monitoring.RecordSubmission("failure_persistence")
			case err != nil:
				monitoring.RecordSubmission("failure_validation")
			}
		}
		record = rec
		return next, err
	})

	if record != nil {
		s.publishSubmitted(ctx, *record)
		logCtx.InfoContext(ctx, "Application moved to submitted", slog.String("recordID", record.ID))
	}
	return wc, err
}

func (s *applicationService) Back(ctx context.Context, owner string) (WorkflowContext, error) {
	return s.apply(ctx, owner, "Back", func(wc WorkflowContext) (WorkflowContext, error) {
		return wc.Back()
	})
}

func (s *applicationService) LatestRecord(ctx context.Context, owner string) (*LoanRecord, error) {
	record, err := s.repo.LoadLoanRecord(ctx, owner)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no submitted loan application", apperrors.ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to load loan record", slog.String("owner", owner), slog.Any("error", err))
		return nil, fmt.Errorf("failed to load loan record: %w", err)
	}
	return record, nil
}

func (s *applicationService) Quote(ctx context.Context, owner string, amount int64, periodMonths int) (quote.Quote, error) {
	unlock := s.locks.Lock(owner)
	defer unlock()

	plan, err := s.repo.LoadSavingsPlan(ctx, owner)
	if err != nil {
		return quote.Quote{}, fmt.Errorf("failed to load savings plan: %w", err)
	}

	q, next, err := quote.Compute(amount, periodMonths, plan, s.rnd)
	if err != nil {
		return quote.Quote{}, err
	}

	_, memoized := plan.Lookup(amount)
	monitoring.RecordQuote(memoized)
	if !memoized {
		stored, err := s.repo.SaveSavingsPlan(ctx, owner, next)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to save savings plan", slog.String("owner", owner), slog.Any("error", err))
			return quote.Quote{}, fmt.Errorf("failed to save savings plan: %w", err)
		}
		if v, ok := stored.Lookup(amount); ok {
			q.SavingsAmount = v
		}
	}
	return q, nil
}

func (s *applicationService) Catalog(ctx context.Context, owner string) ([]CatalogEntry, error) {
	plan, err := s.repo.LoadSavingsPlan(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to load savings plan: %w", err)
	}

	options := quote.Catalog()
	entries := make([]CatalogEntry, len(options))
	for i, opt := range options {
		entries[i] = CatalogEntry{LoanOption: opt}
		if v, ok := plan.Lookup(opt.Amount); ok {
			entries[i].SavingsAmount = &v
		}
	}
	return entries, nil
}

// apply loads the owner's context, runs fn and persists whatever context fn
// returns, including one carrying a rejected action's message. The error of
// fn takes precedence over a save failure.
func (s *applicationService) apply(ctx context.Context, owner, op string, fn func(WorkflowContext) (WorkflowContext, error)) (WorkflowContext, error) {
	unlock := s.locks.Lock(owner)
	defer unlock()
	return s.applyLocked(ctx, owner, op, fn)
}

// applyLocked is apply for callers already holding the owner's lock.
func (s *applicationService) applyLocked(ctx context.Context, owner, op string, fn func(WorkflowContext) (WorkflowContext, error)) (WorkflowContext, error) {
	logCtx := s.logger.With(slog.String("owner", owner), slog.String("operation", op))

	wc, err := s.Current(ctx, owner)
	if err != nil {
		return WorkflowContext{}, err
	}

	next, opErr := fn(wc)
	if opErr != nil {
		logCtx.WarnContext(ctx, "Workflow action rejected", slog.String("step", wc.Step.String()), slog.Any("error", opErr))
	}

	if saveErr := s.repo.SaveWorkflow(ctx, next); saveErr != nil {
		logCtx.ErrorContext(ctx, "Failed to save application", slog.Any("error", saveErr))
		if opErr != nil {
			return next, opErr
		}
		return next, fmt.Errorf("failed to save application: %w", saveErr)
	}

	if opErr == nil {
		logCtx.InfoContext(ctx, "Workflow action applied", slog.String("step", next.Step.String()))
	}
	return next, opErr
}

func (s *applicationService) publishSubmitted(ctx context.Context, record LoanRecord) {
	evt := event.LoanApplicationSubmittedEvent{
		Timestamp: time.Now(),
		Payload:   NewLoanApplicationPayload(record),
	}
	if err := s.publisher.PublishLoanApplicationSubmitted(ctx, evt); err != nil {
		s.logger.ErrorContext(ctx, "Application submitted, but FAILED to publish event", slog.String("recordID", record.ID), slog.Any("error", err))
	}
}

func NewLoanApplicationPayload(record LoanRecord) event.LoanApplicationPayload {
	return event.LoanApplicationPayload{
		ApplicationID:      record.ID,
		Owner:              record.Owner,
		LoanPurpose:        string(record.LoanPurpose),
		LoanAmount:         record.LoanAmount,
		RepaymentPeriod:    record.RepaymentPeriodMonths,
		InterestRate:       record.InterestRate,
		SavingsAmount:      record.SavingsAmount,
		TotalRepayment:     record.TotalRepayment,
		MonthlyInstallment: record.MonthlyInstallment,
		Status:             string(record.Status),
		ApplicationDate:    record.ApplicationDate,
	}
}
