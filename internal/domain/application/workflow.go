package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"loan-portal/internal/domain/quote"
	"loan-portal/internal/domain/verification"
	"loan-portal/internal/pkg/apperrors"

	"github.com/google/uuid"
)

type Step int

const (
	StepGuarantorDetails Step = iota
	StepLoanSelection
	StepPaymentVerification
	StepSubmitted
)

func (s Step) String() string {
	switch s {
	case StepGuarantorDetails:
		return "GuarantorDetails"
	case StepLoanSelection:
		return "LoanSelection"
	case StepPaymentVerification:
		return "PaymentVerification"
	case StepSubmitted:
		return "Submitted"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

const (
	msgMissingGuarantor   = "missing guarantor fields"
	msgInvalidLoan        = "Please select a loan purpose and a valid loan amount (KES 5,000 - 200,000)."
	msgPaymentNotVerified = "payment not verified"
	msgSubmitFailed       = "Failed to submit application. Please try again."
)

// WorkflowContext is the state of one application attempt. It is a value:
// every transition returns a new context and leaves the receiver untouched.
// Error carries the message of the last rejected action for display and is
// cleared by Back and by successful transitions.
type WorkflowContext struct {
	Owner    string `json:"owner"`
	Step     Step   `json:"step"`
	Draft    Draft  `json:"draft"`
	Error    string `json:"error,omitempty"`
	RecordID string `json:"recordId,omitempty"`
}

func NewWorkflowContext(owner string) WorkflowContext {
	return WorkflowContext{
		Owner: owner,
		Step:  StepGuarantorDetails,
		Draft: NewDraft(),
	}
}

func (c WorkflowContext) Submitted() bool {
	return c.Step == StepSubmitted
}

func (c WorkflowContext) requireStep(want Step, op string) error {
	if c.Step != want {
		return fmt.Errorf("%w: %s is only allowed in %s, workflow is in %s",
			apperrors.ErrInvalidTransition, op, want, c.Step)
	}
	return nil
}

func (c WorkflowContext) withError(err error) WorkflowContext {
	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		c.Error = vErr.Message
	} else {
		c.Error = err.Error()
	}
	return c
}

// SetGuarantor records the guarantor details. Empty values are accepted here
// and rejected when advancing.
func (c WorkflowContext) SetGuarantor(name, phone string) (WorkflowContext, error) {
	if err := c.requireStep(StepGuarantorDetails, "SetGuarantor"); err != nil {
		return c, err
	}
	c.Draft.GuarantorName = strings.TrimSpace(name)
	c.Draft.GuarantorPhone = strings.TrimSpace(phone)
	return c, nil
}

type LoanSelection struct {
	Purpose      string
	Amount       int64
	CustomAmount int64
	PeriodMonths int
}

// SelectLoan applies the purpose, amount and period choices. Zero-valued
// fields leave the current choice in place. Choosing a catalog amount clears
// the custom amount and vice versa. The savings contribution is looked up in
// (or added to) plan, and a changed contribution resets verification.
func (c WorkflowContext) SelectLoan(sel LoanSelection, plan quote.SavingsPlan, rnd quote.RandomSource) (WorkflowContext, quote.SavingsPlan, error) {
	if err := c.requireStep(StepLoanSelection, "SelectLoan"); err != nil {
		return c, plan, err
	}

	if strings.TrimSpace(sel.Purpose) != "" {
		p, err := ParsePurpose(sel.Purpose)
		if err != nil {
			return c.withError(err), plan, err
		}
		c.Draft.LoanPurpose = p
	}

	if sel.PeriodMonths != 0 {
		if _, err := quote.InterestRate(sel.PeriodMonths); err != nil {
			return c.withError(err), plan, err
		}
		c.Draft.RepaymentPeriodMonths = sel.PeriodMonths
	}

	switch {
	case sel.Amount < 0 || sel.CustomAmount < 0:
		err := apperrors.NewValidationError("loanAmount", "loan amount cannot be negative")
		return c.withError(err), plan, err
	case sel.Amount > 0 && sel.CustomAmount > 0:
		err := apperrors.NewValidationError("loanAmount", "choose either a listed amount or a custom amount, not both")
		return c.withError(err), plan, err
	case sel.Amount > 0:
		if !quote.IsCatalogAmount(sel.Amount) {
			err := apperrors.NewValidationError("loanAmount", fmt.Sprintf("KES %d is not one of the listed amounts", sel.Amount))
			return c.withError(err), plan, err
		}
		c.Draft.LoanAmount = sel.Amount
		c.Draft.CustomAmount = 0
	case sel.CustomAmount > 0:
		c.Draft.CustomAmount = sel.CustomAmount
		c.Draft.LoanAmount = 0
	}

	if amount := c.Draft.EffectiveAmount(); amount > 0 {
		savings, next, err := quote.ComputeSavings(amount, plan, rnd)
		if err != nil {
			return c.withError(err), plan, err
		}
		if savings != c.Draft.SavingsAmount {
			c.Draft.SavingsAmount = savings
			c.Draft.VerificationStatus = VerificationUnverified
		}
		plan = next
	}

	return c, plan, nil
}

// VerifyPayment checks the pasted confirmation message against the savings
// amount. A failed check is not an error: it is reported in the result and
// recorded as the pending message, and the draft stays as it was.
func (c WorkflowContext) VerifyPayment(message string) (WorkflowContext, verification.Result, error) {
	if err := c.requireStep(StepPaymentVerification, "VerifyPayment"); err != nil {
		return c, verification.Result{}, err
	}

	result := verification.Verify(message, c.Draft.SavingsAmount)
	if !result.Verified() {
		c.Error = result.Reason
		return c, result, nil
	}
	c.Draft.VerificationStatus = VerificationVerified
	c.Error = ""
	return c, result, nil
}

// Advance moves from guarantor details to loan selection, or from loan
// selection to payment verification, after validating the current step.
// Leaving the payment step submits the application and is done by
// Workflow.Next.
func (c WorkflowContext) Advance() (WorkflowContext, error) {
	if err := c.validateStep(); err != nil {
		return c.withError(err), err
	}

	switch c.Step {
	case StepGuarantorDetails, StepLoanSelection:
		c.Step++
		c.Error = ""
		return c, nil
	default:
		return c, fmt.Errorf("%w: cannot advance from %s without submitting", apperrors.ErrInvalidTransition, c.Step)
	}
}

func (c WorkflowContext) validateStep() error {
	d := c.Draft
	switch c.Step {
	case StepGuarantorDetails:
		if d.GuarantorName == "" || d.GuarantorPhone == "" {
			return apperrors.NewValidationError("guarantor", msgMissingGuarantor)
		}
	case StepLoanSelection:
		if d.LoanPurpose == "" || d.EffectiveAmount() <= 0 {
			return apperrors.NewValidationError("loan", msgInvalidLoan)
		}
		if d.CustomAmount != 0 && !quote.InRange(d.CustomAmount) {
			return apperrors.NewValidationError("customAmount", msgInvalidLoan)
		}
	case StepPaymentVerification:
		if !d.Verified() {
			return apperrors.NewValidationError("verificationStatus", msgPaymentNotVerified)
		}
	case StepSubmitted:
		return fmt.Errorf("%w: application already submitted", apperrors.ErrInvalidTransition)
	}
	return nil
}

// Back returns to the previous step without validation.
func (c WorkflowContext) Back() (WorkflowContext, error) {
	if c.Step != StepLoanSelection && c.Step != StepPaymentVerification {
		return c, fmt.Errorf("%w: cannot go back from %s", apperrors.ErrInvalidTransition, c.Step)
	}
	c.Step--
	c.Error = ""
	return c, nil
}

// RecordSink receives finalized loan records.
type RecordSink interface {
	SaveLoanRecord(ctx context.Context, owner string, record LoanRecord) error
}

type Option func(*Workflow)

func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

func WithSleeper(sleep func(time.Duration)) Option {
	return func(w *Workflow) { w.sleep = sleep }
}

func WithIDGenerator(newID func() string) Option {
	return func(w *Workflow) { w.newID = newID }
}

// Workflow owns the side effect of the final transition: turning a verified
// draft into a LoanRecord and handing it to the sink.
type Workflow struct {
	sink        RecordSink
	submitDelay time.Duration
	now         func() time.Time
	sleep       func(time.Duration)
	newID       func() string
	logger      *slog.Logger
}

func NewWorkflow(sink RecordSink, submitDelay time.Duration, logger *slog.Logger, opts ...Option) *Workflow {
	if sink == nil {
		panic("record sink cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	w := &Workflow{
		sink:        sink,
		submitDelay: submitDelay,
		now:         time.Now,
		sleep:       time.Sleep,
		newID:       func() string { return uuid.New().String() },
		logger:      logger.With("component", "Workflow"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Next advances c by one step. From the payment step it submits: the
// returned record is non-nil only when the application reached Submitted.
func (w *Workflow) Next(ctx context.Context, c WorkflowContext) (WorkflowContext, *LoanRecord, error) {
	if c.Step != StepPaymentVerification {
		next, err := c.Advance()
		return next, nil, err
	}
	return w.submit(ctx, c)
}

func (w *Workflow) submit(ctx context.Context, c WorkflowContext) (WorkflowContext, *LoanRecord, error) {
	logCtx := w.logger.With(slog.String("owner", c.Owner))

	if err := c.validateStep(); err != nil {
		logCtx.WarnContext(ctx, "Submission rejected", slog.Any("error", err))
		return c.withError(err), nil, err
	}

	record, err := newLoanRecord(w.newID(), c.Owner, c.Draft, w.now())
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to build loan record", slog.Any("error", err))
		return c.withError(err), nil, err
	}

	// The simulated processing delay is not tied to ctx: an issued
	// submission runs to completion.
	if w.submitDelay > 0 {
		w.sleep(w.submitDelay)
	}

	if err := w.sink.SaveLoanRecord(ctx, c.Owner, record); err != nil {
		logCtx.ErrorContext(ctx, "Failed to persist loan record", slog.Any("error", err))
		c.Error = msgSubmitFailed
		if errors.Is(err, apperrors.ErrPersistence) {
			return c, nil, err
		}
		return c, nil, fmt.Errorf("%w: failed to save loan record: %w", apperrors.ErrPersistence, err)
	}

	c.Step = StepSubmitted
	c.Error = ""
	c.RecordID = record.ID
	logCtx.InfoContext(ctx, "Loan application submitted", slog.String("recordID", record.ID), slog.Int64("amount", record.LoanAmount))
	return c, &record, nil
}
