package event

import (
	"context"
	"log/slog"
	"time"
)

type LoanApplicationPayload struct {
	ApplicationID      string    `json:"applicationId"`
	Owner              string    `json:"owner"`
	LoanPurpose        string    `json:"loanPurpose"`
	LoanAmount         int64     `json:"loanAmount"`
	RepaymentPeriod    int       `json:"repaymentPeriod"`
	InterestRate       int64     `json:"interestRate"`
	SavingsAmount      int64     `json:"savingsAmount"`
	TotalRepayment     int64     `json:"totalRepayment"`
	MonthlyInstallment int64     `json:"monthlyInstallment"`
	Status             string    `json:"status"`
	ApplicationDate    time.Time `json:"applicationDate"`
}

type LoanApplicationSubmittedEvent struct {
	Timestamp time.Time              `json:"timestamp"`
	Payload   LoanApplicationPayload `json:"payload"`
}

type AccountPayload struct {
	AccountID  int64     `json:"accountId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Phone      string    `json:"phone"`
	SignupDate time.Time `json:"signupDate"`
}

type AccountCreatedEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Payload   AccountPayload `json:"payload"`
}

// LogPublisher stands in for the broker when RabbitMQ is disabled. Events
// are only logged.
type LogPublisher struct {
	logger *slog.Logger
}

var _ EventPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "LogPublisher")}
}

func (p *LogPublisher) PublishLoanApplicationSubmitted(ctx context.Context, event LoanApplicationSubmittedEvent) error {
	p.logger.InfoContext(ctx, "Event not forwarded to broker",
		slog.String("routingKey", routingKeyLoanApplicationSubmitted),
		slog.String("applicationID", event.Payload.ApplicationID))
	return nil
}

func (p *LogPublisher) PublishAccountCreated(ctx context.Context, event AccountCreatedEvent) error {
	p.logger.InfoContext(ctx, "Event not forwarded to broker",
		slog.String("routingKey", routingKeyAccountCreated),
		slog.Int64("accountID", event.Payload.AccountID))
	return nil
}
