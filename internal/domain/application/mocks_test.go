package application

import (
	"context"

	"loan-portal/internal/domain/quote"
	"loan-portal/internal/event"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LoadWorkflow(ctx context.Context, owner string) (WorkflowContext, error) {
	args := m.Called(ctx, owner)
	if wc, ok := args.Get(0).(WorkflowContext); ok {
		return wc, args.Error(1)
	}
	return WorkflowContext{}, args.Error(1)
}

func (m *MockRepository) SaveWorkflow(ctx context.Context, wc WorkflowContext) error {
	args := m.Called(ctx, wc)
	return args.Error(0)
}

func (m *MockRepository) LoadSavingsPlan(ctx context.Context, owner string) (quote.SavingsPlan, error) {
	args := m.Called(ctx, owner)
	if plan, ok := args.Get(0).(quote.SavingsPlan); ok {
		return plan, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SaveSavingsPlan(ctx context.Context, owner string, plan quote.SavingsPlan) (quote.SavingsPlan, error) {
	args := m.Called(ctx, owner, plan)
	if stored, ok := args.Get(0).(quote.SavingsPlan); ok {
		return stored, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) LoadLoanRecord(ctx context.Context, owner string) (*LoanRecord, error) {
	args := m.Called(ctx, owner)
	if rec, ok := args.Get(0).(*LoanRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository) SaveLoanRecord(ctx context.Context, owner string, record LoanRecord) error {
	args := m.Called(ctx, owner, record)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLoanApplicationSubmitted(ctx context.Context, evt event.LoanApplicationSubmittedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func (m *MockPublisher) PublishAccountCreated(ctx context.Context, evt event.AccountCreatedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type constSource float64

func (c constSource) Float64() float64 { return float64(c) }
