package handler_test

import (
	"context"

	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/customer"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/domain/quote"
	"loan-portal/internal/domain/verification"

	"github.com/stretchr/testify/mock"
)

type MockApplicationService struct {
	mock.Mock
}

func (_m *MockApplicationService) workflow(ret mock.Arguments) (application.WorkflowContext, error) {
	var r0 application.WorkflowContext
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(application.WorkflowContext)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationService) Start(ctx context.Context, owner string) (application.WorkflowContext, error) {
	return _m.workflow(_m.Called(ctx, owner))
}

func (_m *MockApplicationService) Current(ctx context.Context, owner string) (application.WorkflowContext, error) {
	return _m.workflow(_m.Called(ctx, owner))
}

func (_m *MockApplicationService) SetGuarantor(ctx context.Context, owner, name, phone string) (application.WorkflowContext, error) {
	return _m.workflow(_m.Called(ctx, owner, name, phone))
}

func (_m *MockApplicationService) SelectLoan(ctx context.Context, owner string, sel application.LoanSelection) (application.WorkflowContext, error) {
	return _m.workflow(_m.Called(ctx, owner, sel))
}

func (_m *MockApplicationService) VerifyPayment(ctx context.Context, owner, message string) (application.WorkflowContext, verification.Result, error) {
	ret := _m.Called(ctx, owner, message)

	var r0 application.WorkflowContext
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(application.WorkflowContext)
	}
	var r1 verification.Result
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(verification.Result)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MockApplicationService) Next(ctx context.Context, owner string) (application.WorkflowContext, error) {
	return _m.workflow(_m.Called(ctx, owner))
}

func (_m *MockApplicationService) Back(ctx context.Context, owner string) (application.WorkflowContext, error) {
	return _m.workflow(_m.Called(ctx, owner))
}

func (_m *MockApplicationService) LatestRecord(ctx context.Context, owner string) (*application.LoanRecord, error) {
	ret := _m.Called(ctx, owner)

	var r0 *application.LoanRecord
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*application.LoanRecord)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationService) Quote(ctx context.Context, owner string, amount int64, periodMonths int) (quote.Quote, error) {
	ret := _m.Called(ctx, owner, amount, periodMonths)

	var r0 quote.Quote
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(quote.Quote)
	}
	return r0, ret.Error(1)
}

func (_m *MockApplicationService) Catalog(ctx context.Context, owner string) ([]application.CatalogEntry, error) {
	ret := _m.Called(ctx, owner)

	var r0 []application.CatalogEntry
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]application.CatalogEntry)
	}
	return r0, ret.Error(1)
}

type MockOnboardingService struct {
	mock.Mock
}

func (_m *MockOnboardingService) SignUp(ctx context.Context, req onboarding.SignUpRequest) (onboarding.Profile, error) {
	ret := _m.Called(ctx, req)

	var r0 onboarding.Profile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(onboarding.Profile)
	}
	return r0, ret.Error(1)
}

func (_m *MockOnboardingService) SignIn(ctx context.Context, phone, pin string) error {
	return _m.Called(ctx, phone, pin).Error(0)
}

func (_m *MockOnboardingService) SignOut(ctx context.Context, phone string) error {
	return _m.Called(ctx, phone).Error(0)
}

func (_m *MockOnboardingService) SaveKYC(ctx context.Context, phone string, kyc onboarding.KYCProfile) (onboarding.KYCProfile, error) {
	ret := _m.Called(ctx, phone, kyc)

	var r0 onboarding.KYCProfile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(onboarding.KYCProfile)
	}
	return r0, ret.Error(1)
}

func (_m *MockOnboardingService) GetKYC(ctx context.Context, phone string) (onboarding.KYCProfile, error) {
	ret := _m.Called(ctx, phone)

	var r0 onboarding.KYCProfile
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(onboarding.KYCProfile)
	}
	return r0, ret.Error(1)
}

func (_m *MockOnboardingService) Summary(ctx context.Context, phone string) (onboarding.Summary, error) {
	ret := _m.Called(ctx, phone)

	var r0 onboarding.Summary
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(onboarding.Summary)
	}
	return r0, ret.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (_m *MockAccountService) CreateAccount(ctx context.Context, req customer.NewAccount) (*customer.Account, error) {
	ret := _m.Called(ctx, req)

	var r0 *customer.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountService) GetAccountByPhone(ctx context.Context, phone string) (*customer.Account, error) {
	ret := _m.Called(ctx, phone)

	var r0 *customer.Account
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*customer.Account)
	}
	return r0, ret.Error(1)
}
