package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"loan-portal/internal/api/handler"
	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOnboardingRouter(svc *MockOnboardingService) http.Handler {
	h := handler.NewOnboardingHandler(svc, logger)
	return newRouter(func(r chi.Router) {
		r.Put("/kyc", h.SaveKYC)
		r.Get("/kyc", h.GetKYC)
		r.Get("/dashboard", h.Dashboard)
	})
}

func kycBody() dto.KYCRequest {
	return dto.KYCRequest{
		EducationLevel:        "degree",
		County:                "Nairobi",
		EmploymentType:        "employed",
		MonthlyIncome:         60000,
		NextOfKinName:         "Baraka Otieno",
		NextOfKinPhone:        "0711111111",
		NextOfKinRelationship: "sibling",
	}
}

func TestOnboardingHandler_SaveKYC(t *testing.T) {
	t.Run("stores the completed questionnaire", func(t *testing.T) {
		svc := new(MockOnboardingService)
		saved := kycBody().ToDomain()
		saved.Completed = true
		svc.On("SaveKYC", mock.Anything, owner, kycBody().ToDomain()).Return(saved, nil).Once()

		rec := serve(newOnboardingRouter(svc), newRequest(t, http.MethodPut, "/kyc", kycBody()))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[dto.KYCResponse](t, rec)
		assert.True(t, resp.Completed)
		assert.Equal(t, []int{0, 1, 2}, resp.CompletedSections)
		svc.AssertExpectations(t)
	})

	t.Run("reports the first incomplete section", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("SaveKYC", mock.Anything, owner, mock.Anything).
			Return(nil, apperrors.NewValidationError("employment", "Please fill all employment details")).Once()

		body := kycBody()
		body.MonthlyIncome = 0
		rec := serve(newOnboardingRouter(svc), newRequest(t, http.MethodPut, "/kyc", body))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, "employment", detail.Field)
		assert.Equal(t, "Please fill all employment details", detail.Message)
	})
}

func TestOnboardingHandler_GetKYC(t *testing.T) {
	svc := new(MockOnboardingService)
	svc.On("GetKYC", mock.Anything, owner).
		Return(nil, fmt.Errorf("%w: no KYC details on file", apperrors.ErrNotFound)).Once()

	rec := serve(newOnboardingRouter(svc), newRequest(t, http.MethodGet, "/kyc", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOnboardingHandler_Dashboard(t *testing.T) {
	t.Run("renders the summary", func(t *testing.T) {
		svc := new(MockOnboardingService)
		summary := onboarding.Summary{
			Profile:        onboarding.Profile{FirstName: "Amina", LastName: "Otieno", Phone: owner},
			CreditScore:    662,
			CreditRating:   "Good",
			EligibleAmount: 180000,
			LoanStatus:     "Under review",
			KYCCompleted:   true,
			Loan:           &application.LoanRecord{ID: "rec-1", Status: application.StatusPending},
		}
		svc.On("Summary", mock.Anything, owner).Return(summary, nil).Once()

		rec := serve(newOnboardingRouter(svc), newRequest(t, http.MethodGet, "/dashboard", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[dto.DashboardResponse](t, rec)
		assert.Equal(t, "Amina Otieno", resp.FullName)
		assert.Equal(t, 662, resp.CreditScore)
		assert.Equal(t, "Good", resp.CreditRating)
		assert.Equal(t, int64(180000), resp.EligibleAmount)
		require.NotNil(t, resp.Loan)
		assert.Equal(t, "rec-1", resp.Loan.ID)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("Summary", mock.Anything, owner).
			Return(nil, apperrors.WrapPersistenceError(assert.AnError, "read failed")).Once()

		rec := serve(newOnboardingRouter(svc), newRequest(t, http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
