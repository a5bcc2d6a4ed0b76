package handler_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"loan-portal/internal/api/handler"
	"loan-portal/internal/api/handler/dto"
	"loan-portal/internal/api/middleware"
	"loan-portal/internal/config"
	"loan-portal/internal/domain/onboarding"
	"loan-portal/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "test-secret"

func newAuthRouter(svc *MockOnboardingService) http.Handler {
	h := handler.NewAuthHandler(svc, config.AuthConfig{Enabled: true, JWTSecret: jwtSecret, TokenTTL: time.Hour}, logger)
	return newRouter(func(r chi.Router) {
		r.Post("/auth/signup", h.SignUp)
		r.Post("/auth/signin", h.SignIn)
		r.Post("/auth/signout", h.SignOut)
	})
}

func subjectOf(t *testing.T, token string) string {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(jwtSecret), nil })
	require.NoError(t, err)
	sub, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	return sub
}

func signUpBody() dto.SignUpRequest {
	return dto.SignUpRequest{
		FirstName:  "Amina",
		LastName:   "Otieno",
		IDNumber:   "12345678",
		Phone:      owner,
		PIN:        "1234",
		ConfirmPIN: "1234",
	}
}

func TestAuthHandler_SignUp(t *testing.T) {
	t.Run("issues a token for the phone", func(t *testing.T) {
		svc := new(MockOnboardingService)
		profile := onboarding.Profile{FirstName: "Amina", LastName: "Otieno", IDNumber: "12345678", Phone: owner}
		svc.On("SignUp", mock.Anything, signUpBody().ToDomain()).Return(profile, nil).Once()

		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signup", signUpBody()))

		require.Equal(t, http.StatusCreated, rec.Code)
		resp := decodeBody[dto.TokenResponse](t, rec)
		assert.Equal(t, owner, subjectOf(t, resp.Token))
		assert.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)
		require.NotNil(t, resp.Profile)
		assert.Equal(t, "Amina", resp.Profile.FirstName)
		svc.AssertExpectations(t)
	})

	t.Run("reports PIN mismatch", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("SignUp", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewValidationError("confirmPin", "PINs do not match")).Once()

		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signup", signUpBody()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, "PINs do not match", detail.Message)
		assert.Equal(t, "confirmPin", detail.Field)
	})

	t.Run("account registry failure is a bad gateway", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("SignUp", mock.Anything, mock.Anything).
			Return(onboarding.Profile{Phone: owner}, fmt.Errorf("%w: status 500", apperrors.ErrAccountCreationFailed)).Once()

		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signup", signUpBody()))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		detail := decodeError(t, rec)
		assert.Equal(t, "ACCOUNT_CREATION_FAILED", detail.Code)
		assert.Equal(t, "Failed to create account. Please try again.", detail.Message)
	})
}

func TestAuthHandler_SignIn(t *testing.T) {
	t.Run("issues a token", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("SignIn", mock.Anything, " "+owner, "1234").Return(nil).Once()

		body := dto.SignInRequest{Phone: " " + owner, PIN: "1234"}
		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signin", body))

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeBody[dto.TokenResponse](t, rec)
		assert.Equal(t, owner, subjectOf(t, resp.Token))
		assert.Nil(t, resp.Profile)
	})

	t.Run("missing credentials", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("SignIn", mock.Anything, "", "").
			Return(apperrors.NewValidationError("credentials", "Please enter your phone number and PIN")).Once()

		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signin", dto.SignInRequest{}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Please enter your phone number and PIN", decodeError(t, rec).Message)
	})

	t.Run("empty body", func(t *testing.T) {
		svc := new(MockOnboardingService)

		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signin", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SignIn", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_SignOut(t *testing.T) {
	t.Run("clears the session", func(t *testing.T) {
		svc := new(MockOnboardingService)
		svc.On("SignOut", mock.Anything, owner).Return(nil).Once()

		rec := serve(newAuthRouter(svc), newRequest(t, http.MethodPost, "/auth/signout", nil))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("requires an owner", func(t *testing.T) {
		svc := new(MockOnboardingService)
		req := newRequest(t, http.MethodPost, "/auth/signout", nil)
		req.Header.Del(middleware.OwnerHeader)

		rec := serve(newAuthRouter(svc), req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
