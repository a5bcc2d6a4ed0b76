package onboarding

import (
	"strings"
	"time"

	"loan-portal/internal/pkg/apperrors"
)

const MinPINLength = 4

const (
	msgFillAllFields      = "Please fill in all fields"
	msgPINMismatch        = "PINs do not match"
	msgPINTooShort        = "PIN must be at least 4 digits"
	msgMissingCredentials = "Please enter your phone number and PIN"
	msgAccountFailed      = "Failed to create account. Please try again."
)

// Profile is the locally kept identity of a signed-up user. The PIN is sent
// to the account registry and never stored in the session.
type Profile struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IDNumber   string    `json:"idNumber"`
	Phone      string    `json:"phone"`
	SignupDate time.Time `json:"signupDate"`
}

func (p Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type SignUpRequest struct {
	FirstName  string
	LastName   string
	IDNumber   string
	Phone      string
	PIN        string
	ConfirmPIN string
}

func (r SignUpRequest) trimmed() SignUpRequest {
	return SignUpRequest{
		FirstName:  strings.TrimSpace(r.FirstName),
		LastName:   strings.TrimSpace(r.LastName),
		IDNumber:   strings.TrimSpace(r.IDNumber),
		Phone:      strings.TrimSpace(r.Phone),
		PIN:        r.PIN,
		ConfirmPIN: r.ConfirmPIN,
	}
}

func (r SignUpRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" || r.IDNumber == "" || r.Phone == "" || r.PIN == "" || r.ConfirmPIN == "" {
		return apperrors.NewValidationError("signup", msgFillAllFields)
	}
	if r.PIN != r.ConfirmPIN {
		return apperrors.NewValidationError("confirmPin", msgPINMismatch)
	}
	if len(r.PIN) < MinPINLength {
		return apperrors.NewValidationError("pin", msgPINTooShort)
	}
	return nil
}

// AccountRequest is the payload handed to the account registry on sign-up.
type AccountRequest struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IDNumber   string    `json:"idNumber"`
	Phone      string    `json:"phone"`
	PIN        string    `json:"pin"`
	SignupDate time.Time `json:"signupDate"`
}
