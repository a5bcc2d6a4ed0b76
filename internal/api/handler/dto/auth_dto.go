package dto

import (
	"time"

	"loan-portal/internal/domain/onboarding"
)

type SignUpRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	IDNumber   string `json:"idNumber"`
	Phone      string `json:"phone"`
	PIN        string `json:"pin"`
	ConfirmPIN string `json:"confirmPin"`
}

func (r SignUpRequest) ToDomain() onboarding.SignUpRequest {
	return onboarding.SignUpRequest{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		IDNumber:   r.IDNumber,
		Phone:      r.Phone,
		PIN:        r.PIN,
		ConfirmPIN: r.ConfirmPIN,
	}
}

type SignInRequest struct {
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
}

type ProfileResponse struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IDNumber   string    `json:"idNumber"`
	Phone      string    `json:"phone"`
	SignupDate time.Time `json:"signupDate,omitempty"`
}

func NewProfileResponse(p onboarding.Profile) ProfileResponse {
	return ProfileResponse{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		IDNumber:   p.IDNumber,
		Phone:      p.Phone,
		SignupDate: p.SignupDate,
	}
}

type TokenResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expiresAt"`
	Profile   *ProfileResponse `json:"profile,omitempty"`
}
