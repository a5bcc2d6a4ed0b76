package dto

import (
	"strconv"
	"time"

	"loan-portal/internal/domain/customer"
)

// SaveUserRequest is the body of POST /api/save-user.
type SaveUserRequest struct {
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IDNumber   string    `json:"idNumber"`
	Phone      string    `json:"phone"`
	PIN        string    `json:"pin"`
	SignupDate time.Time `json:"signupDate"`
}

func (r SaveUserRequest) ToDomain() customer.NewAccount {
	return customer.NewAccount{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		IDNumber:   r.IDNumber,
		Phone:      r.Phone,
		PIN:        r.PIN,
		SignupDate: r.SignupDate,
	}
}

type SaveUserResponse struct {
	Success   bool   `json:"success"`
	AccountID string `json:"accountId,omitempty"`
}

type AccountResponse struct {
	AccountID  string    `json:"accountId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IDNumber   string    `json:"idNumber"`
	Phone      string    `json:"phone"`
	SignupDate time.Time `json:"signupDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

func NewAccountResponse(a *customer.Account) AccountResponse {
	return AccountResponse{
		AccountID:  strconv.FormatInt(a.AccountID, 10),
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		IDNumber:   a.IDNumber,
		Phone:      a.Phone,
		SignupDate: a.SignupDate,
		CreatedAt:  a.CreatedAt,
	}
}
