package customer

import (
	"strings"
	"time"

	"loan-portal/internal/pkg/apperrors"
)

// Account is a row of the users table.
type Account struct {
	AccountID  int64     `json:"accountId"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	IDNumber   string    `json:"idNumber"`
	Phone      string    `json:"phone"`
	PIN        string    `json:"-"`
	SignupDate time.Time `json:"signupDate"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NewAccount struct {
	FirstName  string
	LastName   string
	IDNumber   string
	Phone      string
	PIN        string
	SignupDate time.Time
}

func (n NewAccount) normalized() NewAccount {
	n.FirstName = strings.TrimSpace(n.FirstName)
	n.LastName = strings.TrimSpace(n.LastName)
	n.IDNumber = strings.TrimSpace(n.IDNumber)
	n.Phone = strings.TrimSpace(n.Phone)
	return n
}

func (n NewAccount) Validate() error {
	switch {
	case n.FirstName == "":
		return apperrors.NewValidationError("firstName", "first name is required")
	case n.LastName == "":
		return apperrors.NewValidationError("lastName", "last name is required")
	case n.IDNumber == "":
		return apperrors.NewValidationError("idNumber", "ID number is required")
	case n.Phone == "":
		return apperrors.NewValidationError("phone", "phone is required")
	case n.PIN == "":
		return apperrors.NewValidationError("pin", "PIN is required")
	}
	return nil
}

func newAccount(n NewAccount, now time.Time) *Account {
	signup := n.SignupDate
	if signup.IsZero() {
		signup = now
	}
	return &Account{
		FirstName:  n.FirstName,
		LastName:   n.LastName,
		IDNumber:   n.IDNumber,
		Phone:      n.Phone,
		PIN:        n.PIN,
		SignupDate: signup.UTC(),
	}
}
