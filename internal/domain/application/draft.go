package application

import (
	"fmt"
	"strings"

	"loan-portal/internal/domain/quote"
	"loan-portal/internal/pkg/apperrors"
)

type Purpose string

const (
	PurposeBusiness        Purpose = "business"
	PurposeEmergency       Purpose = "emergency"
	PurposeEducation       Purpose = "education"
	PurposeHealth          Purpose = "health"
	PurposeHomeImprovement Purpose = "home-improvement"
	PurposeOther           Purpose = "other"
)

var purposes = []Purpose{
	PurposeBusiness,
	PurposeEmergency,
	PurposeEducation,
	PurposeHealth,
	PurposeHomeImprovement,
	PurposeOther,
}

// Purposes lists the accepted loan purposes in display order.
func Purposes() []Purpose {
	out := make([]Purpose, len(purposes))
	copy(out, purposes)
	return out
}

// ParsePurpose accepts the purpose labels case-insensitively; "Home
// Improvement" and "home_improvement" both map to PurposeHomeImprovement.
func ParsePurpose(s string) (Purpose, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer(" ", "-", "_", "-").Replace(normalized)
	for _, p := range purposes {
		if string(p) == normalized {
			return p, nil
		}
	}
	return "", apperrors.NewValidationError("loanPurpose", fmt.Sprintf("unknown loan purpose %q", s))
}

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationVerified   VerificationStatus = "VERIFIED"
)

// Draft collects the fields entered across the application steps.
// LoanAmount holds a catalog choice and CustomAmount a typed-in amount; at
// most one of them is non-zero.
type Draft struct {
	GuarantorName         string             `json:"guarantorName"`
	GuarantorPhone        string             `json:"guarantorPhone"`
	LoanPurpose           Purpose            `json:"loanPurpose"`
	LoanAmount            int64              `json:"loanAmount"`
	CustomAmount          int64              `json:"customAmount"`
	RepaymentPeriodMonths int                `json:"repaymentPeriod"`
	SavingsAmount         int64              `json:"savingsAmount"`
	VerificationStatus    VerificationStatus `json:"verificationStatus"`
}

func NewDraft() Draft {
	return Draft{
		RepaymentPeriodMonths: quote.DefaultRepaymentPeriod,
		VerificationStatus:    VerificationUnverified,
	}
}

// EffectiveAmount is the custom amount when one was entered, otherwise the
// catalog selection.
func (d Draft) EffectiveAmount() int64 {
	if d.CustomAmount != 0 {
		return d.CustomAmount
	}
	return d.LoanAmount
}

func (d Draft) Verified() bool {
	return d.VerificationStatus == VerificationVerified
}
