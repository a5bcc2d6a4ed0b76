package onboarding

import (
	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/quote"

	"github.com/shopspring/decimal"
)

const (
	DefaultCreditScore = 650
	baseCreditScore    = 600
	maxCreditScore     = 850
	maxIncomeScore     = 100
	incomeScoreDivisor = 5000
	employedScore      = 50
	otherEmployedScore = 30
	eligibilityFactor  = 3
)

const (
	LoanStatusNone        = "No active loan"
	LoanStatusUnderReview = "Under review"
	LoanStatusActive      = "Active"
)

type Summary struct {
	Profile        Profile                 `json:"profile"`
	CreditScore    int                     `json:"creditScore"`
	CreditRating   string                  `json:"creditRating"`
	EligibleAmount int64                   `json:"eligibleAmount"`
	LoanStatus     string                  `json:"loanStatus"`
	KYCCompleted   bool                    `json:"kycCompleted"`
	Loan           *application.LoanRecord `json:"loan,omitempty"`
}

// CreditScore is an indicative score: 600 plus one point per KES 5,000 of
// monthly income (at most 100) plus 50 for salaried employment or 30
// otherwise, capped at 850. Without a completed KYC it is 650.
func CreditScore(kyc *KYCProfile) int {
	if kyc == nil || !kyc.Completed {
		return DefaultCreditScore
	}
	income := kyc.MonthlyIncome / incomeScoreDivisor
	if income > maxIncomeScore {
		income = maxIncomeScore
	}
	if income < 0 {
		income = 0
	}
	employment := otherEmployedScore
	if kyc.EmploymentType == EmploymentEmployed {
		employment = employedScore
	}
	return min(baseCreditScore+int(income)+employment, maxCreditScore)
}

func CreditRating(score int) string {
	switch {
	case score > 700:
		return "Excellent"
	case score > 600:
		return "Good"
	default:
		return "Fair"
	}
}

// EligibleAmount is three months of income, capped at the maximum principal.
func EligibleAmount(kyc *KYCProfile) int64 {
	if kyc == nil || !kyc.Completed || kyc.MonthlyIncome <= 0 {
		return 0
	}
	eligible := decimal.NewFromInt(kyc.MonthlyIncome).Mul(decimal.NewFromInt(eligibilityFactor))
	return decimal.Min(eligible, decimal.NewFromInt(quote.MaxLoanAmount)).IntPart()
}

func LoanStatusLabel(record *application.LoanRecord) string {
	if record == nil {
		return LoanStatusNone
	}
	switch record.Status {
	case application.StatusPending:
		return LoanStatusUnderReview
	case application.StatusApproved:
		return LoanStatusActive
	default:
		return string(record.Status)
	}
}
