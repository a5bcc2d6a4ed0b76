package application

import (
	"fmt"
	"time"

	"loan-portal/internal/domain/quote"
)

type RecordStatus string

const (
	StatusPending  RecordStatus = "Pending"
	StatusApproved RecordStatus = "Approved"
	StatusRejected RecordStatus = "Rejected"
)

// LoanRecord is the immutable result of a submitted application. Once built
// it is owned by the record sink.
type LoanRecord struct {
	ID                    string             `json:"id"`
	Owner                 string             `json:"owner"`
	GuarantorName         string             `json:"guarantorName"`
	GuarantorPhone        string             `json:"guarantorPhone"`
	LoanPurpose           Purpose            `json:"loanPurpose"`
	LoanAmount            int64              `json:"loanAmount"`
	RepaymentPeriodMonths int                `json:"repaymentPeriod"`
	SavingsAmount         int64              `json:"savingsAmount"`
	InterestRate          int64              `json:"interestRate"`
	TotalRepayment        int64              `json:"totalRepayment"`
	MonthlyInstallment    int64              `json:"monthlyInstallment"`
	VerificationStatus    VerificationStatus `json:"verificationStatus"`
	Status                RecordStatus       `json:"status"`
	ApplicationDate       time.Time          `json:"applicationDate"`
}

func newLoanRecord(id, owner string, d Draft, appliedAt time.Time) (LoanRecord, error) {
	repayment, err := quote.ComputeRepayment(d.EffectiveAmount(), d.RepaymentPeriodMonths)
	if err != nil {
		return LoanRecord{}, fmt.Errorf("failed to price application: %w", err)
	}
	return LoanRecord{
		ID:                    id,
		Owner:                 owner,
		GuarantorName:         d.GuarantorName,
		GuarantorPhone:        d.GuarantorPhone,
		LoanPurpose:           d.LoanPurpose,
		LoanAmount:            d.EffectiveAmount(),
		RepaymentPeriodMonths: d.RepaymentPeriodMonths,
		SavingsAmount:         d.SavingsAmount,
		InterestRate:          repayment.InterestRatePercent,
		TotalRepayment:        repayment.TotalRepayment,
		MonthlyInstallment:    repayment.MonthlyInstallment,
		VerificationStatus:    d.VerificationStatus,
		Status:                StatusPending,
		ApplicationDate:       appliedAt,
	}, nil
}
