package dto

import (
	"time"

	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/verification"
)

type GuarantorRequest struct {
	GuarantorName  string `json:"guarantorName"`
	GuarantorPhone string `json:"guarantorPhone"`
}

// LoanSelectionRequest carries the loan step choices. Omitted fields keep
// the current value.
type LoanSelectionRequest struct {
	LoanPurpose     string `json:"loanPurpose"`
	LoanAmount      int64  `json:"loanAmount"`
	CustomAmount    int64  `json:"customAmount"`
	RepaymentPeriod int    `json:"repaymentPeriod"`
}

func (r LoanSelectionRequest) ToDomain() application.LoanSelection {
	return application.LoanSelection{
		Purpose:      r.LoanPurpose,
		Amount:       r.LoanAmount,
		CustomAmount: r.CustomAmount,
		PeriodMonths: r.RepaymentPeriod,
	}
}

type VerificationRequest struct {
	Message string `json:"message"`
}

type DraftResponse struct {
	GuarantorName      string `json:"guarantorName"`
	GuarantorPhone     string `json:"guarantorPhone"`
	LoanPurpose        string `json:"loanPurpose"`
	LoanAmount         int64  `json:"loanAmount"`
	CustomAmount       int64  `json:"customAmount"`
	RepaymentPeriod    int    `json:"repaymentPeriod"`
	SavingsAmount      int64  `json:"savingsAmount"`
	VerificationStatus string `json:"verificationStatus"`
}

type ApplicationResponse struct {
	Step       int           `json:"step"`
	StepName   string        `json:"stepName"`
	Draft      DraftResponse `json:"draft"`
	Error      string        `json:"error,omitempty"`
	RecordID   string        `json:"recordId,omitempty"`
	TillNumber string        `json:"tillNumber,omitempty"`
}

// NewApplicationResponse renders wc. The till number is only shown while
// the payment step is active.
func NewApplicationResponse(wc application.WorkflowContext, tillNumber string) ApplicationResponse {
	d := wc.Draft
	resp := ApplicationResponse{
		Step:     int(wc.Step),
		StepName: wc.Step.String(),
		Draft: DraftResponse{
			GuarantorName:      d.GuarantorName,
			GuarantorPhone:     d.GuarantorPhone,
			LoanPurpose:        string(d.LoanPurpose),
			LoanAmount:         d.LoanAmount,
			CustomAmount:       d.CustomAmount,
			RepaymentPeriod:    d.RepaymentPeriodMonths,
			SavingsAmount:      d.SavingsAmount,
			VerificationStatus: string(d.VerificationStatus),
		},
		Error:    wc.Error,
		RecordID: wc.RecordID,
	}
	if wc.Step == application.StepPaymentVerification {
		resp.TillNumber = tillNumber
	}
	return resp
}

type VerificationResponse struct {
	Status      string              `json:"status"`
	Reason      string              `json:"reason,omitempty"`
	Application ApplicationResponse `json:"application"`
}

func NewVerificationResponse(res verification.Result, app ApplicationResponse) VerificationResponse {
	return VerificationResponse{
		Status:      string(res.Status),
		Reason:      res.Reason,
		Application: app,
	}
}

type LoanRecordResponse struct {
	ID                 string    `json:"id"`
	GuarantorName      string    `json:"guarantorName"`
	GuarantorPhone     string    `json:"guarantorPhone"`
	LoanPurpose        string    `json:"loanPurpose"`
	LoanAmount         int64     `json:"loanAmount"`
	RepaymentPeriod    int       `json:"repaymentPeriod"`
	SavingsAmount      int64     `json:"savingsAmount"`
	InterestRate       int64     `json:"interestRate"`
	TotalRepayment     int64     `json:"totalRepayment"`
	MonthlyInstallment int64     `json:"monthlyInstallment"`
	VerificationStatus string    `json:"verificationStatus"`
	Status             string    `json:"status"`
	ApplicationDate    time.Time `json:"applicationDate"`
}

func NewLoanRecordResponse(r *application.LoanRecord) *LoanRecordResponse {
	if r == nil {
		return nil
	}
	return &LoanRecordResponse{
		ID:                 r.ID,
		GuarantorName:      r.GuarantorName,
		GuarantorPhone:     r.GuarantorPhone,
		LoanPurpose:        string(r.LoanPurpose),
		LoanAmount:         r.LoanAmount,
		RepaymentPeriod:    r.RepaymentPeriodMonths,
		SavingsAmount:      r.SavingsAmount,
		InterestRate:       r.InterestRate,
		TotalRepayment:     r.TotalRepayment,
		MonthlyInstallment: r.MonthlyInstallment,
		VerificationStatus: string(r.VerificationStatus),
		Status:             string(r.Status),
		ApplicationDate:    r.ApplicationDate,
	}
}
