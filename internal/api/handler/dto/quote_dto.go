package dto

import (
	"loan-portal/internal/domain/application"
	"loan-portal/internal/domain/quote"
)

type LoanOptionResponse struct {
	Amount             int64   `json:"amount"`
	BaseSavingsPercent float64 `json:"baseSavingsPercent"`
	Popular            bool    `json:"popular"`
	SavingsAmount      *int64  `json:"savingsAmount,omitempty"`
}

type CatalogResponse struct {
	Options       []LoanOptionResponse `json:"options"`
	Periods       []PeriodResponse     `json:"periods"`
	Purposes      []string             `json:"purposes"`
	MinLoanAmount int64                `json:"minLoanAmount"`
	MaxLoanAmount int64                `json:"maxLoanAmount"`
}

type PeriodResponse struct {
	Months              int   `json:"months"`
	InterestRatePercent int64 `json:"interestRatePercent"`
}

func NewCatalogResponse(entries []application.CatalogEntry) CatalogResponse {
	resp := CatalogResponse{
		Options:       make([]LoanOptionResponse, 0, len(entries)),
		MinLoanAmount: quote.MinLoanAmount,
		MaxLoanAmount: quote.MaxLoanAmount,
	}
	for _, e := range entries {
		resp.Options = append(resp.Options, LoanOptionResponse{
			Amount:             e.Amount,
			BaseSavingsPercent: e.BaseSavingsPercent,
			Popular:            e.Popular,
			SavingsAmount:      e.SavingsAmount,
		})
	}
	for _, months := range quote.Periods() {
		rate, _ := quote.InterestRate(months)
		resp.Periods = append(resp.Periods, PeriodResponse{Months: months, InterestRatePercent: rate})
	}
	for _, p := range application.Purposes() {
		resp.Purposes = append(resp.Purposes, string(p))
	}
	return resp
}

type QuoteResponse struct {
	Amount              int64 `json:"amount"`
	PeriodMonths        int   `json:"repaymentPeriod"`
	InterestRatePercent int64 `json:"interestRate"`
	SavingsAmount       int64 `json:"savingsAmount"`
	TotalRepayment      int64 `json:"totalRepayment"`
	MonthlyInstallment  int64 `json:"monthlyInstallment"`
}

func NewQuoteResponse(q quote.Quote) QuoteResponse {
	return QuoteResponse{
		Amount:              q.Amount,
		PeriodMonths:        q.PeriodMonths,
		InterestRatePercent: q.InterestRatePercent,
		SavingsAmount:       q.SavingsAmount,
		TotalRepayment:      q.TotalRepayment,
		MonthlyInstallment:  q.MonthlyInstallment,
	}
}
