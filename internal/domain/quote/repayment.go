package quote

import (
	"fmt"
	"sort"

	"loan-portal/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const DefaultRepaymentPeriod = 3

// interestRates maps repayment period in months to the monthly interest percent.
// Longer periods carry the lower percent.
var interestRates = map[int]int64{
	1:  15,
	3:  12,
	6:  10,
	12: 8,
}

type Repayment struct {
	Amount              int64
	PeriodMonths        int
	InterestRatePercent int64
	TotalRepayment      int64
	MonthlyInstallment  int64
}

// InterestRate returns the monthly interest percent for periodMonths.
func InterestRate(periodMonths int) (int64, error) {
	rate, ok := interestRates[periodMonths]
	if !ok {
		return 0, fmt.Errorf("%w: %d months is not one of %v", apperrors.ErrInvalidPeriod, periodMonths, Periods())
	}
	return rate, nil
}

// Periods lists the supported repayment periods in ascending order.
func Periods() []int {
	out := make([]int, 0, len(interestRates))
	for p := range interestRates {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// ComputeRepayment applies the rate table. All intermediate values are exact
// decimals and the results are truncated, never rounded.
func ComputeRepayment(amount int64, periodMonths int) (Repayment, error) {
	rate, err := InterestRate(periodMonths)
	if err != nil {
		return Repayment{}, err
	}
	if amount <= 0 {
		return Repayment{}, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrInvalidArgument, amount)
	}

	principal := decimal.NewFromInt(amount)
	periods := decimal.NewFromInt(int64(periodMonths))
	interest := principal.
		Mul(decimal.NewFromInt(rate)).
		Div(decimal.NewFromInt(100)).
		Mul(periods)

	total := principal.Add(interest).Floor()
	monthly := total.Div(periods).Floor()

	return Repayment{
		Amount:              amount,
		PeriodMonths:        periodMonths,
		InterestRatePercent: rate,
		TotalRepayment:      total.IntPart(),
		MonthlyInstallment:  monthly.IntPart(),
	}, nil
}

type Quote struct {
	Repayment
	SavingsAmount int64
}

// Compute combines the savings contribution and the repayment figures for a
// single amount and period.
func Compute(amount int64, periodMonths int, plan SavingsPlan, rnd RandomSource) (Quote, SavingsPlan, error) {
	repayment, err := ComputeRepayment(amount, periodMonths)
	if err != nil {
		return Quote{}, plan, err
	}
	savings, next, err := ComputeSavings(amount, plan, rnd)
	if err != nil {
		return Quote{}, plan, err
	}
	return Quote{Repayment: repayment, SavingsAmount: savings}, next, nil
}
