package quote

import (
	"fmt"
	"math/rand"

	"loan-portal/internal/pkg/apperrors"

	"github.com/shopspring/decimal"
)

const (
	MinSavingsPercent = 1.0
	MaxSavingsPercent = 3.0

	// MinSavings is the floor applied to every computed contribution.
	MinSavings int64 = 100

	savingsJitter = 1.0
)

// RandomSource yields uniformly distributed values in [0, 1).
// *math/rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// DefaultSource draws from the math/rand top-level generator, which is safe
// for concurrent use.
var DefaultSource RandomSource = globalSource{}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// SavingsPlan memoizes the savings contribution per requested amount for one
// session. Values are treated as immutable: every operation returns a copy.
type SavingsPlan map[int64]int64

func (p SavingsPlan) Lookup(amount int64) (int64, bool) {
	v, ok := p[amount]
	return v, ok
}

func (p SavingsPlan) with(amount, savings int64) SavingsPlan {
	next := make(SavingsPlan, len(p)+1)
	for k, v := range p {
		next[k] = v
	}
	next[amount] = savings
	return next
}

// ComputeSavings returns the savings contribution for amount. An amount
// already present in plan is returned as is, without consuming randomness;
// otherwise a fresh value is rolled and returned together with a new plan
// holding it. plan itself is never modified.
func ComputeSavings(amount int64, plan SavingsPlan, rnd RandomSource) (int64, SavingsPlan, error) {
	if amount <= 0 {
		return 0, plan, fmt.Errorf("%w: amount must be positive, got %d", apperrors.ErrInvalidArgument, amount)
	}
	if v, ok := plan.Lookup(amount); ok {
		return v, plan, nil
	}
	if rnd == nil {
		return 0, plan, fmt.Errorf("%w: random source is required", apperrors.ErrInvalidArgument)
	}

	variation := (rnd.Float64() - 0.5) * savingsJitter
	percent := clamp(baseSavingsPercent(amount)+variation, MinSavingsPercent, MaxSavingsPercent)

	savings := SavingsFor(amount, percent)
	return savings, plan.with(amount, savings), nil
}

// SavingsFor applies a final percent to amount: floor(amount*percent/100),
// never less than MinSavings.
func SavingsFor(amount int64, percent float64) int64 {
	raw := decimal.NewFromInt(amount).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
	if raw < MinSavings {
		return MinSavings
	}
	return raw
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
