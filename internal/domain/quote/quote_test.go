package quote

import (
	"errors"
	"math/rand"
	"testing"

	"loan-portal/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSource struct {
	values []float64
	calls  int
}

func (f *fixedSource) Float64() float64 {
	v := f.values[f.calls%len(f.values)]
	f.calls++
	return v
}

func TestBaseSavingsPercent(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		want   float64
	}{
		{"below every threshold", 3_000, DefaultBaseSavingsPercent},
		{"exact smallest entry", 5_000, 2.5},
		{"between entries takes lower threshold", 27_000, 2.0},
		{"highest qualifying threshold wins", 45_000, 1.8},
		{"exact popular entry", 25_000, 2.0},
		{"top of catalog", 200_000, 1.0},
		{"above catalog", 500_000, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, baseSavingsPercent(tt.amount))
		})
	}
}

func TestCatalog(t *testing.T) {
	options := Catalog()
	require.Len(t, options, 12)
	assert.Equal(t, MinLoanAmount, options[0].Amount)
	assert.Equal(t, MaxLoanAmount, options[len(options)-1].Amount)

	popular := 0
	for _, opt := range options {
		if opt.Popular {
			popular++
			assert.Equal(t, int64(25_000), opt.Amount)
		}
	}
	assert.Equal(t, 1, popular)

	options[0].Amount = 1
	assert.Equal(t, MinLoanAmount, Catalog()[0].Amount, "catalog must not be mutable through the copy")
}

func TestComputeSavings(t *testing.T) {
	t.Run("midpoint roll uses base percent", func(t *testing.T) {
		savings, plan, err := ComputeSavings(25_000, SavingsPlan{}, &fixedSource{values: []float64{0.5}})
		require.NoError(t, err)
		assert.Equal(t, int64(500), savings)
		assert.Equal(t, int64(500), plan[25_000])
	})

	t.Run("maximum jitter stays within the upper bound", func(t *testing.T) {
		savings, _, err := ComputeSavings(10_000, nil, &fixedSource{values: []float64{0.999999}})
		require.NoError(t, err)
		assert.LessOrEqual(t, savings, int64(300))
		assert.GreaterOrEqual(t, savings, int64(299))
	})

	t.Run("percent is clamped to the lower bound", func(t *testing.T) {
		savings, _, err := ComputeSavings(200_000, nil, &fixedSource{values: []float64{0}})
		require.NoError(t, err)
		assert.Equal(t, int64(2_000), savings)
	})

	t.Run("minimum savings floor", func(t *testing.T) {
		savings, _, err := ComputeSavings(1_000, nil, &fixedSource{values: []float64{0}})
		require.NoError(t, err)
		assert.Equal(t, MinSavings, savings)
	})

	t.Run("memoized amount does not consume randomness", func(t *testing.T) {
		src := &fixedSource{values: []float64{0.9}}
		first, plan, err := ComputeSavings(40_000, SavingsPlan{}, src)
		require.NoError(t, err)

		second, plan2, err := ComputeSavings(40_000, plan, src)
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, src.calls)
		assert.Equal(t, plan, plan2)
	})

	t.Run("input plan is never modified", func(t *testing.T) {
		original := SavingsPlan{5_000: 120}
		_, next, err := ComputeSavings(10_000, original, &fixedSource{values: []float64{0.5}})
		require.NoError(t, err)
		assert.Len(t, original, 1)
		assert.Len(t, next, 2)
	})

	t.Run("non-positive amount is rejected", func(t *testing.T) {
		_, _, err := ComputeSavings(0, nil, &fixedSource{values: []float64{0.5}})
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	})

	t.Run("missing random source is rejected for new amounts", func(t *testing.T) {
		_, _, err := ComputeSavings(5_000, nil, nil)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
	})
}

func TestComputeSavingsBoundsForCatalog(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	for _, opt := range Catalog() {
		for i := 0; i < 50; i++ {
			savings, _, err := ComputeSavings(opt.Amount, nil, rnd)
			require.NoError(t, err)

			lower := SavingsFor(opt.Amount, MinSavingsPercent)
			upper := SavingsFor(opt.Amount, MaxSavingsPercent)
			assert.GreaterOrEqual(t, savings, lower, "amount %d", opt.Amount)
			assert.LessOrEqual(t, savings, upper, "amount %d", opt.Amount)
			assert.GreaterOrEqual(t, savings, MinSavings)
		}
	}
}

func TestPopularAmountIsStableWithinSession(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	s, plan, err := ComputeSavings(25_000, SavingsPlan{}, rnd)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, s, int64(100))
	assert.LessOrEqual(t, s, int64(750))

	again, _, err := ComputeSavings(25_000, plan, rnd)
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestComputeRepayment(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		period      int
		wantTotal   int64
		wantMonthly int64
	}{
		{"three months", 10_000, 3, 13_600, 4_533},
		{"one month", 5_000, 1, 5_750, 5_750},
		{"six months", 20_000, 6, 32_000, 5_333},
		{"twelve months", 100_000, 12, 196_000, 16_333},
		{"truncates fractional interest", 5_001, 3, 6_801, 2_267},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ComputeRepayment(tt.amount, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, r.TotalRepayment)
			assert.Equal(t, tt.wantMonthly, r.MonthlyInstallment)
		})
	}
}

func TestComputeRepaymentInvalidPeriod(t *testing.T) {
	_, err := ComputeRepayment(10_000, 2)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriod))
}

func TestPeriods(t *testing.T) {
	assert.Equal(t, []int{1, 3, 6, 12}, Periods())

	prev := int64(100)
	for _, p := range Periods() {
		rate, err := InterestRate(p)
		require.NoError(t, err)
		assert.Less(t, rate, prev)
		prev = rate
	}
}

func TestCompute(t *testing.T) {
	q, plan, err := Compute(25_000, 3, nil, &fixedSource{values: []float64{0.5}})
	require.NoError(t, err)
	assert.Equal(t, int64(500), q.SavingsAmount)
	assert.Equal(t, int64(34_000), q.TotalRepayment)
	assert.Equal(t, int64(500), plan[25_000])

	_, _, err = Compute(25_000, 4, nil, &fixedSource{values: []float64{0.5}})
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPeriod))
}
