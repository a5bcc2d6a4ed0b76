package quote

const (
	MinLoanAmount int64 = 5_000
	MaxLoanAmount int64 = 200_000

	// DefaultBaseSavingsPercent applies to amounts below the smallest catalog entry.
	DefaultBaseSavingsPercent = 2.5
)

type LoanOption struct {
	Amount             int64
	BaseSavingsPercent float64
	Popular            bool
}

var catalog = []LoanOption{
	{Amount: 5_000, BaseSavingsPercent: 2.5},
	{Amount: 10_000, BaseSavingsPercent: 2.5},
	{Amount: 15_000, BaseSavingsPercent: 2.5},
	{Amount: 20_000, BaseSavingsPercent: 2.0},
	{Amount: 25_000, BaseSavingsPercent: 2.0, Popular: true},
	{Amount: 30_000, BaseSavingsPercent: 2.0},
	{Amount: 40_000, BaseSavingsPercent: 1.8},
	{Amount: 50_000, BaseSavingsPercent: 1.8},
	{Amount: 75_000, BaseSavingsPercent: 1.5},
	{Amount: 100_000, BaseSavingsPercent: 1.5},
	{Amount: 150_000, BaseSavingsPercent: 1.2},
	{Amount: 200_000, BaseSavingsPercent: 1.0},
}

// Catalog returns a copy of the loan options in ascending amount order.
func Catalog() []LoanOption {
	out := make([]LoanOption, len(catalog))
	copy(out, catalog)
	return out
}

// IsCatalogAmount reports whether amount is one of the fixed catalog choices.
func IsCatalogAmount(amount int64) bool {
	for _, opt := range catalog {
		if opt.Amount == amount {
			return true
		}
	}
	return false
}

// InRange reports whether amount lies within the accepted principal bounds.
func InRange(amount int64) bool {
	return amount >= MinLoanAmount && amount <= MaxLoanAmount
}

// baseSavingsPercent picks the highest catalog threshold not exceeding amount.
func baseSavingsPercent(amount int64) float64 {
	percent := DefaultBaseSavingsPercent
	for _, opt := range catalog {
		if opt.Amount > amount {
			break
		}
		percent = opt.BaseSavingsPercent
	}
	return percent
}
