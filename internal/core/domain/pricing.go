package domain

import "math"

// ComputeTotal derives a booking's total from a base amount (minor currency
// units) and a tax rate in percent. Pure and deterministic; the tax portion is
// rounded half-away-from-zero to the minor unit. Negative inputs are rejected.
func ComputeTotal(baseAmount int64, taxRatePercent float64) (int64, error) {
	if baseAmount < 0 || taxRatePercent < 0 {
		return 0, ErrValidation
	}
	tax := int64(math.Round(float64(baseAmount) * taxRatePercent / 100))
	return baseAmount + tax, nil
}
