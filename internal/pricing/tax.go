package pricing

import "github.com/shopspring/decimal"

// ComputeTax applies rate to the pre-discount fee and rounds half-up to a whole unit.
func ComputeTax(fee int64, rate decimal.Decimal) int64 {
	return roundHalfUp(decimal.NewFromInt(fee).Mul(rate))
}

// ComputeTax uses the engine's configured rate.
func (e *Engine) ComputeTax(fee int64) int64 {
	return ComputeTax(fee, e.cfg.TaxRate)
}

// roundHalfUp rounds to the nearest integer, halves away from zero.
// Every amount the engine rounds is non-negative, so this is round-half-up.
func roundHalfUp(d decimal.Decimal) int64 {
	return d.Round(0).IntPart()
}
