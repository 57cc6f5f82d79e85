package domain

import "github.com/shopspring/decimal"

// CheckUnitConversion enforces the pairing rule: base_unit_id and
// conversion_factor are a package, both set or both absent. The factor is
// stored but never applied; no code path converts quantities between units.
func CheckUnitConversion(baseUnitID *int64, factor *decimal.Decimal) *Error {
	if (baseUnitID == nil) != (factor == nil) {
		return Invalid("base_unit_id and conversion_factor must be provided together")
	}
	if factor != nil && factor.Sign() <= 0 {
		return Invalid("conversion_factor must be positive")
	}
	return nil
}
