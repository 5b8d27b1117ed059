// Package money converts between the two monetary representations of the
// system: decimal pesos at the API boundary and int64 centavos everywhere
// else. All arithmetic on balances happens in centavos — decimals exist only
// at the edge.
package money

import "github.com/shopspring/decimal"

var cien = decimal.NewFromInt(100)

// ACentavos converts a major-unit decimal amount (pesos) to centavos,
// rounding half away from zero: 150.505 → 15051.
func ACentavos(pesos decimal.Decimal) int64 {
	return pesos.Mul(cien).Round(0).IntPart()
}

// APesos converts centavos back to a major-unit decimal amount.
func APesos(centavos int64) decimal.Decimal {
	return decimal.NewFromInt(centavos).Div(cien)
}
