package entity

import "github.com/shopspring/decimal"

// QuantityScale decimales que persiste el libro para cantidades y precios (NUMERIC(18, 4)).
const QuantityScale = 4

// FitsScale indica si d se guarda sin redondeo con QuantityScale decimales.
func FitsScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(QuantityScale))
}
