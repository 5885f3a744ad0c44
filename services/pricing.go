package services

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// FinalPrice computes the discounted unit price, rounded half-up to two
// fractional digits. Discount is a whole percentage in [0, 100].
func FinalPrice(unitPrice decimal.Decimal, discount int) decimal.Decimal {
	discountShare := decimal.NewFromInt(int64(discount)).Div(hundred)
	return unitPrice.Sub(unitPrice.Mul(discountShare)).Round(2)
}

// LineTotal multiplies a final price by an exact integer quantity. No further
// rounding: the final price already carries two fractional digits.
func LineTotal(finalPrice decimal.Decimal, quantity int) decimal.Decimal {
	return finalPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
