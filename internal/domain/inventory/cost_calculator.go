package inventory

import "github.com/shopspring/decimal"

// CostCalculator implements weighted-average cost (domain service).
// newCost = ((currentStock * currentCost) + (inQty * inCost)) / (currentStock + inQty)
func CostCalculator(currentStock, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := currentStock.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := currentStock.Mul(currentCost).Add(inQty.Mul(inCost))
	return num.Div(sum)
}
