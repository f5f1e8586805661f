// Package quote holds the pure two-sided quote formulas. Both variants
// return bid < offer whenever the spread is positive.
package quote

import "math"

// Fixed centers a proportional spread around the reference price.
// baseSpread is a fraction of price (0.02 = 2%).
func Fixed(price, baseSpread float64) (bid, offer float64) {
	spread := price * baseSpread
	return price - spread/2, price + spread/2
}

// Skewed shifts the quote center as a function of inventory before applying
// the half-spread offsets. inventory is the dollar position (units * price),
// idealInventory the dollar level the desk is comfortable holding, and
// sensitivity how aggressively the desk leans. tanh saturates the raw
// skew so |center - price| stays strictly inside price*maxSkew no matter
// how extreme inventory gets, while remaining monotonic and continuous.
func Skewed(price, baseSpread, inventory, idealInventory, sensitivity, maxSkew float64) (bid, offer float64) {
	rawSkew := sensitivity * inventory / idealInventory
	skew := price * maxSkew * math.Tanh(rawSkew)
	spread := price * baseSpread
	return price + skew - spread/2, price + skew + spread/2
}
