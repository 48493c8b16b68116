// Package finance holds the money formulas shared by every component
// that derives margins, budgets or returns. Values stay float64.
package finance

import "math"

// Margin returns the gross margin percentage of a product.
// A non-positive price yields 0.
func Margin(cost, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return (price - cost) / price * 100
}

// MarketingBudget returns the monthly marketing budget given revenue and
// the share of revenue (in percent) spent on marketing.
func MarketingBudget(revenue, percent float64) float64 {
	return revenue * percent / 100
}

// ROI returns (revenue - cost) / cost, or 0 when nothing was spent.
func ROI(revenue, cost float64) float64 {
	if cost <= 0 {
		return 0
	}
	return (revenue - cost) / cost
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
