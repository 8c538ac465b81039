package utils

import (
	"fmt"

	"erp-subscription-backend/internal/domain"
)

// FormatCents renders an integer cent amount as a dollar string for emails
// and logs. Amounts in this system are always positive.
func FormatCents(amountCents int32) string {
	return fmt.Sprintf("$%.2f", float64(amountCents)/100)
}

// MonthlyPriceCents returns the monthly price for a plan. Unknown plans fall
// back to the basic price, the same fallback the seat limit uses.
func MonthlyPriceCents(plan domain.SubscriptionPlan) int32 {
	if d, ok := domain.Plans[plan]; ok {
		return d.MonthlyPriceCents
	}
	return domain.Plans[domain.PlanBasic].MonthlyPriceCents
}

// AnnualPriceCents is the simple twelve-month total; there is no annual
// discount.
func AnnualPriceCents(plan domain.SubscriptionPlan) int32 {
	return MonthlyPriceCents(plan) * 12
}
