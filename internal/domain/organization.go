package domain

import "time"

type SubscriptionPlan string

const (
	PlanBasic      SubscriptionPlan = "basic"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPastDue   SubscriptionStatus = "past_due"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// PlanDetails describes a purchasable tier.
type PlanDetails struct {
	Name              string
	MonthlyPriceCents int32
	SeatLimit         int32
}

var Plans = map[SubscriptionPlan]PlanDetails{
	PlanBasic:      {Name: "Basic", MonthlyPriceCents: 4900, SeatLimit: 5},
	PlanPro:        {Name: "Professional", MonthlyPriceCents: 14900, SeatLimit: 20},
	PlanEnterprise: {Name: "Enterprise", MonthlyPriceCents: 39900, SeatLimit: 100},
}

// SeatLimitFor resolves the seat allowance for a plan. Unknown plans fall
// back to the basic allowance.
func SeatLimitFor(plan SubscriptionPlan) int32 {
	if d, ok := Plans[plan]; ok {
		return d.SeatLimit
	}
	return Plans[PlanBasic].SeatLimit
}

type Organization struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	BillingEmail       string             `json:"billing_email"`
	SubscriptionPlan   SubscriptionPlan   `json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	SeatLimit          int32              `json:"seat_limit"`
	UsedSeats          int32              `json:"used_seats"`
	BillingCountry     string             `json:"billing_country"`
	BillingAddress1    string             `json:"billing_address1"`
	BillingAddress2    string             `json:"billing_address2"`
	BillingCity        string             `json:"billing_city"`
	BillingState       string             `json:"billing_state"`
	BillingPostcode    string             `json:"billing_postcode"`
	TaxID              string             `json:"tax_id"`
	Currency           string             `json:"currency"`
	Timezone           string             `json:"timezone"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	CreatedOn          time.Time          `json:"created_on"`
}

// License is the activation summary returned to the buyer after onboarding.
// It is presentation data; the organization row is the source of truth.
type License struct {
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
	MaxUsers  int32     `json:"max_users"`
}
