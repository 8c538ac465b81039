package domain

// DraftStep identifies which wizard page submitted the draft. Each step
// validates only its own fields; navigating backward re-reads without
// validation.
type DraftStep string

const (
	DraftStepPlan    DraftStep = "plan"
	DraftStepDetails DraftStep = "details"
	DraftStepBilling DraftStep = "billing"
)

// SubscriptionDraft is the in-progress signup form. It is overwritten
// whole on every step submission (last-write-wins) and cleared when the
// orchestrator commits it. JSON tags follow the wire contract of the
// signup client.
type SubscriptionDraft struct {
	SelectedPlan     SubscriptionPlan `json:"selectedPlan"`
	OrganizationName string           `json:"organizationName"`
	BillingName      string           `json:"billingName"`
	BillingEmail     string           `json:"billingEmail"`
	AdminName        string           `json:"adminName"`
	AdminEmail       string           `json:"adminEmail"`
	SameEmail        bool             `json:"sameEmail"`
	BillingCountry   string           `json:"billingCountry"`
	BillingAddress1  string           `json:"billingAddress1"`
	BillingAddress2  string           `json:"billingAddress2"`
	BillingCity      string           `json:"billingCity"`
	BillingState     string           `json:"billingState"`
	BillingPostcode  string           `json:"billingPostcode"`
	TaxID            string           `json:"taxId"`
	DefaultCurrency  string           `json:"defaultCurrency"`
	DefaultTimezone  string           `json:"defaultTimezone"`
}

// CardDetails is the simulated payment instrument. Never persisted.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
	Name   string `json:"name"`
}
