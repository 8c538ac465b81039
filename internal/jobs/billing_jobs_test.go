package jobs_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"erp-subscription-backend/internal/config"
	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/jobs"
	"erp-subscription-backend/internal/repository/memory"

	"github.com/stretchr/testify/assert"
)

// recordingEmail captures outbound mail instead of sending it.
type recordingEmail struct {
	mu        sync.Mutex
	statuses  []string
	reminders []int32
}

func (r *recordingEmail) SendSetupInvitation(ctx context.Context, email, name, orgName, setupURL string) error {
	return nil
}

func (r *recordingEmail) SendStatusNotification(ctx context.Context, email, name, orgName string, status domain.SubscriptionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, string(status))
	return nil
}

func (r *recordingEmail) SendPaymentReminder(ctx context.Context, email, name, orgName string, amountCents int32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reminders = append(r.reminders, amountCents)
	return nil
}

func jobsConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Billing.GraceDays = 14
	return cfg
}

func seedOrg(t *testing.T, store *memory.Store, name string, status domain.SubscriptionStatus, plan domain.SubscriptionPlan, periodEnd time.Time) *domain.Organization {
	t.Helper()
	org := &domain.Organization{
		Name:               name,
		BillingEmail:       name + "@acme.test",
		SubscriptionPlan:   plan,
		SubscriptionStatus: status,
		CurrentPeriodEnd:   periodEnd,
	}
	assert.NoError(t, store.Orgs().Create(context.Background(), org))
	return org
}

func TestMarkPastDueSubscriptions(t *testing.T) {
	store := memory.NewStore()
	email := &recordingEmail{}
	runner := jobs.NewJobRunner(store.Orgs(), store, email, jobsConfig())

	lapsed := seedOrg(t, store, "lapsed", domain.SubscriptionActive, domain.PlanBasic, time.Now().Add(-time.Hour))
	current := seedOrg(t, store, "current", domain.SubscriptionActive, domain.PlanBasic, time.Now().Add(24*time.Hour))

	runner.MarkPastDueSubscriptions()

	got, err := store.Orgs().GetByID(context.Background(), lapsed.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPastDue, got.SubscriptionStatus)

	got, err = store.Orgs().GetByID(context.Background(), current.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, got.SubscriptionStatus)
}

func TestExpirePastDueSubscriptions(t *testing.T) {
	store := memory.NewStore()
	email := &recordingEmail{}
	runner := jobs.NewJobRunner(store.Orgs(), store, email, jobsConfig())

	// Past the grace window.
	stale := seedOrg(t, store, "stale", domain.SubscriptionPastDue, domain.PlanBasic, time.Now().AddDate(0, 0, -20))
	// Still inside the grace window.
	fresh := seedOrg(t, store, "fresh", domain.SubscriptionPastDue, domain.PlanBasic, time.Now().AddDate(0, 0, -3))

	runner.ExpirePastDueSubscriptions()

	got, err := store.Orgs().GetByID(context.Background(), stale.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SubscriptionExpired, got.SubscriptionStatus)

	got, err = store.Orgs().GetByID(context.Background(), fresh.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.SubscriptionPastDue, got.SubscriptionStatus)

	assert.Equal(t, []string{"expired"}, email.statuses)
}

func TestSendPaymentReminders(t *testing.T) {
	store := memory.NewStore()
	email := &recordingEmail{}
	runner := jobs.NewJobRunner(store.Orgs(), store, email, jobsConfig())

	seedOrg(t, store, "late-basic", domain.SubscriptionPastDue, domain.PlanBasic, time.Now().AddDate(0, 0, -1))
	seedOrg(t, store, "late-pro", domain.SubscriptionPastDue, domain.PlanPro, time.Now().AddDate(0, 0, -1))
	seedOrg(t, store, "paid", domain.SubscriptionActive, domain.PlanBasic, time.Now().AddDate(0, 1, 0))

	runner.SendPaymentReminders()

	assert.Len(t, email.reminders, 2)
	assert.ElementsMatch(t, []int32{
		domain.Plans[domain.PlanBasic].MonthlyPriceCents,
		domain.Plans[domain.PlanPro].MonthlyPriceCents,
	}, email.reminders)
}
