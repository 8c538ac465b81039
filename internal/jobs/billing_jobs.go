package jobs

import (
	"context"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/utils"
)

// MarkPastDueSubscriptions moves active organizations whose billing period
// has lapsed to past_due. past_due does not block logins; it starts the
// grace clock.
func (jr *JobRunner) MarkPastDueSubscriptions() {
	jr.runWithRecovery("MarkPastDueSubscriptions", func() {
		ctx := context.Background()
		now := time.Now().UTC()

		orgs, err := jr.orgRepo.ListByStatus(ctx, domain.SubscriptionActive)
		if err != nil {
			logger.Error("Failed to list active organizations", "error", err)
			return
		}

		marked := 0
		for i := range orgs {
			org := orgs[i]
			if org.CurrentPeriodEnd.After(now) {
				continue
			}
			org.SubscriptionStatus = domain.SubscriptionPastDue
			if err := jr.orgRepo.Update(ctx, &org); err != nil {
				logger.Error("Failed to mark organization past due",
					"org_id", org.ID,
					"org_name", org.Name,
					"error", err)
				continue
			}
			marked++
			logger.Info("Organization marked past due",
				"org_id", org.ID,
				"period_end", org.CurrentPeriodEnd)
		}

		logger.Info("Completed past-due sweep", "marked", marked)
	})
}

// ExpirePastDueSubscriptions expires past_due organizations once the grace
// period after the missed billing date runs out. Expired organizations
// cannot log in until an administrator reactivates them.
func (jr *JobRunner) ExpirePastDueSubscriptions() {
	jr.runWithRecovery("ExpirePastDueSubscriptions", func() {
		ctx := context.Background()
		cutoff := time.Now().UTC().AddDate(0, 0, -jr.config.Billing.GraceDays)

		orgs, err := jr.orgRepo.ListByStatus(ctx, domain.SubscriptionPastDue)
		if err != nil {
			logger.Error("Failed to list past-due organizations", "error", err)
			return
		}

		expired := 0
		for i := range orgs {
			org := orgs[i]
			if org.CurrentPeriodEnd.After(cutoff) {
				continue
			}
			org.SubscriptionStatus = domain.SubscriptionExpired
			if err := jr.orgRepo.Update(ctx, &org); err != nil {
				logger.Error("Failed to expire organization",
					"org_id", org.ID,
					"org_name", org.Name,
					"error", err)
				continue
			}
			expired++

			if err := jr.email.SendStatusNotification(ctx, org.BillingEmail, "", org.Name, domain.SubscriptionExpired); err != nil {
				logger.Warn("Failed to send expiry notification", "org_id", org.ID, "error", err)
			}
		}

		logger.Info("Completed expiry sweep", "expired", expired, "grace_days", jr.config.Billing.GraceDays)
	})
}

// SendPaymentReminders emails the billing contact of every past_due
// organization.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func() {
		ctx := context.Background()

		orgs, err := jr.orgRepo.ListByStatus(ctx, domain.SubscriptionPastDue)
		if err != nil {
			logger.Error("Failed to list past-due organizations", "error", err)
			return
		}

		sent := 0
		for i := range orgs {
			org := orgs[i]
			amount := utils.MonthlyPriceCents(org.SubscriptionPlan)
			if err := jr.email.SendPaymentReminder(ctx, org.BillingEmail, "", org.Name, amount); err != nil {
				logger.Error("Failed to send payment reminder",
					"org_id", org.ID,
					"billing_email", org.BillingEmail,
					"error", err)
				continue
			}
			sent++
		}

		logger.Info("Completed payment reminders", "sent", sent)
	})
}
