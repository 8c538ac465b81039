package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/repository"
	"erp-subscription-backend/internal/utils"

	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type subscriptionService struct {
	userRepo   repository.UserRepository
	orgRepo    repository.OrganizationRepository
	draftRepo  repository.DraftRepository
	activation ActivationService
	payment    PaymentService
	email      EmailService
}

func NewSubscriptionService(
	userRepo repository.UserRepository,
	orgRepo repository.OrganizationRepository,
	draftRepo repository.DraftRepository,
	activation ActivationService,
	payment PaymentService,
	email EmailService,
) SubscriptionService {
	return &subscriptionService{
		userRepo:   userRepo,
		orgRepo:    orgRepo,
		draftRepo:  draftRepo,
		activation: activation,
		payment:    payment,
		email:      email,
	}
}

// SaveDraft overwrites the session's draft slot. The submitted step must
// validate before the save goes through, which is what blocks the wizard
// from advancing past incomplete pages.
func (s *subscriptionService) SaveDraft(ctx context.Context, sessionID string, step domain.DraftStep, draft *domain.SubscriptionDraft) error {
	if draft.SameEmail {
		draft.AdminEmail = draft.BillingEmail
		draft.AdminName = draft.BillingName
	}
	if err := validateDraftStep(step, draft); err != nil {
		return err
	}
	return s.draftRepo.Save(ctx, sessionID, draft)
}

func (s *subscriptionService) GetDraft(ctx context.Context, sessionID string) (*domain.SubscriptionDraft, error) {
	draft, err := s.draftRepo.Get(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrDraftNotFound
	}
	return draft, err
}

func (s *subscriptionService) ClearDraft(ctx context.Context, sessionID string) error {
	return s.draftRepo.Clear(ctx, sessionID)
}

func (s *subscriptionService) CheckEmailAvailable(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// CreateSubscription turns a completed draft plus a successful simulated
// payment into one organization and one or two pending users. Store writes
// after the charge are wrapped in compensating rollback so a mid-sequence
// failure cannot leave a partially provisioned organization behind. A
// payment failure happens before any write; the stored draft survives for
// retry.
func (s *subscriptionService) CreateSubscription(ctx context.Context, sessionID string, draft *domain.SubscriptionDraft, card *domain.CardDetails) (*SubscriptionResult, error) {
	if draft.SameEmail {
		draft.AdminEmail = draft.BillingEmail
		draft.AdminName = draft.BillingName
	}
	if err := validateDraftStep(domain.DraftStepDetails, draft); err != nil {
		return nil, err
	}

	secondUser := !draft.SameEmail && !strings.EqualFold(draft.AdminEmail, draft.BillingEmail)

	// Friendly pre-check; the stores still enforce uniqueness at write time.
	if available, err := s.CheckEmailAvailable(ctx, draft.BillingEmail); err != nil {
		return nil, err
	} else if !available {
		return nil, ErrEmailTaken
	}
	if secondUser {
		if available, err := s.CheckEmailAvailable(ctx, draft.AdminEmail); err != nil {
			return nil, err
		} else if !available {
			return nil, ErrEmailTaken
		}
	}

	plan := draft.SelectedPlan
	if err := s.payment.Charge(ctx, utils.MonthlyPriceCents(plan), card); err != nil {
		return nil, err
	}

	var undo []func()
	rollback := func() {
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
	}

	now := time.Now().UTC()
	org := &domain.Organization{
		Name:               draft.OrganizationName,
		BillingEmail:       draft.BillingEmail,
		SubscriptionPlan:   plan,
		SubscriptionStatus: domain.SubscriptionActive,
		SeatLimit:          domain.SeatLimitFor(plan),
		BillingCountry:     draft.BillingCountry,
		BillingAddress1:    draft.BillingAddress1,
		BillingAddress2:    draft.BillingAddress2,
		BillingCity:        draft.BillingCity,
		BillingState:       draft.BillingState,
		BillingPostcode:    draft.BillingPostcode,
		TaxID:              draft.TaxID,
		Currency:           draft.DefaultCurrency,
		Timezone:           draft.DefaultTimezone,
		CurrentPeriodEnd:   now.AddDate(0, 1, 0),
		CreatedOn:          now,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	undo = append(undo, func() {
		if err := s.orgRepo.Delete(ctx, org.ID); err != nil {
			logger.Error("Rollback failed deleting organization", "org_id", org.ID, "error", err)
		}
	})

	// One person holding both capacities is created as admin directly.
	ownerRole := domain.RoleBillingOwner
	if draft.SameEmail {
		ownerRole = domain.RoleAdmin
	}
	owner, err := s.createPendingUser(ctx, &undo, draft.BillingName, draft.BillingEmail, ownerRole, org.ID)
	if err != nil {
		rollback()
		return nil, err
	}

	var admin *SetupInfo
	if secondUser {
		admin, err = s.createPendingUser(ctx, &undo, draft.AdminName, draft.AdminEmail, domain.RoleAdmin, org.ID)
		if err != nil {
			rollback()
			return nil, err
		}
	}

	org.UsedSeats = 1
	if admin != nil {
		org.UsedSeats = 2
	}
	if err := s.orgRepo.Update(ctx, org); err != nil {
		rollback()
		return nil, fmt.Errorf("record seat usage: %w", err)
	}

	if sessionID != "" {
		if err := s.draftRepo.Clear(ctx, sessionID); err != nil {
			logger.Warn("Failed to clear committed draft", "session_id", sessionID, "error", err)
		}
	}

	result := &SubscriptionResult{
		Organization: org,
		BillingOwner: owner,
		Admin:        admin,
		License: domain.License{
			Key:       newLicenseKey(),
			ExpiresAt: now.AddDate(1, 0, 0),
			MaxUsers:  org.SeatLimit,
		},
	}

	s.sendSetupEmails(ctx, org, result)
	logger.Info("Subscription created",
		"org_id", org.ID,
		"plan", org.SubscriptionPlan,
		"used_seats", org.UsedSeats)
	return result, nil
}

func (s *subscriptionService) createPendingUser(ctx context.Context, undo *[]func(), name, email string, role domain.UserRole, orgID string) (*SetupInfo, error) {
	user := &domain.User{
		Name:           name,
		Email:          email,
		Role:           role,
		OrganizationID: orgID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create %s user: %w", role, err)
	}
	id := user.ID
	*undo = append(*undo, func() {
		if err := s.userRepo.Delete(ctx, id); err != nil {
			logger.Error("Rollback failed deleting user", "user_id", id, "error", err)
		}
	})

	info, err := s.activation.Issue(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue setup token: %w", err)
	}
	return info, nil
}

// Email delivery is best-effort; the subscription is already committed and
// the setup links are returned in the response either way.
func (s *subscriptionService) sendSetupEmails(ctx context.Context, org *domain.Organization, result *SubscriptionResult) {
	targets := []*SetupInfo{result.BillingOwner}
	if result.Admin != nil {
		targets = append(targets, result.Admin)
	}
	for _, t := range targets {
		if err := s.email.SendSetupInvitation(ctx, t.User.Email, t.User.Name, org.Name, t.SetupURL); err != nil {
			logger.Warn("Failed to send setup invitation", "email", t.User.Email, "error", err)
		}
	}
}

func validateDraftStep(step domain.DraftStep, draft *domain.SubscriptionDraft) error {
	switch step {
	case domain.DraftStepPlan:
		if _, ok := domain.Plans[draft.SelectedPlan]; !ok {
			return &ValidationError{Field: "selectedPlan", Message: "Please choose a subscription plan"}
		}
	case domain.DraftStepDetails:
		if strings.TrimSpace(draft.OrganizationName) == "" {
			return &ValidationError{Field: "organizationName", Message: "Organization name is required"}
		}
		if strings.TrimSpace(draft.BillingEmail) == "" {
			return &ValidationError{Field: "billingEmail", Message: "Billing email is required"}
		}
		if !emailPattern.MatchString(draft.BillingEmail) {
			return &ValidationError{Field: "billingEmail", Message: "Please enter a valid email address"}
		}
		if !draft.SameEmail {
			if strings.TrimSpace(draft.AdminEmail) == "" {
				return &ValidationError{Field: "adminEmail", Message: "Admin email is required"}
			}
			if !emailPattern.MatchString(draft.AdminEmail) {
				return &ValidationError{Field: "adminEmail", Message: "Please enter a valid email address"}
			}
		}
	case domain.DraftStepBilling:
		required := []struct{ field, value, message string }{
			{"billingCountry", draft.BillingCountry, "Country is required"},
			{"billingAddress1", draft.BillingAddress1, "Address is required"},
			{"billingCity", draft.BillingCity, "City is required"},
			{"billingPostcode", draft.BillingPostcode, "Postcode is required"},
		}
		for _, r := range required {
			if strings.TrimSpace(r.value) == "" {
				return &ValidationError{Field: r.field, Message: r.message}
			}
		}
	default:
		return &ValidationError{Field: "step", Message: "Unknown wizard step"}
	}
	return nil
}

func newLicenseKey() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("ERP-%s-%s-%s-%s", raw[0:4], raw[4:8], raw[8:12], raw[12:16])
}
