package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/repository"
)

type billingService struct {
	userRepo   repository.UserRepository
	orgRepo    repository.OrganizationRepository
	activation ActivationService
	email      EmailService
}

func NewBillingService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, activation ActivationService, email EmailService) BillingService {
	return &billingService{
		userRepo:   userRepo,
		orgRepo:    orgRepo,
		activation: activation,
		email:      email,
	}
}

// resolveManager loads the caller and checks the billing-portal role gate.
func (s *billingService) resolveManager(ctx context.Context, userID string) (*domain.User, *domain.Organization, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, ErrUserNotFound
	}
	if user.Role != domain.RoleBillingOwner && user.Role != domain.RoleAdmin {
		return nil, nil, ErrForbidden
	}
	org, err := s.orgRepo.GetByID(ctx, user.OrganizationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrOrgNotFound
		}
		return nil, nil, err
	}
	return user, org, nil
}

func (s *billingService) Portal(ctx context.Context, userID string) (*PortalInfo, error) {
	_, org, err := s.resolveManager(ctx, userID)
	if err != nil {
		return nil, err
	}
	members, err := s.userRepo.ListByOrganization(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return &PortalInfo{Organization: org, Members: members}, nil
}

// ChangeStatus is the administrative mutation that gates future logins.
// The plan itself stays immutable.
func (s *billingService) ChangeStatus(ctx context.Context, userID string, status domain.SubscriptionStatus) (*domain.Organization, error) {
	switch status {
	case domain.SubscriptionActive, domain.SubscriptionPastDue, domain.SubscriptionExpired, domain.SubscriptionCancelled:
	default:
		return nil, &ValidationError{Field: "status", Message: "Unknown subscription status"}
	}

	user, org, err := s.resolveManager(ctx, userID)
	if err != nil {
		return nil, err
	}

	org.SubscriptionStatus = status
	if err := s.orgRepo.Update(ctx, org); err != nil {
		return nil, fmt.Errorf("update subscription status: %w", err)
	}
	logger.Info("Subscription status changed", "org_id", org.ID, "status", status, "changed_by", user.ID)

	if err := s.email.SendStatusNotification(ctx, org.BillingEmail, "", org.Name, status); err != nil {
		logger.Warn("Failed to send status notification", "org_id", org.ID, "error", err)
	}
	return org, nil
}

// ChangeAdmin promotes an existing member to admin, or provisions a new
// pending admin with a fresh setup link. A new admin consumes a seat and is
// rejected at the plan's limit; a promotion consumes none.
func (s *billingService) ChangeAdmin(ctx context.Context, userID, adminEmail, adminName string) (*SetupInfo, error) {
	if !emailPattern.MatchString(adminEmail) {
		return nil, &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}

	_, org, err := s.resolveManager(ctx, userID)
	if err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, adminEmail)
	if err == nil {
		if existing.OrganizationID != org.ID {
			return nil, ErrEmailTaken
		}
		existing.Role = domain.RoleAdmin
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("promote member: %w", err)
		}
		logger.Info("Member promoted to admin", "org_id", org.ID, "user_id", existing.ID)
		return nil, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if org.UsedSeats >= org.SeatLimit {
		return nil, ErrSeatLimitReached
	}

	admin := &domain.User{
		Name:           strings.TrimSpace(adminName),
		Email:          adminEmail,
		Role:           domain.RoleAdmin,
		OrganizationID: org.ID,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create admin: %w", err)
	}
	// Undo the pending row if a later step fails, so no admin exists
	// without a setup token and a recorded seat.
	rollback := func() {
		if err := s.userRepo.Delete(ctx, admin.ID); err != nil {
			logger.Error("Rollback failed deleting pending admin", "user_id", admin.ID, "error", err)
		}
	}

	info, err := s.activation.Issue(ctx, admin.ID)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("issue setup token: %w", err)
	}

	org.UsedSeats++
	if err := s.orgRepo.Update(ctx, org); err != nil {
		rollback()
		return nil, fmt.Errorf("record seat usage: %w", err)
	}
	logger.Info("Admin added", "org_id", org.ID, "user_id", admin.ID, "used_seats", org.UsedSeats)

	if err := s.email.SendSetupInvitation(ctx, admin.Email, admin.Name, org.Name, info.SetupURL); err != nil {
		logger.Warn("Failed to send setup invitation", "email", admin.Email, "error", err)
	}
	return info, nil
}
