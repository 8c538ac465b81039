package service

import (
	"context"
	"fmt"
	"strings"

	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type activationService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	baseURL  string
}

func NewActivationService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, baseURL string) ActivationService {
	return &activationService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func newSetupToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func (s *activationService) setupURL(token string) string {
	return fmt.Sprintf("%s/setup-password/%s", s.baseURL, token)
}

// Issue mints a fresh setup token for a pending user and attaches it to the
// record. Re-issuing replaces any previous token, which invalidates older
// links.
func (s *activationService) Issue(ctx context.Context, userID string) (*SetupInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user for setup token: %w", err)
	}
	if user.IsActivated {
		return nil, ErrInvalidSetupToken
	}

	user.SetupToken = newSetupToken()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("attach setup token: %w", err)
	}

	return &SetupInfo{
		User:       user,
		SetupToken: user.SetupToken,
		SetupURL:   s.setupURL(user.SetupToken),
	}, nil
}

// Verify resolves a token without consuming it, so a reloaded setup page
// stays valid. Every resolution failure collapses to ErrInvalidSetupToken;
// callers cannot distinguish a consumed token from one that never existed.
func (s *activationService) Verify(ctx context.Context, token string) (*TokenInfo, error) {
	user, err := s.userRepo.GetBySetupToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidSetupToken
	}

	orgName := ""
	if org, err := s.orgRepo.GetByID(ctx, user.OrganizationID); err == nil {
		orgName = org.Name
	}

	return &TokenInfo{
		Email:            user.Email,
		Role:             user.Role,
		OrganizationName: orgName,
	}, nil
}

// Activate consumes a token: the store resolves, sets the hash, flips
// is_activated and clears the token in one atomic step. A second redemption
// of the same link finds nothing and fails with the same uniform error.
func (s *activationService) Activate(ctx context.Context, token, password string) (*ActivationResult, error) {
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Message: "Password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.userRepo.ActivateBySetupToken(ctx, token, string(hash))
	if err != nil {
		return nil, ErrInvalidSetupToken
	}
	logger.Info("Account activated", "user_id", user.ID, "email", user.Email)

	org, err := s.orgRepo.GetByID(ctx, user.OrganizationID)
	if err != nil {
		return nil, ErrOrgNotFound
	}

	return &ActivationResult{User: user, Organization: org}, nil
}
