package service

import (
	"context"
	"errors"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/logger"
	"erp-subscription-backend/internal/repository"
	"erp-subscription-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo repository.UserRepository
	orgRepo  repository.OrganizationRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, orgRepo repository.OrganizationRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		orgRepo:  orgRepo,
		tokens:   tokens,
	}
}

// Login admits a user only when the account is activated, the credentials
// match and the owning organization's subscription permits it. The checks
// run in a fixed order so each failure maps to one distinct error. past_due
// is deliberately not blocking; the portal surfaces it separately.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActivated {
		return nil, ErrNotActivated
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	org, err := s.gateOrganization(ctx, user.OrganizationID)
	if err != nil {
		return nil, err
	}

	result, err := s.issueTokens(user, org)
	if err != nil {
		return nil, err
	}
	logger.Info("User logged in", "user_id", user.ID, "org_id", org.ID, "subscription_status", org.SubscriptionStatus)
	return result, nil
}

// Refresh rotates both tokens. The user and organization are re-read so a
// subscription that expired since login cannot be renewed into.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActivated {
		return nil, ErrNotActivated
	}

	org, err := s.gateOrganization(ctx, user.OrganizationID)
	if err != nil {
		return nil, err
	}

	return s.issueTokens(user, org)
}

// Logout is unconditional; logging out twice is not an error. Refresh
// tokens are short-lived enough that no denylist is kept.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

// Session resolves the live user and organization for an authenticated
// request. Nothing is cached between calls, so an administrative status
// change is observed on the very next read.
func (s *authService) Session(ctx context.Context, userID string) (*SessionInfo, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActivated {
		return nil, ErrNotActivated
	}

	org, err := s.gateOrganization(ctx, user.OrganizationID)
	if err != nil {
		return nil, err
	}

	return &SessionInfo{User: user, Organization: org}, nil
}

func (s *authService) gateOrganization(ctx context.Context, orgID string) (*domain.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, err
	}

	switch org.SubscriptionStatus {
	case domain.SubscriptionExpired:
		return nil, ErrSubscriptionExpired
	case domain.SubscriptionCancelled:
		return nil, ErrSubscriptionCancelled
	}
	return org, nil
}

func (s *authService) issueTokens(user *domain.User, org *domain.Organization) (*LoginResult, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, org.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
		User:         user,
		Organization: org,
	}, nil
}
