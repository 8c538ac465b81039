package service

import (
	"context"
	"errors"
	"fmt"

	"erp-subscription-backend/internal/domain"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrNotActivated          = errors.New("account not activated")
	ErrInvalidCredentials    = errors.New("invalid password")
	ErrOrgNotFound           = errors.New("organization not found")
	ErrSubscriptionExpired   = errors.New("subscription expired")
	ErrSubscriptionCancelled = errors.New("subscription cancelled")
	ErrInvalidSetupToken     = errors.New("invalid or expired setup link")
	ErrInvalidToken          = errors.New("invalid token")
	ErrEmailTaken            = errors.New("email already in use")
	ErrPaymentDeclined       = errors.New("payment declined")
	ErrSeatLimitReached      = errors.New("seat limit reached")
	ErrForbidden             = errors.New("insufficient role")
	ErrDraftNotFound         = errors.New("no pending subscription draft")
)

// ValidationError reports a single bad form field. It never reaches the
// store; saves and commits are rejected before any write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SetupInfo describes a freshly created pending user and the single-use
// link that activates it.
type SetupInfo struct {
	User       *domain.User
	SetupToken string
	SetupURL   string
}

// SubscriptionResult is what the payment page renders after a successful
// commit. Admin is nil when the billing owner and admin are one person.
type SubscriptionResult struct {
	Organization *domain.Organization
	BillingOwner *SetupInfo
	Admin        *SetupInfo
	License      domain.License
}

// TokenInfo is the pending-user summary a setup link resolves to.
type TokenInfo struct {
	Email            string
	Role             domain.UserRole
	OrganizationName string
}

// ActivationResult is returned once a setup token is consumed.
type ActivationResult struct {
	User         *domain.User
	Organization *domain.Organization
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
	User         *domain.User
	Organization *domain.Organization
}

// SessionInfo re-reads live user and organization state; it carries no
// cached snapshot.
type SessionInfo struct {
	User         *domain.User
	Organization *domain.Organization
}

type PortalInfo struct {
	Organization *domain.Organization
	Members      []domain.User
}

type SubscriptionService interface {
	SaveDraft(ctx context.Context, sessionID string, step domain.DraftStep, draft *domain.SubscriptionDraft) error
	GetDraft(ctx context.Context, sessionID string) (*domain.SubscriptionDraft, error)
	ClearDraft(ctx context.Context, sessionID string) error
	CheckEmailAvailable(ctx context.Context, email string) (bool, error)
	CreateSubscription(ctx context.Context, sessionID string, draft *domain.SubscriptionDraft, card *domain.CardDetails) (*SubscriptionResult, error)
}

type ActivationService interface {
	Issue(ctx context.Context, userID string) (*SetupInfo, error)
	Verify(ctx context.Context, token string) (*TokenInfo, error)
	Activate(ctx context.Context, token, password string) (*ActivationResult, error)
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, refreshToken string) error
	Session(ctx context.Context, userID string) (*SessionInfo, error)
}

type BillingService interface {
	Portal(ctx context.Context, userID string) (*PortalInfo, error)
	ChangeStatus(ctx context.Context, userID string, status domain.SubscriptionStatus) (*domain.Organization, error)
	ChangeAdmin(ctx context.Context, userID, adminEmail, adminName string) (*SetupInfo, error)
}

type PaymentService interface {
	Charge(ctx context.Context, amountCents int32, card *domain.CardDetails) error
}

type EmailService interface {
	SendSetupInvitation(ctx context.Context, email, name, orgName, setupURL string) error
	SendStatusNotification(ctx context.Context, email, name, orgName string, status domain.SubscriptionStatus) error
	SendPaymentReminder(ctx context.Context, email, name, orgName string, amountCents int32) error
}
