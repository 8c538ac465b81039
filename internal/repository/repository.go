package repository

import (
	"context"
	"errors"

	"erp-subscription-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a user write would collide with an
	// existing email (case-insensitive, store-wide).
	ErrDuplicateEmail = errors.New("email already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetBySetupToken(ctx context.Context, token string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error)

	// ActivateBySetupToken atomically resolves a pending user by setup
	// token, sets the password hash, flips is_activated and clears the
	// token. Returns ErrNotFound when the token resolves to nothing,
	// including when it was already consumed.
	ActivateBySetupToken(ctx context.Context, token, passwordHash string) (*domain.User, error)

	// Delete exists for orchestrator rollback only.
	Delete(ctx context.Context, id string) error
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	ListByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Organization, error)

	// Delete exists for orchestrator rollback only.
	Delete(ctx context.Context, id string) error
}

// DraftRepository is the single-slot draft buffer, keyed by the browsing
// session. Save overwrites unconditionally.
type DraftRepository interface {
	Save(ctx context.Context, sessionID string, draft *domain.SubscriptionDraft) error
	Get(ctx context.Context, sessionID string) (*domain.SubscriptionDraft, error)
	Clear(ctx context.Context, sessionID string) error
}
