package postgres

import (
	"database/sql"
	"errors"

	"erp-subscription-backend/internal/repository"

	"github.com/lib/pq"
)

// Store bundles the postgres-backed repositories behind one constructor.
// The views are named fields because the user and organization interfaces
// share method names, which would make promoted selectors ambiguous.
type Store struct {
	db     *sql.DB
	Users  repository.UserRepository
	Orgs   repository.OrganizationRepository
	Drafts repository.DraftRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		Users:  NewUserRepository(db),
		Orgs:   NewOrganizationRepository(db),
		Drafts: NewDraftRepository(db),
	}
}

// translateErr maps driver errors onto the repository sentinels so services
// never see lib/pq types.
func translateErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicateEmail
	}
	return err
}
