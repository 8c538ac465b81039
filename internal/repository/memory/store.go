package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/repository"

	"github.com/google/uuid"
)

// Store is an in-process implementation of every repository interface. It
// backs the memory storage mode and the handler tests. One mutex guards all
// maps; activation is a compare-and-clear under that lock, so a consumed
// setup token can never resolve twice even when two requests race.
type Store struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	orgs   map[string]*domain.Organization
	drafts map[string]*domain.SubscriptionDraft
}

func NewStore() *Store {
	return &Store{
		users:  make(map[string]*domain.User),
		orgs:   make(map[string]*domain.Organization),
		drafts: make(map[string]*domain.SubscriptionDraft),
	}
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}

func copyOrg(o *domain.Organization) *domain.Organization {
	cp := *o
	return &cp
}

// Users

func (s *Store) Create(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedOn.IsZero() {
		u.CreatedOn = time.Now().UTC()
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return copyUser(u), nil
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) GetBySetupToken(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.SetupToken == token {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) Update(ctx context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return repository.ErrDuplicateEmail
		}
	}
	s.users[u.ID] = copyUser(u)
	return nil
}

func (s *Store) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var users []domain.User
	for _, u := range s.users {
		if u.OrganizationID == orgID {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (s *Store) ActivateBySetupToken(ctx context.Context, token, passwordHash string) (*domain.User, error) {
	if token == "" {
		return nil, repository.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.SetupToken == token && !u.IsActivated {
			u.PasswordHash = passwordHash
			u.IsActivated = true
			u.SetupToken = ""
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// Organizations

type orgStore struct {
	store *Store
}

// Orgs returns the organization repository view of the store.
func (s *Store) Orgs() repository.OrganizationRepository {
	return &orgStore{store: s}
}

func (o *orgStore) Create(ctx context.Context, org *domain.Organization) error {
	s := o.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	if org.CreatedOn.IsZero() {
		org.CreatedOn = time.Now().UTC()
	}
	s.orgs[org.ID] = copyOrg(org)
	return nil
}

func (o *orgStore) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	s := o.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if org, ok := s.orgs[id]; ok {
		return copyOrg(org), nil
	}
	return nil, repository.ErrNotFound
}

func (o *orgStore) Update(ctx context.Context, org *domain.Organization) error {
	s := o.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[org.ID]; !ok {
		return repository.ErrNotFound
	}
	s.orgs[org.ID] = copyOrg(org)
	return nil
}

func (o *orgStore) ListByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Organization, error) {
	s := o.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var orgs []domain.Organization
	for _, org := range s.orgs {
		if org.SubscriptionStatus == status {
			orgs = append(orgs, *org)
		}
	}
	return orgs, nil
}

func (o *orgStore) Delete(ctx context.Context, id string) error {
	s := o.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orgs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orgs, id)
	return nil
}

// Drafts

type draftStore struct {
	store *Store
}

// Drafts returns the draft buffer view of the store.
func (s *Store) Drafts() repository.DraftRepository {
	return &draftStore{store: s}
}

func (d *draftStore) Save(ctx context.Context, sessionID string, draft *domain.SubscriptionDraft) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *draft
	s.drafts[sessionID] = &cp
	return nil
}

func (d *draftStore) Get(ctx context.Context, sessionID string) (*domain.SubscriptionDraft, error) {
	s := d.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	if draft, ok := s.drafts[sessionID]; ok {
		cp := *draft
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (d *draftStore) Clear(ctx context.Context, sessionID string) error {
	s := d.store
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}
