package service_test

import (
	"context"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetBySetupToken(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) ActivateBySetupToken(ctx context.Context, token, passwordHash string) (*domain.User, error) {
	args := m.Called(ctx, token, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrganizationRepo
type MockOrganizationRepo struct {
	mock.Mock
}

func (m *MockOrganizationRepo) Create(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) Update(ctx context.Context, org *domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}
func (m *MockOrganizationRepo) ListByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Organization, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Organization), args.Error(1)
}
func (m *MockOrganizationRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockDraftRepo
type MockDraftRepo struct {
	mock.Mock
}

func (m *MockDraftRepo) Save(ctx context.Context, sessionID string, draft *domain.SubscriptionDraft) error {
	args := m.Called(ctx, sessionID, draft)
	return args.Error(0)
}
func (m *MockDraftRepo) Get(ctx context.Context, sessionID string) (*domain.SubscriptionDraft, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubscriptionDraft), args.Error(1)
}
func (m *MockDraftRepo) Clear(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

// MockPaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Charge(ctx context.Context, amountCents int32, card *domain.CardDetails) error {
	args := m.Called(ctx, amountCents, card)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendSetupInvitation(ctx context.Context, email, name, orgName, setupURL string) error {
	args := m.Called(ctx, email, name, orgName, setupURL)
	return args.Error(0)
}
func (m *MockEmailService) SendStatusNotification(ctx context.Context, email, name, orgName string, status domain.SubscriptionStatus) error {
	args := m.Called(ctx, email, name, orgName, status)
	return args.Error(0)
}
func (m *MockEmailService) SendPaymentReminder(ctx context.Context, email, name, orgName string, amountCents int32) error {
	args := m.Called(ctx, email, name, orgName, amountCents)
	return args.Error(0)
}

// MockActivationService
type MockActivationService struct {
	mock.Mock
}

func (m *MockActivationService) Issue(ctx context.Context, userID string) (*service.SetupInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SetupInfo), args.Error(1)
}
func (m *MockActivationService) Verify(ctx context.Context, token string) (*service.TokenInfo, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenInfo), args.Error(1)
}
func (m *MockActivationService) Activate(ctx context.Context, token, password string) (*service.ActivationResult, error) {
	args := m.Called(ctx, token, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ActivationResult), args.Error(1)
}
