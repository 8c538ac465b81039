package http

import (
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/service"
)

// Wire DTOs use camelCase to match the signup client's contract.

type organizationSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Plan string `json:"plan"`
	Tier string `json:"tier"`
}

type setupInfoDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	SetupToken string `json:"setupToken"`
	SetupURL   string `json:"setupUrl"`
}

type licenseDTO struct {
	Key       string `json:"key"`
	ExpiresAt string `json:"expiresAt"`
	MaxUsers  int32  `json:"maxUsers"`
}

type subscriptionResultDTO struct {
	Organization organizationSummary `json:"organization"`
	BillingOwner setupInfoDTO        `json:"billingOwner"`
	Admin        *setupInfoDTO       `json:"admin"`
	License      licenseDTO          `json:"license"`
}

type tokenInfoDTO struct {
	Email            string `json:"email"`
	Role             string `json:"role"`
	OrganizationName string `json:"organizationName"`
}

type activationResultDTO struct {
	User         userSummary         `json:"user"`
	Organization organizationSummary `json:"organization"`
}

type userSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

type loginUserDTO struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	TenantID    string   `json:"tenantId"`
	TenantName  string   `json:"tenantName"`
	Tier        string   `json:"tier"`
	Permissions []string `json:"permissions"`
}

type loginResultDTO struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         loginUserDTO `json:"user"`
}

type organizationDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	BillingEmail     string `json:"billingEmail"`
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	SeatLimit        int32  `json:"seatLimit"`
	UsedSeats        int32  `json:"usedSeats"`
	CurrentPeriodEnd string `json:"currentPeriodEnd"`
	CreatedAt        string `json:"createdAt"`
}

type memberDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	IsActivated bool   `json:"isActivated"`
}

type sessionDTO struct {
	User         loginUserDTO    `json:"user"`
	Organization organizationDTO `json:"organization"`
}

type portalDTO struct {
	Organization organizationDTO `json:"organization"`
	Members      []memberDTO     `json:"members"`
}

func toOrganizationSummary(org *domain.Organization) organizationSummary {
	return organizationSummary{
		ID:   org.ID,
		Name: org.Name,
		Plan: string(org.SubscriptionPlan),
		Tier: string(org.SubscriptionPlan),
	}
}

func toSetupInfoDTO(info *service.SetupInfo) *setupInfoDTO {
	if info == nil {
		return nil
	}
	return &setupInfoDTO{
		ID:         info.User.ID,
		Email:      info.User.Email,
		SetupToken: info.SetupToken,
		SetupURL:   info.SetupURL,
	}
}

func toSubscriptionResultDTO(result *service.SubscriptionResult) subscriptionResultDTO {
	return subscriptionResultDTO{
		Organization: toOrganizationSummary(result.Organization),
		BillingOwner: *toSetupInfoDTO(result.BillingOwner),
		Admin:        toSetupInfoDTO(result.Admin),
		License: licenseDTO{
			Key:       result.License.Key,
			ExpiresAt: result.License.ExpiresAt.Format(time.RFC3339),
			MaxUsers:  result.License.MaxUsers,
		},
	}
}

func toLoginUserDTO(user *domain.User, org *domain.Organization) loginUserDTO {
	return loginUserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		Role:        string(user.Role),
		TenantID:    org.ID,
		TenantName:  org.Name,
		Tier:        string(org.SubscriptionPlan),
		Permissions: user.Permissions(),
	}
}

func toOrganizationDTO(org *domain.Organization) organizationDTO {
	return organizationDTO{
		ID:               org.ID,
		Name:             org.Name,
		BillingEmail:     org.BillingEmail,
		Plan:             string(org.SubscriptionPlan),
		Status:           string(org.SubscriptionStatus),
		SeatLimit:        org.SeatLimit,
		UsedSeats:        org.UsedSeats,
		CurrentPeriodEnd: org.CurrentPeriodEnd.Format(time.RFC3339),
		CreatedAt:        org.CreatedOn.Format(time.RFC3339),
	}
}

func toMemberDTOs(members []domain.User) []memberDTO {
	out := make([]memberDTO, 0, len(members))
	for _, m := range members {
		out = append(out, memberDTO{
			ID:          m.ID,
			Name:        m.Name,
			Email:       m.Email,
			Role:        string(m.Role),
			IsActivated: m.IsActivated,
		})
	}
	return out
}
