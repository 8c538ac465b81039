package postgres

import (
	"context"
	"database/sql"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/repository"

	"github.com/google/uuid"
)

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

const orgColumns = `id, name, billing_email, subscription_plan, subscription_status, seat_limit, used_seats,
	COALESCE(billing_country, ''), COALESCE(billing_address1, ''), COALESCE(billing_address2, ''),
	COALESCE(billing_city, ''), COALESCE(billing_state, ''), COALESCE(billing_postcode, ''),
	COALESCE(tax_id, ''), COALESCE(currency, ''), COALESCE(timezone, ''), current_period_end, created_on`

func scanOrg(row interface{ Scan(...any) error }) (*domain.Organization, error) {
	o := &domain.Organization{}
	err := row.Scan(&o.ID, &o.Name, &o.BillingEmail, &o.SubscriptionPlan, &o.SubscriptionStatus,
		&o.SeatLimit, &o.UsedSeats, &o.BillingCountry, &o.BillingAddress1, &o.BillingAddress2,
		&o.BillingCity, &o.BillingState, &o.BillingPostcode, &o.TaxID, &o.Currency, &o.Timezone,
		&o.CurrentPeriodEnd, &o.CreatedOn)
	if err != nil {
		return nil, translateErr(err)
	}
	return o, nil
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedOn.IsZero() {
		o.CreatedOn = time.Now().UTC()
	}
	query := `INSERT INTO organizations (id, name, billing_email, subscription_plan, subscription_status, seat_limit, used_seats,
	              billing_country, billing_address1, billing_address2, billing_city, billing_state, billing_postcode,
	              tax_id, currency, timezone, current_period_end, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.ExecContext(ctx, query, o.ID, o.Name, o.BillingEmail, o.SubscriptionPlan, o.SubscriptionStatus,
		o.SeatLimit, o.UsedSeats, o.BillingCountry, o.BillingAddress1, o.BillingAddress2, o.BillingCity,
		o.BillingState, o.BillingPostcode, o.TaxID, o.Currency, o.Timezone, o.CurrentPeriodEnd, o.CreatedOn)
	return translateErr(err)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`
	return scanOrg(r.db.QueryRowContext(ctx, query, id))
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.Organization) error {
	query := `UPDATE organizations SET name=$1, billing_email=$2, subscription_status=$3, seat_limit=$4, used_seats=$5, current_period_end=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, o.Name, o.BillingEmail, o.SubscriptionStatus, o.SeatLimit, o.UsedSeats, o.CurrentPeriodEnd, o.ID)
	return translateErr(err)
}

func (r *organizationRepository) ListByStatus(ctx context.Context, status domain.SubscriptionStatus) ([]domain.Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE subscription_status = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		o, err := scanOrg(rows)
		if err != nil {
			return nil, err
		}
		orgs = append(orgs, *o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	return translateErr(err)
}
