package postgres

import (
	"context"
	"database/sql"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/repository"

	"github.com/google/uuid"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, organization_id, is_activated, COALESCE(setup_token, ''), created_on`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.OrganizationID, &u.IsActivated, &u.SetupToken, &u.CreatedOn)
	if err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedOn.IsZero() {
		u.CreatedOn = time.Now().UTC()
	}
	query := `INSERT INTO users (id, name, email, password_hash, role, organization_id, is_activated, setup_token, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.OrganizationID, u.IsActivated, u.SetupToken, u.CreatedOn)
	return translateErr(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) GetBySetupToken(ctx context.Context, token string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE setup_token = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, token))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name=$1, email=$2, password_hash=$3, role=$4, is_activated=$5, setup_token=NULLIF($6, '') WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role, u.IsActivated, u.SetupToken, u.ID)
	return translateErr(err)
}

func (r *userRepository) ListByOrganization(ctx context.Context, orgID string) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// ActivateBySetupToken is a single UPDATE so the consume is atomic: two
// racing redemptions of the same link can only match the WHERE once.
func (r *userRepository) ActivateBySetupToken(ctx context.Context, token, passwordHash string) (*domain.User, error) {
	query := `UPDATE users SET password_hash=$1, is_activated=TRUE, setup_token=NULL
	          WHERE setup_token=$2 AND is_activated=FALSE
	          RETURNING id, name, email, password_hash, role, organization_id, is_activated, COALESCE(setup_token, ''), created_on`
	return scanUser(r.db.QueryRowContext(ctx, query, passwordHash, token))
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return translateErr(err)
}
