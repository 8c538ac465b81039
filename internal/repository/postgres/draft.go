package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"erp-subscription-backend/internal/domain"
	"erp-subscription-backend/internal/repository"
)

// draftRepository stores the pending signup form as one JSON blob per
// session, mirroring the client's durable key-value slot. The upsert keeps
// last-write-wins semantics.
type draftRepository struct {
	db *sql.DB
}

func NewDraftRepository(db *sql.DB) repository.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) Save(ctx context.Context, sessionID string, draft *domain.SubscriptionDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	query := `INSERT INTO subscription_drafts (session_id, payload, updated_on) VALUES ($1, $2, $3)
	          ON CONFLICT (session_id) DO UPDATE SET payload = EXCLUDED.payload, updated_on = EXCLUDED.updated_on`
	_, err = r.db.ExecContext(ctx, query, sessionID, payload, time.Now().UTC())
	return translateErr(err)
}

func (r *draftRepository) Get(ctx context.Context, sessionID string) (*domain.SubscriptionDraft, error) {
	var payload []byte
	query := `SELECT payload FROM subscription_drafts WHERE session_id = $1`
	if err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&payload); err != nil {
		return nil, translateErr(err)
	}
	draft := &domain.SubscriptionDraft{}
	if err := json.Unmarshal(payload, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (r *draftRepository) Clear(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM subscription_drafts WHERE session_id = $1`, sessionID)
	return translateErr(err)
}
