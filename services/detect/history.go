package detect

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"skinective/pkg/db"
)

// HistoryRepo appends to and reads from the detection history log.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// Insert appends a single history record.
func (r *HistoryRepo) Insert(ctx context.Context, rec DetectHistory) error {
	const query = `
        INSERT INTO detect_histories (detect_history_id, user_id, disease_id, history_img_url, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := db.Exec(ctx, r.pool, query,
		rec.DetectHistoryID, rec.UserID, rec.DiseaseID, rec.HistoryImgURL, rec.CreatedAt)
	return err
}

// ListAll returns every history record without the disease join.
func (r *HistoryRepo) ListAll(ctx context.Context) ([]DetectHistory, error) {
	const query = `
        SELECT detect_history_id, user_id, disease_id, history_img_url, created_at
        FROM detect_histories
        ORDER BY created_at
    `

	var records []DetectHistory
	if err := db.Select(ctx, r.pool, &records, query); err != nil {
		return nil, err
	}
	return records, nil
}

// ListByUser returns a user's history joined with disease metadata.
// An empty result is a valid outcome distinct from an unknown user.
func (r *HistoryRepo) ListByUser(ctx context.Context, userID string) ([]HistoryWithDisease, error) {
	const query = `
        SELECT dh.detect_history_id, dh.user_id, dh.disease_id, dh.history_img_url, dh.created_at,
               d.disease_name, d.disease_action, d.disease_description
        FROM detect_histories dh
        JOIN diseases d ON d.disease_id = dh.disease_id
        WHERE dh.user_id = $1
        ORDER BY dh.created_at
    `

	var records []HistoryWithDisease
	if err := db.Select(ctx, r.pool, &records, query, userID); err != nil {
		return nil, err
	}
	return records, nil
}
