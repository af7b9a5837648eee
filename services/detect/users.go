package detect

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"skinective/pkg/db"
)

// UserRepo answers existence checks for the read path. The detection pipeline
// never consults it: the userId on a detection is stored verbatim.
type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Exists reports whether a user row with the given id is present.
func (r *UserRepo) Exists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := db.Get(ctx, r.pool, &exists,
		`SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1)`, userID)
	if err != nil {
		return false, err
	}
	return exists, nil
}
