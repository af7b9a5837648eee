package detect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"skinective/pkg/db"
	"skinective/pkg/vision"
)

// ErrDiseaseNotFound is returned when a label has no catalog row.
var ErrDiseaseNotFound = errors.New("detect: disease not found")

// CatalogRepo reads disease metadata from the relational catalog.
type CatalogRepo struct {
	pool *pgxpool.Pool
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// FindByName looks up a disease by its canonical name.
func (r *CatalogRepo) FindByName(ctx context.Context, name string) (Disease, error) {
	const query = `
        SELECT disease_id, disease_name, disease_description, disease_action
        FROM diseases
        WHERE disease_name = $1
    `

	var d Disease
	if err := db.Get(ctx, r.pool, &d, query, name); err != nil {
		if db.NoRows(err) {
			return Disease{}, ErrDiseaseNotFound
		}
		return Disease{}, err
	}
	return d, nil
}

// Names returns every canonical disease name in the catalog.
func (r *CatalogRepo) Names(ctx context.Context) ([]string, error) {
	var names []string
	if err := db.Select(ctx, r.pool, &names, `SELECT disease_name FROM diseases`); err != nil {
		return nil, err
	}
	return names, nil
}

// ValidateCatalog checks at startup that every classifier label has a catalog
// row, so a label/catalog mismatch fails the process instead of surfacing as
// per-request 404s.
func ValidateCatalog(ctx context.Context, catalog DiseaseCatalog) error {
	names, err := catalog.Names(ctx)
	if err != nil {
		return fmt.Errorf("load catalog names: %w", err)
	}

	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	var missing []string
	for _, label := range vision.Labels {
		if _, ok := known[label]; !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("catalog is missing rows for labels: %s", strings.Join(missing, ", "))
	}
	return nil
}
