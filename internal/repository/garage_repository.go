package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/parking-garage-api/internal/model"
)

const garageCols = "id, alias, zipcode, prefix, location, rate_compact, rate_regular, rate_large, created_at, updated_at"

// GarageRepo encapsulates all database queries against the garages table.
type GarageRepo struct {
	db *sql.DB
}

// NewGarageRepo constructs a GarageRepo with the provided DB handle. This
// allows dependency injection of the database in tests and at startup.
func NewGarageRepo(db *sql.DB) *GarageRepo {
	return &GarageRepo{db: db}
}

func scanGarage(row interface{ Scan(...any) error }, g *model.Garage) error {
	return row.Scan(&g.ID, &g.Alias, &g.Zipcode, &g.Prefix, &g.Location,
		&g.RateCompact, &g.RateRegular, &g.RateLarge, &g.CreatedAt, &g.UpdatedAt)
}

// Create inserts a new garage after verifying that no stored garage shares
// its prefix (case-sensitive exact match). On success the ID and timestamp
// fields are populated from the persisted row.
func (r *GarageRepo) Create(ctx context.Context, g *model.Garage) error {
	taken, err := r.PrefixExists(ctx, g.Prefix, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicatePrefix
	}

	const q = `INSERT INTO garages (alias, zipcode, prefix, location, rate_compact, rate_regular, rate_large)
	           VALUES (?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, g.Alias, g.Zipcode, g.Prefix, g.Location,
		g.RateCompact, g.RateRegular, g.RateLarge)
	if err != nil {
		if isDuplicateKey(err) {
			// The pre-check and the insert are not atomic; the unique
			// index catches the race.
			return ErrDuplicatePrefix
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	g.ID = uint64(id)

	got, err := r.GetByID(ctx, g.ID)
	if err != nil {
		return err
	}
	*g = *got
	return nil
}

// PrefixExists reports whether any garage other than excludeID carries the
// given prefix. Pass excludeID 0 to match against all garages.
func (r *GarageRepo) PrefixExists(ctx context.Context, prefix string, excludeID uint64) (bool, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM garages WHERE BINARY prefix = ? AND id <> ? LIMIT 1",
		prefix, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches a garage by id, or ErrNotFound.
func (r *GarageRepo) GetByID(ctx context.Context, id uint64) (*model.Garage, error) {
	var g model.Garage
	err := scanGarage(r.db.QueryRowContext(ctx,
		"SELECT "+garageCols+" FROM garages WHERE id = ?", id), &g)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all garages in insertion order.
func (r *GarageRepo) List(ctx context.Context) ([]*model.Garage, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+garageCols+" FROM garages ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Garage
	for rows.Next() {
		g := new(model.Garage)
		if err := scanGarage(rows, g); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// Update merges the given column/value pairs into an existing garage and
// returns the updated record, or ErrNotFound. An empty field map is a
// no-op read.
func (r *GarageRepo) Update(ctx context.Context, id uint64, fields map[string]any) (*model.Garage, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	set, args := setClause(fields)
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE garages SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ?", args...); err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicatePrefix
		}
		return nil, err
	}
	// Zero affected rows can mean either "absent" or "nothing changed";
	// the follow-up read settles which.
	return r.GetByID(ctx, id)
}

// Delete removes a garage and returns the removed record, or ErrNotFound.
// Dependent spots are untouched: they keep their embedded snapshot.
func (r *GarageRepo) Delete(ctx context.Context, id uint64) (*model.Garage, error) {
	g, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM garages WHERE id = ?", id); err != nil {
		return nil, err
	}
	return g, nil
}
