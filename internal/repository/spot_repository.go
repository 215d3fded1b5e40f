package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/parking-garage-api/internal/model"
)

const spotCols = `id, garage_alias, garage_zipcode, garage_rate_compact, garage_rate_regular,
	garage_rate_large, vehicle_type, status, rate, created_at, updated_at`

// SpotRepo encapsulates all database queries against the spots table. The
// owning garage is stored as denormalized snapshot columns; there is no
// foreign key back to garages, so garage deletion orphans spots on
// purpose.
type SpotRepo struct {
	db *sql.DB
}

// NewSpotRepo constructs a SpotRepo with the provided DB handle.
func NewSpotRepo(db *sql.DB) *SpotRepo {
	return &SpotRepo{db: db}
}

func scanSpot(row interface{ Scan(...any) error }, s *model.Spot) error {
	return row.Scan(&s.ID, &s.Garage.Alias, &s.Garage.Zipcode, &s.Garage.RateCompact,
		&s.Garage.RateRegular, &s.Garage.RateLarge, &s.VehicleType, &s.Status, &s.Rate,
		&s.CreatedAt, &s.UpdatedAt)
}

// Create inserts a new spot and populates its ID and timestamps from the
// persisted row. The caller has already derived the rate.
func (r *SpotRepo) Create(ctx context.Context, s *model.Spot) error {
	const q = `INSERT INTO spots (garage_alias, garage_zipcode, garage_rate_compact,
	           garage_rate_regular, garage_rate_large, vehicle_type, status, rate)
	           VALUES (?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, s.Garage.Alias, s.Garage.Zipcode,
		s.Garage.RateCompact, s.Garage.RateRegular, s.Garage.RateLarge,
		s.VehicleType, s.Status, s.Rate)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	got, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *got
	return nil
}

// GetByID fetches a spot by id, or ErrNotFound.
func (r *SpotRepo) GetByID(ctx context.Context, id uint64) (*model.Spot, error) {
	var s model.Spot
	err := scanSpot(r.db.QueryRowContext(ctx,
		"SELECT "+spotCols+" FROM spots WHERE id = ?", id), &s)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all spots in insertion order.
func (r *SpotRepo) List(ctx context.Context) ([]*model.Spot, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+spotCols+" FROM spots ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Spot
	for rows.Next() {
		s := new(model.Spot)
		if err := scanSpot(rows, s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update merges the given column/value pairs into an existing spot and
// returns the updated record, or ErrNotFound. The rate column, when
// present, was injected by the update workflow, never by the client.
func (r *SpotRepo) Update(ctx context.Context, id uint64, fields map[string]any) (*model.Spot, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	set, args := setClause(fields)
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE spots SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a spot and returns the removed record, or ErrNotFound.
func (r *SpotRepo) Delete(ctx context.Context, id uint64) (*model.Spot, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM spots WHERE id = ?", id); err != nil {
		return nil, err
	}
	return s, nil
}
