package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/parking-garage-api/internal/model"
)

const vehicleCols = "id, owner_first_name, owner_last_name, vehicle_type, license, created_at, updated_at"

// VehicleRepo encapsulates all database queries against the vehicles
// table. The owning user is stored as denormalized name columns copied
// from the caller's token at creation time.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo constructs a VehicleRepo with the provided DB handle.
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func scanVehicle(row interface{ Scan(...any) error }, v *model.Vehicle) error {
	return row.Scan(&v.ID, &v.User.FirstName, &v.User.LastName, &v.VehicleType,
		&v.License, &v.CreatedAt, &v.UpdatedAt)
}

// Create inserts a new vehicle and populates its ID and timestamps from
// the persisted row.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	const q = `INSERT INTO vehicles (owner_first_name, owner_last_name, vehicle_type, license)
	           VALUES (?,?,?,?)`
	res, err := r.db.ExecContext(ctx, q, v.User.FirstName, v.User.LastName, v.VehicleType, v.License)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	got, err := r.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	*v = *got
	return nil
}

// GetByID fetches a vehicle by id, or ErrNotFound.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*model.Vehicle, error) {
	var v model.Vehicle
	err := scanVehicle(r.db.QueryRowContext(ctx,
		"SELECT "+vehicleCols+" FROM vehicles WHERE id = ?", id), &v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns all vehicles in insertion order.
func (r *VehicleRepo) List(ctx context.Context) ([]*model.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+vehicleCols+" FROM vehicles ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Vehicle
	for rows.Next() {
		v := new(model.Vehicle)
		if err := scanVehicle(rows, v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update merges the given column/value pairs into an existing vehicle and
// returns the updated record, or ErrNotFound.
func (r *VehicleRepo) Update(ctx context.Context, id uint64, fields map[string]any) (*model.Vehicle, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	set, args := setClause(fields)
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE vehicles SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a vehicle and returns the removed record, or ErrNotFound.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) (*model.Vehicle, error) {
	v, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM vehicles WHERE id = ?", id); err != nil {
		return nil, err
	}
	return v, nil
}
