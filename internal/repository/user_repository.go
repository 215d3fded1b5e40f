package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/parking-garage-api/internal/model"
)

const userCols = "id, first_name, last_name, email, password_hash, admin, created_at, updated_at"

// UserRepo encapsulates all database queries against the users table.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the provided DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row interface{ Scan(...any) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.Admin, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts a user with an already-hashed password. The email's
// unique index turns duplicates into ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	const q = "INSERT INTO users (first_name, last_name, email, password_hash, admin) VALUES (?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Admin)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	got, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *got
	return nil
}

// GetByEmail fetches a user by normalized email, or ErrNotFound.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email = ? LIMIT 1", email), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID fetches a user by id, or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id = ? LIMIT 1", id), &u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns all users sorted by first name.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+userCols+" FROM users ORDER BY first_name, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.User
	for rows.Next() {
		u := new(model.User)
		if err := scanUser(rows, u); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update merges the given column/value pairs into an existing user and
// returns the updated record, or ErrNotFound.
func (r *UserRepo) Update(ctx context.Context, id uint64, fields map[string]any) (*model.User, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}
	set, args := setClause(fields)
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+set+", updated_at = CURRENT_TIMESTAMP WHERE id = ?", args...); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) (*model.User, error) {
	return r.Update(ctx, id, map[string]any{"password_hash": passwordHash})
}

// Delete removes a user and returns the removed record, or ErrNotFound.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (*model.User, error) {
	u, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id); err != nil {
		return nil, err
	}
	return u, nil
}
