package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/utils"
)

// UserRepo provides access to the `users` table.  Role and status changes
// are plain single-row updates; the vendor-ban cascade into tickets lives in
// the handler because the two results are reported separately to the caller.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the default role and returns its ID.  The
// password may be empty for identities that only ever sign in through the
// token flow; an empty password never verifies.
func (r *UserRepo) Create(ctx context.Context, email, name, photo, password string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var hash string
	if password != "" {
		h, err := utils.HashPassword(password, cost)
		if err != nil {
			return 0, err
		}
		hash = h
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, name, photo, password_hash, role, status) VALUES (?,?,?,?,?,?)",
		email, name, photo, hash, model.RoleUser, model.StatusActive)
	if err != nil {
		// 1062 = duplicate key on the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,photo,password_hash,role,status,created_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.Name, &u.Photo, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,name,photo,password_hash,role,status,created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.Name, &u.Photo, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// RoleByEmail returns the stored role for an email.  Unknown emails default
// to the base role so that a fresh identity can use the site before its
// first-sign-in record lands.
func (r *UserRepo) RoleByEmail(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var role string
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM users WHERE email=? LIMIT 1", email).Scan(&role)
	if err == sql.ErrNoRows {
		return model.RoleUser, nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// List returns all users, newest first.  Admin surface only.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,email,name,photo,role,status,created_at FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Photo, &u.Role, &u.Status, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// SetRole updates a single user's role.  Used by the admin promotion
// endpoints; the fraud transition goes through Ban instead so the status
// flips in the same statement.
func (r *UserRepo) SetRole(ctx context.Context, id uint64, role string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET role=? WHERE id=?", role, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Ban marks the user as fraud/banned and returns the affected row count
// together with the user's email so the caller can cascade into tickets.
func (r *UserRepo) Ban(ctx context.Context, id uint64) (int64, string, error) {
	var email string
	err := r.DB.QueryRowContext(ctx, "SELECT email FROM users WHERE id=? LIMIT 1", id).Scan(&email)
	if err == sql.ErrNoRows {
		return 0, "", ErrNotFound
	}
	if err != nil {
		return 0, "", err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, status=? WHERE id=?", model.RoleFraud, model.StatusBanned, id)
	if err != nil {
		return 0, "", err
	}
	n, err := res.RowsAffected()
	return n, email, err
}

// Delete removes a user row.  Admin surface only.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
