package model

import "time"

// Role values stored in users.role.  A user starts as RoleUser on first
// sign-in; only an admin promotes to vendor/admin or demotes to fraud.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
	RoleFraud  = "fraud"
)

// Account status values stored in users.status.
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  Handlers
// define separate response types with the JSON shape they expose, so the
// struct carries both the public profile fields and the credential hash.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Email        – unique email address; the stable identity across entities.
//	Name         – display name supplied at first sign-in.
//	Photo        – avatar URL (may be empty).
//	PasswordHash – bcrypt hashed password.
//	Role         – one of user, vendor, admin, fraud.
//	Status       – active or banned.
//	CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Photo        string    `json:"photo,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each refresh
// token belongs to a user; only the SHA-256 hash of the token value is
// stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
