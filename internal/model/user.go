package model

import "time"

// Role enumerates the access levels a user can hold. The string values
// are stored verbatim in the users.role column and embedded in JWT
// claims, so they must never change.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

// User mirrors a row of the `users` table. PasswordHash holds the
// bcrypt digest; the plain password is never persisted.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique, lowercased)
	Username     string    // users.username (unique)
	PasswordHash string    // users.password_hash
	Role         Role      // users.role ('admin' | 'user')
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
