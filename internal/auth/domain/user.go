package domain

import "time"

// User is an account as stored by the credential store.
type User struct {
	ID           string
	LoginID      string
	PasswordHash string // argon2id PHC string, or bcrypt for imported accounts
	DisplayName  string
	Email        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenSubject is the "sub" claim of tokens issued for u.
func (u User) TokenSubject() string { return u.ID }

// Authorities lists the authorization scopes granted to u.
func (u User) Authorities() []string {
	return []string{u.Role.Authority()}
}
