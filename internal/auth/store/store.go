package store

import (
	"context"
	"errors"

	"github.com/mgplatform/mgapi/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Repositories hang off it as methods so a Tx-scoped Store
// can hand out the same repositories bound to the transaction.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. fn returning an error rolls
	// the transaction back, nil commits it.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the credential store. Lookups return ErrNotFound when no row
// matches.
type Users interface {
	// GetUserByID resolves the subject of an access token.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByLoginID is used during login.
	GetUserByLoginID(ctx context.Context, loginID string) (domain.User, error)

	// CreateUser inserts a new user. A duplicate id or login id yields
	// ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}
