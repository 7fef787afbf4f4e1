package store

import (
	"context"
	"errors"

	"github.com/aizuanjeme/coffeShop/internal/menu/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it
// and hand out sub-repositories, so a transaction scoped Store exposes the
// same repositories as the root one.
type Store interface {
	Drinks() Drinks

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

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

type Drinks interface {
	// ListDrinks returns every drink ordered by id.
	ListDrinks(ctx context.Context) ([]domain.Drink, error)

	GetDrinkByID(ctx context.Context, id int64) (domain.Drink, error)

	// CreateDrink inserts d and returns it with its assigned id. A title
	// already on the menu yields ErrAlreadyExists.
	CreateDrink(ctx context.Context, d domain.Drink) (domain.Drink, error)

	// UpdateDrink replaces the title and recipe of the drink with d.ID.
	UpdateDrink(ctx context.Context, d domain.Drink) (domain.Drink, error)

	// DeleteDrink removes a drink, or returns ErrNotFound.
	DeleteDrink(ctx context.Context, id int64) error

	// IsEmpty returns true if the menu has no drinks.
	IsEmpty(ctx context.Context) (bool, error)
}
