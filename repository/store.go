// Package repository implements the model repositories on top of gorm and
// PostgreSQL.
package repository

import (
	"context"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the gorm-backed models.Store. The zero value is not usable; call New.
type Store struct {
	db *gorm.DB
}

var _ models.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for admin queries that have no repository.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Products() models.ProductRepository  { return &ProductRepository{db: s.db} }
func (s *Store) Promos() models.PromoRepository      { return &PromoRepository{db: s.db} }
func (s *Store) Carts() models.CartRepository        { return &CartRepository{db: s.db} }
func (s *Store) Orders() models.OrderRepository      { return &OrderRepository{db: s.db} }
func (s *Store) Addresses() models.AddressRepository { return &AddressRepository{db: s.db} }

// Transaction runs fn inside one database transaction. Nested calls reuse
// the outer transaction through gorm's savepoints.
func (s *Store) Transaction(ctx context.Context, fn func(tx models.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(models.All()...), "auto migrate")
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// translate maps gorm sentinels onto the model ones and annotates the rest.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrRecordNotFound
	}
	// Needs gorm.Config.TranslateError.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrConflict
	}
	return errors.Wrap(err, op)
}
