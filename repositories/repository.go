// Package repositories maps the relational schema to models through gorm.
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a lookup by key matches no row.
var ErrNotFound = errors.New("record not found")

// ErrInUse is returned when a row is still referenced elsewhere.
var ErrInUse = errors.New("record is referenced")

// RunInTx executes fn inside a transaction bound to ctx. Any returned
// error rolls the whole transaction back.
func RunInTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// forUpdate adds a row lock on drivers that support it. SQLite ignores
// the clause and serializes writers instead.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
