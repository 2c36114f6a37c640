package database

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type txKey struct{}

// Conn returns the handle bound to ctx: the enclosing transaction when one
// is open, the root pool otherwise. Repositories must obtain their handle
// through this so that use-case transactions cover every read and write.
func (d *DB) Conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.gorm.WithContext(ctx)
}

// WithinTx runs fn inside one database transaction. Any error rolls the
// whole transaction back. Nested calls join the already open transaction.
func (d *DB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.gorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// LockForUpdate adds a row-level write lock to the query. This is the
// lost-update protection for budget consumption and goal progress: readers
// that intend to write take the lock inside the use-case transaction.
// sqlite (used by tests) is single-writer and has no FOR UPDATE.
func LockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
