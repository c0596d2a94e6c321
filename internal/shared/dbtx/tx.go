// Package dbtx carries a gorm transaction through a context so repositories
// from different packages can join one unit of work.
package dbtx

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx runs fn inside a transaction. If ctx already carries one, fn joins it.
func WithTx(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction carried by ctx, or db bound to ctx.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// Transactor is the interface services depend on to open a unit of work.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTransactor implements Transactor on a gorm connection.
type GormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, t.db, fn)
}

// NoopTransactor runs fn directly. Used with in-memory stores.
type NoopTransactor struct{}

func (NoopTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
