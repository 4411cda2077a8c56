package repository

import (
	"context"

	"gorm.io/gorm"
)

type ctxKey int

// dbKey carries the open transaction through the contexts a service passes
// down to its repositories.
const dbKey ctxKey = 0

// TransactionManager runs a function inside one database transaction. The
// sale flow needs this: creating the outbound record and flipping the vehicle
// to SOLD must land together or not at all, and the payment batch has the
// same all-or-nothing requirement.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &txManager{db: db}
}

func (m *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, dbKey, tx))
	})
}

// GetDB returns the transaction bound to ctx when RunInTx put one there,
// otherwise the root handle. Repositories call this on every query so the
// same method works inside and outside a transaction.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(dbKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
