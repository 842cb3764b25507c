package postgres

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", ConstraintName: invoiceNumberConstraint}
	wrapped := fmt.Errorf("insert sale: %w", dup)

	assert.True(t, isUniqueViolation(wrapped))
	assert.Equal(t, invoiceNumberConstraint, violatedConstraint(wrapped))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "stock_movements_product_id_fkey"}
	assert.False(t, isUniqueViolation(fk))
	assert.Equal(t, "", violatedConstraint(errors.New("conexión cerrada")))
}

func TestNullHelpers(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))
	assert.Equal(t, "lote", derefString(nullIfEmpty("lote")))
	assert.Equal(t, "", derefString(nil))

	assert.Nil(t, nullIfZeroTime(time.Time{}))
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := nullIfZeroTime(now)
	if assert.NotNil(t, got) {
		assert.True(t, got.Equal(now))
	}
}
