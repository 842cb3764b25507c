package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

func seed(t *testing.T, store *memory.Store) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:            uuid.NewString(),
		SKU:           "SKU-" + uuid.NewString()[:8],
		Name:          "Camisa",
		PurchasePrice: decimal.NewFromInt(10),
		RetailPrice:   decimal.NewFromInt(20),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func TestLockForUpdate_CancelacionMientrasEspera(t *testing.T) {
	store := memory.New()
	p := seed(t, store)

	locked := make(chan struct{})
	release := make(chan struct{})
	holder := make(chan error, 1)
	go func() {
		holder <- store.Run(context.Background(), func(_ repository.StockMovementRepository, products repository.ProductRepository) error {
			if _, err := products.LockForUpdate(context.Background(), []string{p.ID}); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	ctx, cancel := context.WithCancel(context.Background())
	waiter := make(chan error, 1)
	reachedBody := false
	go func() {
		waiter <- store.Run(ctx, func(movs repository.StockMovementRepository, products repository.ProductRepository) error {
			if _, err := products.LockForUpdate(ctx, []string{p.ID}); err != nil {
				return err
			}
			reachedBody = true
			return movs.Create(ctx, &entity.StockMovement{
				ID: uuid.NewString(), ProductID: p.ID, Direction: entity.DirectionIn, Quantity: 1, CreatedAt: time.Now(),
			})
		})
	}()

	cancel()
	close(release)
	require.NoError(t, <-holder)

	err := <-waiter
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, reachedBody, "la transacción cancelada no debe seguir tras obtener el bloqueo")

	level, err := store.Movements().StockLevel(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, level.Current())
}
