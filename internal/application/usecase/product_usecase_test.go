package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/usecase"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/infrastructure/memory"
)

func newProductUseCase() (*usecase.ProductUseCase, *memory.Store) {
	store := memory.New()
	return usecase.NewProductUseCase(store.Products(), store.Movements()), store
}

func validCreate(sku string) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		SKU:            sku,
		Name:           "Camisa Oxford",
		Category:       "Camisas",
		Brand:          "Norte",
		Size:           "M",
		Color:          "Azul",
		PurchasePrice:  decimal.RequireFromString("20.00"),
		RetailPrice:    decimal.RequireFromString("45.00"),
		WholesalePrice: decimal.RequireFromString("35.00"),
	}
}

func TestProductCreate_SKUDuplicado(t *testing.T) {
	uc, _ := newProductUseCase()
	out, err := uc.Create(context.Background(), validCreate("CAM-001"))
	require.NoError(t, err)
	require.NotNil(t, out.CurrentStock)
	assert.Equal(t, 0, *out.CurrentStock)

	_, err = uc.Create(context.Background(), validCreate("CAM-001"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductCreate_Validaciones(t *testing.T) {
	uc, _ := newProductUseCase()

	in := validCreate("  ")
	_, err := uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = validCreate("CAM-002")
	in.RetailPrice = decimal.NewFromInt(-1)
	_, err = uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_SoloCamposPresentes(t *testing.T) {
	uc, _ := newProductUseCase()
	created, err := uc.Create(context.Background(), validCreate("CAM-003"))
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("49.90")
	color := "Negro"
	out, err := uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{
		RetailPrice: &newPrice,
		Color:       &color,
	})
	require.NoError(t, err)
	assert.True(t, newPrice.Equal(out.RetailPrice))
	assert.Equal(t, "Negro", out.Color)
	assert.Equal(t, "Camisa Oxford", out.Name)
	assert.Equal(t, "CAM-003", out.SKU)

	empty := " "
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.Update(context.Background(), "no-existe", dto.UpdateProductRequest{Color: &color})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductGetByID_IncluyeStockDelLibro(t *testing.T) {
	uc, store := newProductUseCase()
	created, err := uc.Create(context.Background(), validCreate("CAM-004"))
	require.NoError(t, err)
	require.NoError(t, store.Movements().Create(context.Background(), &entity.StockMovement{
		ID: "m-1", ProductID: created.ID, Direction: entity.DirectionIn, Quantity: 12, CreatedAt: time.Now(),
	}))

	out, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, out.CurrentStock)
	assert.Equal(t, 12, *out.CurrentStock)

	list, err := uc.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, 12, *list.Items[0].CurrentStock)

	none, err := uc.GetByID(context.Background(), "no-existe")
	require.NoError(t, err)
	assert.Nil(t, none)
}
