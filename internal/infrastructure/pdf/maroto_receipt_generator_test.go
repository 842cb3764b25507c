package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/application/sales"
)

func TestMoney_SeparadoresEnEspanol(t *testing.T) {
	g := NewMarotoReceiptGenerator()
	assert.Equal(t, "$12.345,50", g.money(decimal.RequireFromString("12345.5")))
	assert.Equal(t, "$0,00", g.money(decimal.Zero))
}

func TestDescribe_AgregaAtributos(t *testing.T) {
	assert.Equal(t, "Camisa (Norte / M / Azul)", describe(dto.SaleLineResponse{
		ProductName: "Camisa", Brand: "Norte", Size: "M", Color: "Azul",
	}))
	assert.Equal(t, "Gorra", describe(dto.SaleLineResponse{ProductName: "Gorra"}))
}

func TestLocalTime_ZonaInvalidaUsaUTC(t *testing.T) {
	at := time.Date(2026, 3, 6, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.UTC, localTime(at, "Zona/Inexistente").Location())
	assert.Equal(t, 5, localTime(at, "America/Bogota").Day())
}

func TestGenerateReceiptPDF_DevuelvePDF(t *testing.T) {
	sale := &dto.SaleDetailResponse{
		ID:            "s-1",
		InvoiceNumber: "INV-20260305-0A1B2C",
		SaleType:      "retail",
		PaymentMethod: "cash",
		TotalAmount:   decimal.RequireFromString("55.75"),
		CreatedAt:     time.Date(2026, 3, 5, 15, 0, 0, 0, time.UTC),
		Items: []dto.SaleLineResponse{
			{ProductName: "Gorra", Quantity: 3, UnitPrice: decimal.RequireFromString("5.25"), Subtotal: decimal.RequireFromString("15.75")},
			{ProductName: "Camisa", Brand: "Norte", Quantity: 1, UnitPrice: decimal.NewFromInt(40), Subtotal: decimal.NewFromInt(40)},
		},
	}

	out, err := NewMarotoReceiptGenerator().GenerateReceiptPDF(context.Background(), sale, sales.ReceiptInfo{
		StoreName: "Tienda Centro",
		Timezone:  "America/Bogota",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un documento PDF")
}
