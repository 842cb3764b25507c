package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-inventario/internal/application/dto"
	"github.com/jhoicas/pos-inventario/internal/domain"
	"github.com/jhoicas/pos-inventario/internal/domain/entity"
	"github.com/jhoicas/pos-inventario/internal/domain/repository"
)

// ProductUseCase casos de uso del registro de productos. El stock no es un campo del producto:
// se deriva del libro y se adjunta a la respuesta.
type ProductUseCase struct {
	repo    repository.ProductRepository
	movRepo repository.StockMovementRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, movRepo repository.StockMovementRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, movRepo: movRepo}
}

// Create crea un nuevo producto. ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" || in.Name == "" {
		return nil, fmt.Errorf("sku y name son requeridos: %w", domain.ErrInvalidInput)
	}
	if err := validatePrices(in.PurchasePrice, in.RetailPrice, in.WholesalePrice); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           in.Name,
		Category:       in.Category,
		Brand:          in.Brand,
		Size:           in.Size,
		Color:          in.Color,
		Supplier:       in.Supplier,
		PurchasePrice:  in.PurchasePrice,
		RetailPrice:    in.RetailPrice,
		WholesalePrice: in.WholesalePrice,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	stock := 0
	resp := toProductResponse(product)
	resp.CurrentStock = &stock
	return resp, nil
}

// GetByID obtiene un producto con su stock actual. (nil, nil) si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	level, err := uc.movRepo.StockLevel(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toProductResponse(product)
	stock := level.Current()
	resp.CurrentStock = &stock
	return resp, nil
}

// Update aplica solo los campos presentes. Cambiar precios no altera ventas ni movimientos
// registrados: cada línea guarda su propio precio. (nil, nil) si no existe.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("name no puede ser vacío: %w", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Size != nil {
		product.Size = *in.Size
	}
	if in.Color != nil {
		product.Color = *in.Color
	}
	if in.Supplier != nil {
		product.Supplier = *in.Supplier
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.RetailPrice != nil {
		product.RetailPrice = *in.RetailPrice
	}
	if in.WholesalePrice != nil {
		product.WholesalePrice = *in.WholesalePrice
	}
	if err := validatePrices(product.PurchasePrice, product.RetailPrice, product.WholesalePrice); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por nombre con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	levels, err := uc.movRepo.StockLevels(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		resp := toProductResponse(p)
		stock := levels[p.ID].Current()
		resp.CurrentStock = &stock
		items = append(items, *resp)
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func validatePrices(prices ...decimal.Decimal) error {
	for _, p := range prices {
		if p.IsNegative() {
			return fmt.Errorf("los precios no pueden ser negativos: %w", domain.ErrInvalidInput)
		}
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Category:       p.Category,
		Brand:          p.Brand,
		Size:           p.Size,
		Color:          p.Color,
		Supplier:       p.Supplier,
		PurchasePrice:  p.PurchasePrice,
		RetailPrice:    p.RetailPrice,
		WholesalePrice: p.WholesalePrice,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
