package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

const defaultUnit = "un"

var maxTaxRate = decimal.NewFromInt(100)

// ProductUseCase catálogo del tenant. El alta respeta el límite de productos del plan.
type ProductUseCase struct {
	tx         TxRunner
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	plans      repository.PlanRepository
	now        func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	tx TxRunner,
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	plans repository.PlanRepository,
) *ProductUseCase {
	return &ProductUseCase{
		tx:         tx,
		repo:       repo,
		categories: categories,
		plans:      plans,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create crea un producto. SKU repetido en el tenant → error de validación.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validateAmounts(in.Price, in.Cost, in.TaxRate); err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CategoryID:  in.CategoryID,
		SKU:         strings.TrimSpace(in.SKU),
		Barcode:     in.Barcode,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		TaxRate:     in.TaxRate,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Unit:        in.Unit,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Unit == "" {
		product.Unit = defaultUnit
	}
	if in.Active != nil {
		product.Active = *in.Active
	}

	err := uc.tx.RunLimited(ctx, func(
		companyRepo repository.CompanyRepository,
		usageRepo repository.UsageRepository,
		_ repository.UserRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := checkLimit(ctx, companyRepo, usageRepo, uc.plans, resourceProducts); err != nil {
			return err
		}
		existing, err := productRepo.GetBySKU(ctx, product.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return duplicateSKU()
		}
		return productRepo.Create(ctx, product)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateSKU()
		}
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// GetByID producto del tenant; de otro tenant es ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Update aplica los campos presentes.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.SKU != nil {
		sku := strings.TrimSpace(*in.SKU)
		if sku != product.SKU {
			other, err := uc.repo.GetBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != product.ID {
				return nil, duplicateSKU()
			}
			product.SKU = sku
		}
	}
	if in.CategoryID != nil {
		catID := in.CategoryID
		if *catID == "" {
			catID = nil
		}
		if err := uc.checkCategory(ctx, catID); err != nil {
			return nil, err
		}
		product.CategoryID = catID
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := validateAmounts(product.Price, product.Cost, product.TaxRate); err != nil {
		return nil, err
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateSKU()
		}
		return nil, err
	}
	out := dto.NewProductResponse(product)
	return &out, nil
}

// Delete elimina un producto del tenant.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List catálogo paginado con búsqueda por nombre/SKU/código de barras.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	f := repository.ProductFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	}
	if in.Active != "" {
		active, err := strconv.ParseBool(in.Active)
		if err != nil {
			return nil, domain.NewValidationError("active", "debe ser true o false")
		}
		f.Active = &active
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: dto.NewProductResponses(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// LowStock productos activos con stock <= min_stock.
func (uc *ProductUseCase) LowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponses(list), nil
}

// BulkUpdate aplica una acción a varios productos. Todo el lote se valida antes de escribir.
// Ids de otro tenant o inexistentes se ignoran, igual que los ítems sin el campo que pide la acción.
func (uc *ProductUseCase) BulkUpdate(ctx context.Context, in dto.BulkUpdateProductsRequest) (*dto.BulkUpdateResponse, error) {
	ve := &domain.ValidationError{}
	for i, item := range in.Products {
		field := "products." + strconv.Itoa(i)
		switch in.Action {
		case dto.BulkUpdatePrice:
			if item.Price != nil && item.Price.IsNegative() {
				ve.Add(field+".price", "no puede ser negativo")
			}
		case dto.BulkUpdateStock:
			if item.Stock != nil && *item.Stock < 0 {
				ve.Add(field+".stock", "no puede ser negativo")
			}
		case dto.BulkActivate, dto.BulkDeactivate:
		default:
			return nil, domain.NewValidationError("action", "debe ser update_price, update_stock, activate o deactivate")
		}
	}
	if len(ve.Fields) > 0 {
		return nil, ve
	}

	now := uc.now()
	updated := 0
	for _, item := range in.Products {
		product, err := uc.repo.GetByID(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			continue
		}
		switch in.Action {
		case dto.BulkUpdatePrice:
			if item.Price == nil {
				continue
			}
			product.Price = *item.Price
		case dto.BulkUpdateStock:
			if item.Stock == nil {
				continue
			}
			product.Stock = *item.Stock
		case dto.BulkActivate:
			product.Active = true
		case dto.BulkDeactivate:
			product.Active = false
		}
		product.UpdatedAt = now
		if err := uc.repo.Update(ctx, product); err != nil {
			return nil, err
		}
		updated++
	}
	return &dto.BulkUpdateResponse{UpdatedCount: updated}, nil
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// checkCategory la categoría debe existir en el tenant.
func (uc *ProductUseCase) checkCategory(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	cat, err := uc.categories.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if cat == nil {
		return domain.NewValidationError("category_id", "la categoría no existe")
	}
	return nil
}

func validateAmounts(price, cost, taxRate decimal.Decimal) error {
	ve := &domain.ValidationError{}
	if price.IsNegative() {
		ve.Add("price", "no puede ser negativo")
	}
	if cost.IsNegative() {
		ve.Add("cost", "no puede ser negativo")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(maxTaxRate) {
		ve.Add("tax_rate", "debe estar entre 0 y 100")
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func duplicateSKU() error {
	return domain.NewValidationError("sku", "ya existe un producto con este SKU")
}
