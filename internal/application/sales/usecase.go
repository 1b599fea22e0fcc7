// Package sales punto de venta: registro, cancelación y consultas de ventas del tenant.
package sales

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/internal/domain/tenant"
	"github.com/biznexa/biznexa-api/pkg/logger"
)

// TxRunner productos y ventas en una transacción: stock y venta se escriben juntos o nada.
type TxRunner interface {
	RunSales(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// SaleUseCase casos de uso del PDV.
type SaleUseCase struct {
	tx    TxRunner
	sales repository.SaleRepository
	log   *logger.Logger
	now   func() time.Time
}

func NewSaleUseCase(tx TxRunner, sales repository.SaleRepository, log *logger.Logger) *SaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		tx:    tx,
		sales: sales,
		log:   log.Component("sales"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *SaleUseCase) WithClock(now func() time.Time) *SaleUseCase {
	uc.now = now
	return uc
}

// Create registra una venta: bloquea cada producto, valida stock, calcula totales,
// descuenta stock y numera la venta. El cajero es el usuario del scope.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	scope, ok := tenant.FromContext(ctx)
	if !ok {
		return nil, tenant.ErrNoTenant
	}
	if !slices.Contains(entity.SalePaymentMethods, in.PaymentMethod) {
		return nil, domain.NewValidationError("payment_method", "método de pago inválido")
	}
	if in.DiscountAmount.IsNegative() {
		return nil, domain.NewValidationError("discount_amount", "no puede ser negativo")
	}
	if in.AmountPaid.IsNegative() {
		return nil, domain.NewValidationError("amount_paid", "no puede ser negativo")
	}
	saleType := entity.SaleType(in.Type)
	if saleType == "" {
		saleType = entity.SaleStore
	}
	lines, err := mergeItems(in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		CashierID: scope.UserID,
		Customer: entity.SaleCustomer{
			Name:  strings.TrimSpace(in.CustomerName),
			Email: in.CustomerEmail,
			Phone: in.CustomerPhone,
			TaxID: in.CustomerTaxID,
		},
		Type:           saleType,
		Status:         entity.SaleCompleted,
		DiscountAmount: in.DiscountAmount,
		AmountPaid:     in.AmountPaid,
		PaymentMethod:  in.PaymentMethod,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if sale.Customer.Name == "" {
		sale.Customer.Name = entity.WalkInCustomer
	}

	err = uc.tx.RunSales(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		// Primero la numeración: siempre el mismo orden de locks (numeración, luego productos).
		if err := saleRepo.LockNumbering(ctx); err != nil {
			return err
		}
		for _, line := range lines {
			p, err := productRepo.GetByIDForUpdate(ctx, line.productID)
			if err != nil {
				return err
			}
			if p == nil || !p.Active {
				return domain.NewValidationError(line.field, "producto no encontrado o inactivo")
			}
			if p.Stock < line.quantity {
				return fmt.Errorf("%w: %s (disponible %d)", domain.ErrInsufficientStock, p.Name, p.Stock)
			}
			sale.Items = append(sale.Items, entity.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    line.quantity,
				UnitPrice:   p.Price,
				TaxRate:     p.TaxRate,
			})
		}
		sale.ComputeTotals()
		// amount_paid omitido: pago exacto.
		if sale.AmountPaid.IsZero() {
			sale.AmountPaid = sale.TotalAmount
			sale.ComputeTotals()
		}
		if sale.AmountPaid.LessThan(sale.TotalAmount) {
			return domain.NewValidationError("amount_paid", "el monto pagado es menor al total")
		}
		for _, it := range sale.Items {
			if err := productRepo.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
				return err
			}
		}
		seq, err := saleRepo.CountForDay(ctx, now)
		if err != nil {
			return err
		}
		sale.Number = entity.FormatInvoiceNumber(now, seq+1)
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("company_id", scope.CompanyID).
		Str("sale", sale.Number).
		Str("total", sale.TotalAmount.StringFixed(2)).
		Msg("venta registrada")
	out := dto.NewSaleResponse(sale)
	return &out, nil
}

// QuickSale venta de mostrador al cliente avulso.
func (uc *SaleUseCase) QuickSale(ctx context.Context, in dto.QuickSaleRequest) (*dto.SaleResponse, error) {
	return uc.Create(ctx, dto.CreateSaleRequest{
		Items:         in.Items,
		CustomerName:  entity.WalkInCustomer,
		Type:          string(entity.SaleStore),
		PaymentMethod: in.PaymentMethod,
		AmountPaid:    in.AmountPaid,
	})
}

// Cancel marca la venta como cancelada y devuelve el stock de cada ítem.
func (uc *SaleUseCase) Cancel(ctx context.Context, id string) (*dto.SaleResponse, error) {
	var sale *entity.Sale
	now := uc.now()
	err := uc.tx.RunSales(ctx, func(productRepo repository.ProductRepository, saleRepo repository.SaleRepository) error {
		var err error
		sale, err = saleRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status == entity.SaleCancelled {
			return domain.ErrSaleAlreadyCancelled
		}
		for _, it := range sale.Items {
			if err := productRepo.AdjustStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := saleRepo.MarkCancelled(ctx, sale.ID, now); err != nil {
			return err
		}
		sale.Status = entity.SaleCancelled
		sale.CancelledAt = &now
		sale.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale", sale.Number).Msg("venta cancelada")
	out := dto.NewSaleResponse(sale)
	return &out, nil
}

// Get venta del tenant con sus ítems.
func (uc *SaleUseCase) Get(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.NewSaleResponse(sale)
	return &out, nil
}

// List historial con filtros; end_date es inclusivo.
func (uc *SaleUseCase) List(ctx context.Context, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	in.DefaultPage()
	f := repository.SaleFilter{
		Status:        entity.SaleStatus(in.Status),
		Type:          entity.SaleType(in.Type),
		PaymentMethod: in.PaymentMethod,
		Limit:         in.Limit,
		Offset:        in.Offset,
	}
	if in.StartDate != "" {
		d, err := time.Parse(dto.DateLayout, in.StartDate)
		if err != nil {
			return nil, domain.NewValidationError("start_date", "formato esperado YYYY-MM-DD")
		}
		f.From = &d
	}
	if in.EndDate != "" {
		d, err := time.Parse(dto.DateLayout, in.EndDate)
		if err != nil {
			return nil, domain.NewValidationError("end_date", "formato esperado YYYY-MM-DD")
		}
		end := d.AddDate(0, 0, 1)
		f.To = &end
	}
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, domain.NewValidationError("end_date", "debe ser posterior o igual a start_date")
	}

	list, total, err := uc.sales.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}
	for _, s := range list {
		out.Items = append(out.Items, dto.NewSaleResponse(s))
	}
	return out, nil
}

// Today total, cantidad y ticket promedio de las ventas completadas del día (UTC).
func (uc *SaleUseCase) Today(ctx context.Context) (*dto.TodaySalesResponse, error) {
	now := uc.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sum, err := uc.sales.Summary(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	avg := decimal.Zero
	if sum.Count > 0 {
		avg = sum.Total.Div(decimal.NewFromInt(int64(sum.Count))).Round(2)
	}
	return &dto.TodaySalesResponse{
		Date:          start.Format(dto.DateLayout),
		Count:         sum.Count,
		Total:         sum.Total.Round(2),
		AverageTicket: avg,
	}, nil
}

type line struct {
	productID string
	quantity  int
	field     string
}

// mergeItems agrupa líneas del mismo producto y las ordena por id para bloquear las filas
// siempre en el mismo orden.
func mergeItems(items []dto.SaleItemRequest) ([]line, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("items", "la venta requiere al menos un ítem")
	}
	byID := make(map[string]int, len(items))
	var out []line
	for i, it := range items {
		field := fmt.Sprintf("items.%d.product_id", i)
		if it.Quantity <= 0 {
			return nil, domain.NewValidationError(fmt.Sprintf("items.%d.quantity", i), "debe ser mayor a 0")
		}
		if idx, ok := byID[it.ProductID]; ok {
			out[idx].quantity += it.Quantity
			continue
		}
		byID[it.ProductID] = len(out)
		out = append(out, line{productID: it.ProductID, quantity: it.Quantity, field: field})
	}
	slices.SortFunc(out, func(a, b line) int { return strings.Compare(a.productID, b.productID) })
	return out, nil
}
