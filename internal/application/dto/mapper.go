package dto

import "github.com/biznexa/biznexa-api/internal/domain/entity"

// Conversión entidad -> respuesta, compartida por los casos de uso.

// NewPlanResponse mapea un plan.
func NewPlanResponse(p *entity.Plan) PlanResponse {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	return PlanResponse{
		ID:             p.ID,
		Code:           p.Code,
		Name:           p.Name,
		Description:    p.Description,
		PriceMonthly:   p.PriceMonthly,
		PriceYearly:    p.PriceYearly,
		UserLimit:      p.UserLimit,
		ProductLimit:   p.ProductLimit,
		StorageLimitMB: p.StorageLimitMB,
		Features:       features,
	}
}

// NewPendingDowngradeResponse nil si no hay downgrade programado.
func NewPendingDowngradeResponse(pd *entity.PendingDowngrade) *PendingDowngradeResponse {
	if pd == nil {
		return nil
	}
	return &PendingDowngradeResponse{
		FromPlanID:    pd.FromPlanID,
		ToPlanID:      pd.ToPlanID,
		ToPlanCode:    pd.ToPlanCode,
		EffectiveDate: pd.EffectiveDate,
		RequestedAt:   pd.RequestedAt,
	}
}

// NewSubscriptionResponse mapea una suscripción.
func NewSubscriptionResponse(s *entity.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                 s.ID,
		CompanyID:          s.CompanyID,
		PlanID:             s.PlanID,
		BillingCycle:       string(s.BillingCycle),
		Status:             string(s.Status),
		Price:              s.Price,
		PaymentMethod:      s.PaymentMethod,
		StartsAt:           s.StartsAt,
		NextBillingDate:    s.NextBillingDate,
		AutoRenew:          s.AutoRenew,
		CancelledAt:        s.CancelledAt,
		CancellationReason: s.CancellationReason,
		PendingDowngrade:   NewPendingDowngradeResponse(s.PendingDowngrade),
		Metadata:           s.Metadata,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// NewInvoiceResponse mapea una factura de suscripción.
func NewInvoiceResponse(i *entity.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(i.Items))
	for _, it := range i.Items {
		items = append(items, InvoiceItemResponse{Description: it.Description, Amount: it.Amount})
	}
	return InvoiceResponse{
		ID:             i.ID,
		SubscriptionID: i.SubscriptionID,
		Number:         i.Number,
		Amount:         i.Amount,
		Tax:            i.Tax,
		Total:          i.Total,
		Currency:       i.Currency,
		Status:         string(i.Status),
		DueDate:        i.DueDate,
		PaidAt:         i.PaidAt,
		PaymentID:      i.PaymentID,
		Items:          items,
		CreatedAt:      i.CreatedAt,
	}
}

// NewCompanyResponse mapea una empresa.
func NewCompanyResponse(c *entity.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		LegalName:          c.LegalName,
		TaxID:              c.TaxID,
		Email:              c.Email,
		Phone:              c.Phone,
		Website:            c.Website,
		Address:            c.Address,
		City:               c.City,
		State:              c.State,
		Country:            c.Country,
		PostalCode:         c.PostalCode,
		Timezone:           c.Timezone,
		Currency:           c.Currency,
		Language:           c.Language,
		Active:             c.Active,
		PlanID:             c.PlanID,
		SubscriptionEndsAt: c.SubscriptionEndsAt,
		CreatedAt:          c.CreatedAt,
	}
}

// NewUserResponse mapea un usuario sin el hash de password.
func NewUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		CompanyID:   u.CompanyID,
		Name:        u.Name,
		Email:       u.Email,
		Phone:       u.Phone,
		Roles:       u.RoleStrings(),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewProductResponse mapea un producto.
func NewProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		CategoryID:  p.CategoryID,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		TaxRate:     p.TaxRate,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Active:      p.Active,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProductResponses mapea una lista de productos (nunca nil).
func NewProductResponses(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, NewProductResponse(p))
	}
	return out
}

// NewCategoryResponse mapea una categoría.
func NewCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// NewSaleResponse mapea una venta con sus ítems (si fueron cargados).
func NewSaleResponse(s *entity.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
			TaxAmount:   it.TaxAmount,
		})
	}
	return SaleResponse{
		ID:             s.ID,
		Number:         s.Number,
		CashierID:      s.CashierID,
		CustomerName:   s.Customer.Name,
		CustomerEmail:  s.Customer.Email,
		CustomerPhone:  s.Customer.Phone,
		CustomerTaxID:  s.Customer.TaxID,
		Type:           string(s.Type),
		Status:         string(s.Status),
		Subtotal:       s.Subtotal,
		TaxAmount:      s.TaxAmount,
		DiscountAmount: s.DiscountAmount,
		TotalAmount:    s.TotalAmount,
		AmountPaid:     s.AmountPaid,
		ChangeAmount:   s.ChangeAmount,
		PaymentMethod:  s.PaymentMethod,
		Notes:          s.Notes,
		Items:          items,
		CancelledAt:    s.CancelledAt,
		CreatedAt:      s.CreatedAt,
	}
}

// NewStoreResponse mapea la tienda; URL es la ruta pública por slug.
func NewStoreResponse(s *entity.Store) StoreResponse {
	return StoreResponse{
		ID:          s.ID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		Logo:        s.Logo,
		CoverImage:  s.CoverImage,
		Settings:    s.Settings,
		Published:   s.Published,
		PublishedAt: s.PublishedAt,
		URL:         "/loja/" + s.Slug,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewBusinessResponse mapea una entrada del directorio.
func NewBusinessResponse(b *entity.Business) BusinessResponse {
	return BusinessResponse{
		ID:            b.CompanyID,
		Name:          b.Name,
		City:          b.City,
		State:         b.State,
		Phone:         b.Phone,
		Email:         b.Email,
		Website:       b.Website,
		Plan:          b.PlanCode,
		StoreName:     b.StoreName,
		StoreSlug:     b.StoreSlug,
		Description:   b.StoreDescription,
		Logo:          b.StoreLogo,
		Highlighted:   b.Highlighted,
		ProductsCount: b.ProductsCount,
		VisitsCount:   b.VisitsCount,
		MemberSince:   b.CreatedAt,
	}
}
