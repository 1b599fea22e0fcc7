package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
	"github.com/biznexa/biznexa-api/pkg/slug"
)

// StoreUseCase tienda online del tenant (una por empresa).
type StoreUseCase struct {
	repo repository.StoreRepository
	now  func() time.Time
}

func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock reemplaza el reloj (tests).
func (uc *StoreUseCase) WithClock(now func() time.Time) *StoreUseCase {
	uc.now = now
	return uc
}

func (uc *StoreUseCase) Get(ctx context.Context) (*dto.StoreResponse, error) {
	store, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	out := dto.NewStoreResponse(store)
	return &out, nil
}

// Update el slug se normaliza y debe ser único entre todas las tiendas.
func (uc *StoreUseCase) Update(ctx context.Context, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		store.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		s := slug.Make(*in.Slug)
		if s == "" {
			return nil, domain.NewValidationError("slug", "el slug no puede quedar vacío")
		}
		if s != store.Slug {
			taken, err := uc.repo.SlugTaken(ctx, s)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, duplicateSlug()
			}
			store.Slug = s
		}
	}
	if in.Description != nil {
		store.Description = *in.Description
	}
	if in.Logo != nil {
		store.Logo = *in.Logo
	}
	if in.CoverImage != nil {
		store.CoverImage = *in.CoverImage
	}
	if in.Settings != nil {
		if err := validateStorefront(*in.Settings); err != nil {
			return nil, err
		}
		store.Settings = *in.Settings
	}
	store.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, store); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateSlug()
		}
		return nil, err
	}
	out := dto.NewStoreResponse(store)
	return &out, nil
}

// Publish requiere nombre, slug y al menos un producto activo.
func (uc *StoreUseCase) Publish(ctx context.Context) (*dto.StoreResponse, error) {
	store, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	var missing []string
	if strings.TrimSpace(store.Name) == "" {
		missing = append(missing, "name")
	}
	if store.Slug == "" {
		missing = append(missing, "slug")
	}
	active, err := uc.repo.CountActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	if active == 0 {
		missing = append(missing, "products")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: falta %s", domain.ErrStoreNotPublishable, strings.Join(missing, ", "))
	}
	if !store.Published {
		now := uc.now()
		store.Published = true
		store.PublishedAt = &now
		store.UpdatedAt = now
		if err := uc.repo.Update(ctx, store); err != nil {
			return nil, err
		}
	}
	out := dto.NewStoreResponse(store)
	return &out, nil
}

// Unpublish retira la tienda del directorio y de la URL pública.
func (uc *StoreUseCase) Unpublish(ctx context.Context) (*dto.StoreResponse, error) {
	store, err := uc.current(ctx)
	if err != nil {
		return nil, err
	}
	if store.Published {
		store.Published = false
		store.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, store); err != nil {
			return nil, err
		}
	}
	out := dto.NewStoreResponse(store)
	return &out, nil
}

// Stats visitas totales y del mes, ventas online y conversión (ventas / visitas × 100).
func (uc *StoreUseCase) Stats(ctx context.Context) (*dto.StoreStatsResponse, error) {
	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	st, err := uc.repo.Stats(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	conversion := decimal.Zero
	if st.TotalVisits > 0 {
		conversion = decimal.NewFromInt(int64(st.OnlineSales)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(st.TotalVisits))).
			Round(2)
	}
	return &dto.StoreStatsResponse{
		TotalVisits:    st.TotalVisits,
		MonthVisits:    st.MonthVisits,
		OnlineSales:    st.OnlineSales,
		ConversionRate: conversion,
	}, nil
}

func (uc *StoreUseCase) current(ctx context.Context) (*entity.Store, error) {
	store, err := uc.repo.Current(ctx)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrNotFound
	}
	return store, nil
}

func validateStorefront(s entity.StorefrontSettings) error {
	ve := &domain.ValidationError{}
	if s.DeliveryFee != nil && s.DeliveryFee.IsNegative() {
		ve.Add("settings.delivery_fee", "no puede ser negativo")
	}
	if s.DeliveryRadius != nil && s.DeliveryRadius.IsNegative() {
		ve.Add("settings.delivery_radius", "no puede ser negativo")
	}
	for _, m := range s.PaymentMethods {
		if !slices.Contains(entity.SalePaymentMethods, m) {
			ve.Add("settings.payment_methods", "método desconocido: "+m)
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

func duplicateSlug() error {
	return domain.NewValidationError("slug", "el slug ya está en uso")
}
