package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/biznexa/biznexa-api/internal/application/dto"
	"github.com/biznexa/biznexa-api/internal/domain"
	"github.com/biznexa/biznexa-api/internal/domain/entity"
	"github.com/biznexa/biznexa-api/internal/domain/repository"
)

// CategoryUseCase categorías del tenant; el nombre es único por empresa.
type CategoryUseCase struct {
	repo repository.CategoryRepository
	now  func() time.Time
}

func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := uc.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	now := uc.now()
	cat := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, cat); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateCategory()
		}
		return nil, err
	}
	out := dto.NewCategoryResponse(cat)
	return &out, nil
}

func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	cat, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.NewCategoryResponse(cat)
	return &out, nil
}

func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	cat, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := uc.ensureNameFree(ctx, name, cat.ID); err != nil {
			return nil, err
		}
		cat.Name = name
	}
	if in.Description != nil {
		cat.Description = *in.Description
	}
	if in.Active != nil {
		cat.Active = *in.Active
	}
	cat.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, cat); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, duplicateCategory()
		}
		return nil, err
	}
	out := dto.NewCategoryResponse(cat)
	return &out, nil
}

func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List todas las categorías del tenant ordenadas por nombre.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.ListByCompany(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.NewCategoryResponse(c))
	}
	return out, nil
}

func (uc *CategoryUseCase) get(ctx context.Context, id string) (*entity.Category, error) {
	cat, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, domain.ErrNotFound
	}
	return cat, nil
}

func (uc *CategoryUseCase) ensureNameFree(ctx context.Context, name, selfID string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return duplicateCategory()
	}
	return nil
}

func duplicateCategory() error {
	return domain.NewValidationError("name", "ya existe una categoría con este nombre")
}
