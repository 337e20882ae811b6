package usecase

import (
	"context"
	"time"

	"github.com/backoffice/treasury/internal/domain"
)

// CategoryUseCase handles category reference data.
type CategoryUseCase struct {
	categoryRepo CategoryRepository
	idGen        IDGenerator
}

// NewCategoryUseCase creates a new CategoryUseCase.
func NewCategoryUseCase(categoryRepo CategoryRepository, idGen IDGenerator) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		idGen:        idGen,
	}
}

// CreateCategory registers a category.
func (uc *CategoryUseCase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if err := domain.ValidateName(name); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:        uc.idGen.Generate(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories lists all categories.
func (uc *CategoryUseCase) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return uc.categoryRepo.List(ctx)
}
