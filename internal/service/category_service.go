package service

import (
	"context"
	"jadwal/program-vault/internal/domain"
	"jadwal/program-vault/internal/repository"
)

// CategoryService serves the public category taxonomy. Creation is an admin
// concern and lives on AdminService.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new instance of categoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}
