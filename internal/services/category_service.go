package services

import (
	"fmt"

	"commerce/internal/models"
	"commerce/internal/repositories"
)

// CategoryService handles business logic related to product categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// GetCategoryByName retrieves a single category by its name.
func (s *CategoryService) GetCategoryByName(name string) (*models.Category, error) {
	return s.repo.GetByName(name)
}

// CreateCategory creates a new category. Category names are unique.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	exists, err := s.repo.ExistsByName(category.Name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("category %q: %w", category.Name, models.ErrCategoryExists)
	}
	return s.repo.Create(category)
}

// UpdateCategory updates a category's name and description. Renaming to a
// name held by another category is a conflict.
func (s *CategoryService) UpdateCategory(id string, update *models.Category) (*models.Category, error) {
	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if existing.Name != update.Name {
		taken, err := s.repo.ExistsByName(update.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("category %q: %w", update.Name, models.ErrCategoryExists)
		}
	}

	existing.Name = update.Name
	existing.Description = update.Description
	if err := s.repo.Update(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteCategory deletes a category by its ID.
func (s *CategoryService) DeleteCategory(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}
