package repositories

import (
	"commerce/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetActive() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetByCategory(categoryID string) ([]models.Product, error)
	Search(keyword string) ([]models.Product, error)
	GetAvailable() ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error

	// DeductStock decrements the product's stock by quantity. It fails with
	// models.ErrInsufficientStock if the decrement would take stock negative,
	// which makes it the authoritative check during order creation.
	DeductStock(id string, quantity int) error
	// RestoreStock unconditionally adds quantity back to the product's stock.
	RestoreStock(id string, quantity int) error
}
