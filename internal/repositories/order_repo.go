package repositories

import (
	"commerce/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// loaded as fully-populated snapshots with their items.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	GetByStatus(status models.OrderStatus) ([]models.Order, error)
	Create(order *models.Order) error
	// Save persists the order's mutable fields (status) along with its items.
	Save(order *models.Order) error
}
