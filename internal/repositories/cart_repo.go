package repositories

import (
	"commerce/internal/models"
)

// CartRepository defines the interface for cart data access. Carts are
// loaded as fully-populated snapshots with their items; there is no
// lazy fetch-on-access.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	GetByID(id string) (*models.Cart, error)
	Create(cart *models.Cart) error
	// Save persists the cart total and upserts its items.
	Save(cart *models.Cart) error
	// DeleteItem removes the cart's item for a product. Removing an absent
	// item is a no-op, not an error.
	DeleteItem(cartID, productID string) error
	// ClearItems removes every item from the cart.
	ClearItems(cartID string) error
}
