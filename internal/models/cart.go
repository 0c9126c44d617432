package models

import "gorm.io/gorm"

// Cart is the per-user shopping cart. Each user owns at most one cart,
// created lazily on first access.
type Cart struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	UserID      string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)" validate:"required,uuid"`
	Items       []CartItem `json:"items" gorm:"foreignKey:CartID"`
	TotalAmount float64    `json:"total_amount"`
	gorm.Model
}

// CartItem is one (product, quantity, price-snapshot) line within a cart.
// A cart holds at most one item per product; duplicate additions merge
// into the existing line.
type CartItem struct {
	ID         string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID     string  `json:"cart_id" gorm:"uniqueIndex:idx_cart_product;type:varchar(36)"`
	ProductID  string  `json:"product_id" gorm:"uniqueIndex:idx_cart_product;type:varchar(36)"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice  float64 `json:"unit_price"` // Product price at the time the item was added
	TotalPrice float64 `json:"total_price"`
	gorm.Model
}

// FindItem returns the cart's item for the given product, or nil if absent.
func (c *Cart) FindItem(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RecomputeTotal recalculates the cart total as the sum of its item totals.
// It is the single source of truth for TotalAmount and must be called after
// every structural mutation.
func (c *Cart) RecomputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.TotalPrice
	}
	c.TotalAmount = total
}
