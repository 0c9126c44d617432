package models

import "gorm.io/gorm"

// Product represents a product in the store catalog.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=3,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Active      bool    `json:"active"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	CategoryID  *string `json:"category_id" gorm:"type:varchar(36)" validate:"omitempty,uuid"`
	gorm.Model          // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// IsAvailable reports whether the product can satisfy the requested quantity.
// A product is available when it is active and has at least that much stock.
func (p *Product) IsAvailable(quantity int) bool {
	return p.Active && p.Stock >= quantity
}
