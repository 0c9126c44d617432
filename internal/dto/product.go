package dto

import "commerce/internal/models"

// ProductResponse is the client-facing shape of a catalog product.
type ProductResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"active"`
	ImageURL    string  `json:"image_url,omitempty"`
	CategoryID  *string `json:"category_id,omitempty"`
}

// NewProductResponse projects a product into its response shape.
func NewProductResponse(product *models.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		Active:      product.Active,
		ImageURL:    product.ImageURL,
		CategoryID:  product.CategoryID,
	}
}

// NewProductResponses projects a slice of products.
func NewProductResponses(products []models.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, NewProductResponse(&products[i]))
	}
	return responses
}
