package services

import (
	"fmt"

	"commerce/internal/models"
	"commerce/internal/repositories"
)

// ProductService handles business logic related to the product catalog,
// including the stock operations used by the order workflow.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products, including inactive ones.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetActiveProducts retrieves the products currently offered for sale.
func (s *ProductService) GetActiveProducts() ([]models.Product, error) {
	return s.repo.GetActive()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByCategory retrieves the active products in a category.
func (s *ProductService) GetProductsByCategory(categoryID string) ([]models.Product, error) {
	return s.repo.GetByCategory(categoryID)
}

// SearchProducts retrieves active products matching a keyword.
func (s *ProductService) SearchProducts(keyword string) ([]models.Product, error) {
	return s.repo.Search(keyword)
}

// GetAvailableProducts retrieves active products with stock on hand.
func (s *ProductService) GetAvailableProducts() ([]models.Product, error) {
	return s.repo.GetAvailable()
}

// IsProductAvailable reports whether a product is active and has at least
// the requested quantity in stock.
func (s *ProductService) IsProductAvailable(productID string, quantity int) (bool, error) {
	product, err := s.repo.GetByID(productID)
	if err != nil {
		return false, err
	}
	return product.IsAvailable(quantity), nil
}

// DeductStock removes quantity from a product's stock. It fails with
// models.ErrInsufficientStock rather than letting stock go negative.
func (s *ProductService) DeductStock(productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("deduct quantity must be positive, got %d", quantity)
	}
	return s.repo.DeductStock(productID, quantity)
}

// RestoreStock adds quantity back to a product's stock. Restorations mirror
// prior deductions, so no upper bound is enforced.
func (s *ProductService) RestoreStock(productID string, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("restore quantity must be positive, got %d", quantity)
	}
	return s.repo.RestoreStock(productID, quantity)
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	return s.repo.Create(product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
