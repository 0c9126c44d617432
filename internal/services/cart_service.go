package services

import (
	"errors"
	"fmt"

	"commerce/internal/models"
	"commerce/internal/repositories"
)

// CartService handles business logic for the per-user shopping cart.
// Every mutating operation runs as a single unit of work and recomputes
// the cart total before persisting, so the total always equals the sum
// of the line totals.
type CartService struct {
	carts repositories.CartRepository
	users repositories.UserRepository
	tx    repositories.TxManager
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, users repositories.UserRepository, tx repositories.TxManager) *CartService {
	return &CartService{
		carts: carts,
		users: users,
		tx:    tx,
	}
}

// GetOrCreateCart returns the user's cart, creating an empty one on first
// access.
func (s *CartService) GetOrCreateCart(userID string) (*models.Cart, error) {
	return s.loadOrCreateCart(s.carts, userID)
}

// loadOrCreateCart loads the user's cart through the given repository,
// lazily creating an empty cart for a known user.
func (s *CartService) loadOrCreateCart(carts repositories.CartRepository, userID string) (*models.Cart, error) {
	cart, err := carts.GetByUserID(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, models.ErrCartNotFound) {
		return nil, err
	}

	// The cart belongs to exactly one user, so make sure the user exists
	// before creating one.
	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}

	cart = &models.Cart{
		UserID:      userID,
		TotalAmount: 0,
	}
	if err := carts.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds quantity of a product to the user's cart. If the cart already
// holds a line for the product the quantities merge, and availability is
// checked against the merged quantity. The line's unit price is re-sampled
// from the current product price.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	var result *models.Cart
	err := s.tx.RunInTx(func(r repositories.Repos) error {
		cart, err := s.loadOrCreateCart(r.Carts, userID)
		if err != nil {
			return err
		}

		product, err := r.Products.GetByID(productID)
		if err != nil {
			return err
		}

		requested := quantity
		item := cart.FindItem(productID)
		if item != nil {
			requested += item.Quantity
		}
		if !product.IsAvailable(requested) {
			return fmt.Errorf("product %s (requested %d, stock %d): %w",
				product.Name, requested, product.Stock, models.ErrProductUnavailable)
		}

		if item != nil {
			item.Quantity = requested
			item.UnitPrice = product.Price
			item.TotalPrice = product.Price * float64(requested)
		} else {
			cart.Items = append(cart.Items, models.CartItem{
				CartID:     cart.ID,
				ProductID:  product.ID,
				Quantity:   quantity,
				UnitPrice:  product.Price,
				TotalPrice: product.Price * float64(quantity),
			})
		}

		cart.RecomputeTotal()
		if err := r.Carts.Save(cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateItem sets the absolute quantity of a product already in the cart.
// A quantity of zero or less removes the line. The existing unit-price
// snapshot is kept; only the line total is rewritten.
func (s *CartService) UpdateItem(userID, productID string, quantity int) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.RunInTx(func(r repositories.Repos) error {
		cart, err := r.Carts.GetByUserID(userID)
		if err != nil {
			return err
		}

		item := cart.FindItem(productID)
		if item == nil {
			return fmt.Errorf("product %s in cart %s: %w", productID, cart.ID, models.ErrCartItemNotFound)
		}

		if quantity <= 0 {
			if err := r.Carts.DeleteItem(cart.ID, productID); err != nil {
				return err
			}
			cart.Items = removeItemLocally(cart.Items, productID)
		} else {
			product, err := r.Products.GetByID(productID)
			if err != nil {
				return err
			}
			if !product.IsAvailable(quantity) {
				return fmt.Errorf("product %s (requested %d, stock %d): %w",
					product.Name, quantity, product.Stock, models.ErrInsufficientStock)
			}
			item.Quantity = quantity
			item.TotalPrice = item.UnitPrice * float64(quantity)
		}

		cart.RecomputeTotal()
		if err := r.Carts.Save(cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveItem deletes a product's line from the cart. Removing a product
// that is not in the cart is a no-op.
func (s *CartService) RemoveItem(userID, productID string) (*models.Cart, error) {
	var result *models.Cart
	err := s.tx.RunInTx(func(r repositories.Repos) error {
		cart, err := r.Carts.GetByUserID(userID)
		if err != nil {
			return err
		}

		if err := r.Carts.DeleteItem(cart.ID, productID); err != nil {
			return err
		}
		cart.Items = removeItemLocally(cart.Items, productID)

		cart.RecomputeTotal()
		if err := r.Carts.Save(cart); err != nil {
			return err
		}
		result = cart
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ClearCart deletes every line and resets the total to zero.
func (s *CartService) ClearCart(userID string) error {
	return s.tx.RunInTx(func(r repositories.Repos) error {
		cart, err := r.Carts.GetByUserID(userID)
		if err != nil {
			return err
		}
		return clearCart(r.Carts, cart)
	})
}

// clearCart empties the given cart within the current unit of work. Shared
// with the order workflow, which clears the source cart after a successful
// order.
func clearCart(carts repositories.CartRepository, cart *models.Cart) error {
	if err := carts.ClearItems(cart.ID); err != nil {
		return err
	}
	cart.Items = nil
	cart.RecomputeTotal()
	return carts.Save(cart)
}

func removeItemLocally(items []models.CartItem, productID string) []models.CartItem {
	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	return kept
}
