package services

import (
	"encoding/json"
	"fmt"
	"log"

	"commerce/internal/models"
	"commerce/internal/repositories"
)

// EventPublisher publishes order lifecycle events to the message broker.
// *rabbitmq.Client satisfies this; tests substitute a mock.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderService handles business logic related to orders: converting a cart
// into an immutable order snapshot with stock deduction, status transitions,
// and cancellation with stock restoration.
type OrderService struct {
	orders    repositories.OrderRepository
	carts     repositories.CartRepository
	users     repositories.UserRepository
	tx        repositories.TxManager
	publisher EventPublisher // may be nil; events are then skipped
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, carts repositories.CartRepository,
	users repositories.UserRepository, tx repositories.TxManager, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		carts:     carts,
		users:     users,
		tx:        tx,
		publisher: publisher,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orders.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orders.GetByID(id)
}

// GetOrdersByUser retrieves a user's orders, newest first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.Order, error) {
	return s.orders.GetByUserID(userID)
}

// GetOrdersByStatus retrieves all orders in the given status.
func (s *OrderService) GetOrdersByStatus(status models.OrderStatus) ([]models.Order, error) {
	return s.orders.GetByStatus(status)
}

// CreateOrder converts the user's cart into a PENDING order. Every cart
// line is re-validated against current stock, snapshotted into an order
// item, and its quantity deducted from the product's stock; the source
// cart is then cleared. All of it happens inside one transaction, so a
// failure on any line leaves no partial order, deduction, or cleared cart.
func (s *OrderService) CreateOrder(userID, shippingAddress, notes string) (*models.Order, error) {
	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.tx.RunInTx(func(r repositories.Repos) error {
		cart, err := r.Carts.GetByUserID(userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return fmt.Errorf("cart %s: %w", cart.ID, models.ErrEmptyCart)
		}

		// Stock may have moved since the items went into the cart, so
		// re-validate every line before touching anything.
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, line := range cart.Items {
			product, err := r.Products.GetByID(line.ProductID)
			if err != nil {
				return err
			}
			if !product.IsAvailable(line.Quantity) {
				return fmt.Errorf("product %s (requested %d, stock %d): %w",
					product.Name, line.Quantity, product.Stock, models.ErrInsufficientStock)
			}
			items = append(items, models.OrderItem{
				ProductID:   line.ProductID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				TotalPrice:  line.TotalPrice,
			})
		}

		// Deduct stock per line. The repository guards the non-negative
		// invariant again, which closes the window between validation
		// and deduction.
		for _, line := range cart.Items {
			if err := r.Products.DeductStock(line.ProductID, line.Quantity); err != nil {
				return err
			}
		}

		order = &models.Order{
			UserID:          userID,
			Items:           items,
			TotalAmount:     cart.TotalAmount,
			Status:          models.OrderStatusPending,
			ShippingAddress: shippingAddress,
			Notes:           notes,
		}
		if err := r.Orders.Create(order); err != nil {
			return err
		}

		return clearCart(r.Carts, cart)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.created", order)
	return order, nil
}

// UpdateOrderStatus moves an order to a new status, enforcing the full
// transition table. Transitions to CANCELLED go through CancelOrder so
// the stock restoration is never skipped.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	if status == models.OrderStatusCancelled {
		return s.CancelOrder(id)
	}

	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("order %s: %s -> %s: %w",
			id, order.Status, status, models.ErrInvalidStatusTransition)
	}

	order.Status = status
	if err := s.orders.Save(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.status_updated", order)
	return order, nil
}

// CancelOrder cancels a PENDING or CONFIRMED order, adding every line's
// quantity back to its product's stock. Restoration and the status change
// commit together or not at all.
func (s *OrderService) CancelOrder(id string) (*models.Order, error) {
	var order *models.Order
	err := s.tx.RunInTx(func(r repositories.Repos) error {
		var err error
		order, err = r.Orders.GetByID(id)
		if err != nil {
			return err
		}
		if !order.Status.CanCancel() {
			return fmt.Errorf("order %s in status %s: %w",
				id, order.Status, models.ErrOrderNotCancellable)
		}

		for _, item := range order.Items {
			if err := r.Products.RestoreStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		return r.Orders.Save(order)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent("order.cancelled", order)
	return order, nil
}

// CanCancelOrder reports whether the order may still be cancelled,
// which is the case only in PENDING or CONFIRMED.
func (s *OrderService) CanCancelOrder(id string) (bool, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return false, err
	}
	return order.Status.CanCancel(), nil
}

// publishEvent emits an order lifecycle event. Publishing happens after the
// transaction committed; a broker failure is logged but never fails the
// request.
func (s *OrderService) publishEvent(routingKey string, order *models.Order) {
	if s.publisher == nil {
		log.Println("Event publisher is not initialized. Skipping message publication.")
		return
	}

	event := map[string]interface{}{
		"orderID": order.ID,
		"userID":  order.UserID,
		"status":  order.Status,
		"total":   order.TotalAmount,
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event to JSON: %v", err)
		return
	}
	if err := s.publisher.Publish("order", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	}
}
