package handlers

import (
	"log"

	"commerce/internal/dto"
	"commerce/internal/models"
	"commerce/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/status/:status", h.HandleGetOrdersByStatus)
	orderRoutes.Get("/user/:userId", h.HandleGetOrdersByUser)
	orderRoutes.Post("/user/:userId", h.HandleCreateOrder)
	orderRoutes.Get("/:orderId", h.HandleGetOrderByID)
	orderRoutes.Put("/:orderId/status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:orderId/cancel", h.HandleCancelOrder)
	orderRoutes.Get("/:orderId/can-cancel", h.HandleCanCancelOrder)
}

// HandleGetOrders retrieves all orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(dto.NewOrderResponses(orders))
}

// HandleGetOrdersByStatus retrieves all orders in a given status.
func (h *OrderHandler) HandleGetOrdersByStatus(c *fiber.Ctx) error {
	status, err := models.ParseOrderStatus(c.Params("status"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order status",
			"error":   err.Error(),
		})
	}

	orders, err := h.service.GetOrdersByStatus(status)
	if err != nil {
		log.Printf("Error getting orders with status %s: %v", status, err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(dto.NewOrderResponses(orders))
}

// HandleGetOrdersByUser retrieves a user's orders, newest first.
func (h *OrderHandler) HandleGetOrdersByUser(c *fiber.Ctx) error {
	userID := c.Params("userId")
	orders, err := h.service.GetOrdersByUser(userID)
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", userID, err)
		return respondError(c, "Could not retrieve orders", err)
	}
	return c.JSON(dto.NewOrderResponses(orders))
}

// OrderCreateRequest represents the request body for placing an order.
type OrderCreateRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
	Notes           string `json:"notes"`
}

// HandleCreateOrder converts the user's cart into a new PENDING order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req OrderCreateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	order, err := h.service.CreateOrder(userID, req.ShippingAddress, req.Notes)
	if err != nil {
		log.Printf("Error creating order for user %s: %v", userID, err)
		return respondError(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewOrderResponse(order))
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	order, err := h.service.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return respondError(c, "Could not retrieve order", err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// HandleUpdateOrderStatus moves an order to a new status, subject to the
// transition table.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderId")

	raw := c.Query("status")
	if raw == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'status' is required.",
		})
	}
	status, err := models.ParseOrderStatus(raw)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid order status",
			"error":   err.Error(),
		})
	}

	order, err := h.service.UpdateOrderStatus(orderID, status)
	if err != nil {
		log.Printf("Error updating status of order %s to %s: %v", orderID, status, err)
		return respondError(c, "Could not update order status", err)
	}
	return c.JSON(dto.NewOrderResponse(order))
}

// HandleCancelOrder cancels an order and restores the stock of every line.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	order, err := h.service.CancelOrder(orderID)
	if err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return respondError(c, "Could not cancel order", err)
	}
	return c.JSON(fiber.Map{
		"message": "Order cancelled successfully",
		"order":   dto.NewOrderResponse(order),
	})
}

// HandleCanCancelOrder reports whether an order may still be cancelled.
func (h *OrderHandler) HandleCanCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("orderId")
	canCancel, err := h.service.CanCancelOrder(orderID)
	if err != nil {
		log.Printf("Error checking cancellability of order %s: %v", orderID, err)
		return respondError(c, "Could not check order", err)
	}
	return c.JSON(fiber.Map{
		"order_id":   orderID,
		"can_cancel": canCancel,
	})
}
