package handlers

import (
	"log"

	"commerce/internal/dto"
	"commerce/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/user/:userId", h.HandleGetCart)
	cartRoutes.Post("/user/:userId/add", h.HandleAddItem)
	cartRoutes.Put("/user/:userId/update/:productId", h.HandleUpdateItem)
	cartRoutes.Delete("/user/:userId/remove/:productId", h.HandleRemoveItem)
	cartRoutes.Delete("/user/:userId/clear", h.HandleClearCart)
}

// HandleGetCart returns the user's cart, creating an empty one on first
// access.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID := c.Params("userId")
	cart, err := h.service.GetOrCreateCart(userID)
	if err != nil {
		log.Printf("Error getting cart for user %s: %v", userID, err)
		return respondError(c, "Could not retrieve cart", err)
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// AddToCartRequest represents the request body for adding a product to
// the cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// HandleAddItem adds a product to the user's cart, merging quantities if
// the product is already in it.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing add-to-cart request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	cart, err := h.service.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		log.Printf("Error adding product %s to cart for user %s: %v", req.ProductID, userID, err)
		return respondError(c, "Could not add item to cart", err)
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// HandleUpdateItem sets the absolute quantity of a product in the cart.
// A quantity of zero or less removes the line.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	userID := c.Params("userId")
	productID := c.Params("productId")
	quantity := c.QueryInt("quantity", -1)
	if quantity == -1 && c.Query("quantity") == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'quantity' is required.",
		})
	}

	cart, err := h.service.UpdateItem(userID, productID, quantity)
	if err != nil {
		log.Printf("Error updating product %s in cart for user %s: %v", productID, userID, err)
		return respondError(c, "Could not update cart item", err)
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// HandleRemoveItem removes a product from the cart. Removing a product
// that is not in the cart succeeds without effect.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID := c.Params("userId")
	productID := c.Params("productId")

	cart, err := h.service.RemoveItem(userID, productID)
	if err != nil {
		log.Printf("Error removing product %s from cart for user %s: %v", productID, userID, err)
		return respondError(c, "Could not remove cart item", err)
	}
	return c.JSON(dto.NewCartResponse(cart))
}

// HandleClearCart empties the user's cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID := c.Params("userId")
	if err := h.service.ClearCart(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return respondError(c, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared successfully",
	})
}
