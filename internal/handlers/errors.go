package handlers

import (
	"errors"

	"commerce/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errorStatus maps a business error to its HTTP status. Unknown errors are
// treated as internal.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrCartNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrCategoryExists),
		errors.Is(err, models.ErrUsernameTaken),
		errors.Is(err, models.ErrEmailRegistered),
		errors.Is(err, models.ErrOrderNotCancellable):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrProductUnavailable),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrInvalidStatusTransition):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the standard error envelope for a failed operation.
func respondError(c *fiber.Ctx, message string, err error) error {
	return c.Status(errorStatus(err)).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}
