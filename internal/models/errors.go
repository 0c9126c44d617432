package models

import "errors"

// Business errors shared by repositories, services and handlers.
// Repositories and services wrap these with fmt.Errorf("...: %w", ...)
// so callers can match with errors.Is while keeping context in the message.
var (
	// Not-found family.
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrOrderNotFound    = errors.New("order not found")

	// Invalid-state family.
	ErrEmptyCart               = errors.New("cart is empty")
	ErrProductUnavailable      = errors.New("product is not available")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrOrderNotCancellable     = errors.New("order cannot be cancelled")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	// Conflict family.
	ErrCategoryExists  = errors.New("category already exists")
	ErrUsernameTaken   = errors.New("username already taken")
	ErrEmailRegistered = errors.New("email already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
