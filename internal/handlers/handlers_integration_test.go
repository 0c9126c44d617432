package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"commerce/internal/dto"
	"commerce/internal/handlers"
	"commerce/internal/middleware"
	"commerce/internal/models"
	"commerce/internal/repositories"
	"commerce/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all
// handlers/services, wired exactly like main.go but without RabbitMQ.
func setupApp() (*fiber.App, *services.AuthService, error) {
	viper.SetDefault("JWT_SECRET", "test_jwt_secret")
	viper.AutomaticEnv()
	jwtSecret := viper.GetString("JWT_SECRET")

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to in-memory database: %w", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	txManager := repositories.NewGORMTxManager(db)

	authService := services.NewAuthService(userRepo, jwtSecret)
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo)
	cartService := services.NewCartService(cartRepo, userRepo, txManager)
	orderService := services.NewOrderService(orderRepo, cartRepo, userRepo, txManager, nil) // nil for RabbitMQ client

	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	apiV1 := app.Group("/api/v1")

	// Public routes
	authHandler.RegisterRoutes(apiV1)
	categoryHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	cartHandler.RegisterRoutes(protectedRoutes)
	orderHandler.RegisterRoutes(protectedRoutes)

	return app, authService, nil
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	// Suppress logging during tests for cleaner output
	log.SetOutput(ioutil.Discard)
	os.Exit(m.Run())
}

// doJSON issues a JSON request against the app, optionally authenticated.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates a user and returns its ID and a fresh token.
func registerAndLogin(t *testing.T, app *fiber.App, username, email string) (string, string) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp struct {
		Message string           `json:"message"`
		User    dto.UserResponse `json:"user"`
	}
	decodeBody(t, resp, &registerResp)
	assert.NotEmpty(t, registerResp.User.ID)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])

	return registerResp.User.ID, loginResp["token"]
}

// createProduct seeds a product through the public catalog endpoint.
func createProduct(t *testing.T, app *fiber.App, name string, price float64, stock int) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"name":        name,
		"description": "integration test product",
		"price":       price,
		"stock":       stock,
		"active":      true,
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.ProductResponse
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	return created.ID
}

func getProduct(t *testing.T, app *fiber.App, id string) dto.ProductResponse {
	t.Helper()

	resp := doJSON(t, app, http.MethodGet, "/api/v1/products/"+id, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var product dto.ProductResponse
	decodeBody(t, resp, &product)
	return product
}

func TestAuthRegisterAndLogin(t *testing.T) {
	app, authService, err := setupApp()
	assert.NoError(t, err)

	userToRegister := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	jsonBody, _ := json.Marshal(userToRegister)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&registerResp)
	assert.NoError(t, err)
	assert.Equal(t, "User registered successfully", registerResp["message"])
	resp.Body.Close()

	// Duplicate registration (username) is a conflict
	req = httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login returns a token the auth service accepts
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "testuser",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var loginResp map[string]string
	decodeBody(t, resp, &loginResp)
	assert.NotEmpty(t, loginResp["token"])

	claims, err := authService.ValidateToken(loginResp["token"])
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Contains(t, claims, "user_id")

	// Wrong password is unauthorized
	resp = doJSON(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "testuser",
		"password": "wrongpassword",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestCartAndOrderFlow(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	userID, token := registerAndLogin(t, app, "shopper", "shopper@example.com")
	keyboardID := createProduct(t, app, "Integration Keyboard", 10.00, 10)
	headsetID := createProduct(t, app, "Integration Headset", 5.00, 5)

	cartPath := "/api/v1/cart/user/" + userID

	// First access creates an empty cart.
	resp := doJSON(t, app, http.MethodGet, cartPath, nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart dto.CartResponse
	decodeBody(t, resp, &cart)
	assert.Equal(t, userID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.00, cart.TotalAmount)

	// Add two products.
	resp = doJSON(t, app, http.MethodPost, cartPath+"/add", map[string]interface{}{
		"product_id": keyboardID,
		"quantity":   2,
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 20.00, cart.TotalAmount)

	resp = doJSON(t, app, http.MethodPost, cartPath+"/add", map[string]interface{}{
		"product_id": headsetID,
		"quantity":   1,
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 25.00, cart.TotalAmount)
	assert.Equal(t, 2, cart.TotalItems)

	// Adding the same product again merges into the existing line.
	resp = doJSON(t, app, http.MethodPost, cartPath+"/add", map[string]interface{}{
		"product_id": keyboardID,
		"quantity":   1,
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 35.00, cart.TotalAmount)

	// Setting an absolute quantity brings the line back down.
	resp = doJSON(t, app, http.MethodPut, cartPath+"/update/"+keyboardID+"?quantity=2", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 25.00, cart.TotalAmount)

	// Place the order.
	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/user/"+userID, map[string]string{
		"shipping_address": "1 Main St",
		"notes":            "ring twice",
	}, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order dto.OrderResponse
	decodeBody(t, resp, &order)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 25.00, order.TotalAmount)
	assert.Len(t, order.Items, 2)

	// Stock was deducted and the cart is empty again.
	assert.Equal(t, 8, getProduct(t, app, keyboardID).Stock)
	assert.Equal(t, 4, getProduct(t, app, headsetID).Stock)

	resp = doJSON(t, app, http.MethodGet, cartPath, nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.00, cart.TotalAmount)

	// A pending order can still be cancelled.
	resp = doJSON(t, app, http.MethodGet, "/api/v1/orders/"+order.ID+"/can-cancel", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var canCancelResp struct {
		OrderID   string `json:"order_id"`
		CanCancel bool   `json:"can_cancel"`
	}
	decodeBody(t, resp, &canCancelResp)
	assert.True(t, canCancelResp.CanCancel)

	// Cancelling restores the stock.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+order.ID+"/cancel", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cancelResp struct {
		Message string            `json:"message"`
		Order   dto.OrderResponse `json:"order"`
	}
	decodeBody(t, resp, &cancelResp)
	assert.Equal(t, models.OrderStatusCancelled, cancelResp.Order.Status)
	assert.Equal(t, 10, getProduct(t, app, keyboardID).Stock)
	assert.Equal(t, 5, getProduct(t, app, headsetID).Stock)

	// A second cancellation is rejected.
	resp = doJSON(t, app, http.MethodDelete, "/api/v1/orders/"+order.ID+"/cancel", nil, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderFromEmptyCart(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	userID, token := registerAndLogin(t, app, "emptycart", "emptycart@example.com")

	// Touch the cart so it exists but has no items.
	resp := doJSON(t, app, http.MethodGet, "/api/v1/cart/user/"+userID, nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/user/"+userID, map[string]string{
		"shipping_address": "1 Main St",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCartExceedingStock(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	userID, token := registerAndLogin(t, app, "hoarder", "hoarder@example.com")
	productID := createProduct(t, app, "Scarce Widget", 3.00, 2)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/cart/user/"+userID+"/add", map[string]interface{}{
		"product_id": productID,
		"quantity":   3,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Nothing was reserved by the failed addition.
	assert.Equal(t, 2, getProduct(t, app, productID).Stock)
}

func TestCartEndpointsRequireAuth(t *testing.T) {
	app, _, err := setupApp()
	assert.NoError(t, err)

	resp := doJSON(t, app, http.MethodGet, "/api/v1/cart/user/some-user", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/orders/user/some-user", map[string]string{
		"shipping_address": "1 Main St",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}
