package services_test

import (
	"testing"

	"commerce/internal/models"
	"commerce/internal/repositories"
	"commerce/internal/services"

	"github.com/stretchr/testify/assert"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

type cartFixture struct {
	service  *services.CartService
	products *repositories.MockProductRepository
	carts    *repositories.MockCartRepository
}

// newCartFixture wires a CartService against the in-memory repositories
// with one known user and one active product in stock.
func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	products := repositories.NewMockProductRepository()
	carts := repositories.NewMockCartRepository()
	orders := repositories.NewMockOrderRepository()
	users := repositories.NewMockUserRepository()

	err := users.Create(&models.User{
		ID:       testUserID,
		Username: "buyer",
		Email:    "buyer@example.com",
		Password: "hashed",
	})
	assert.NoError(t, err)

	tx := repositories.NewMockTxManager(products, carts, orders)
	return &cartFixture{
		service:  services.NewCartService(carts, users, tx),
		products: products,
		carts:    carts,
	}
}

func (f *cartFixture) seedProduct(t *testing.T, id string, price float64, stock int) {
	t.Helper()
	err := f.products.Create(&models.Product{
		ID:     id,
		Name:   "Product " + id,
		Price:  price,
		Stock:  stock,
		Active: true,
	})
	assert.NoError(t, err)
}

// assertTotalInvariant checks that the cart total equals the sum of its
// line totals.
func assertTotalInvariant(t *testing.T, cart *models.Cart) {
	t.Helper()
	var sum float64
	for _, item := range cart.Items {
		sum += item.TotalPrice
	}
	assert.Equal(t, sum, cart.TotalAmount)
}

func TestCartService_GetOrCreateCart(t *testing.T) {
	f := newCartFixture(t)

	cart, err := f.service.GetOrCreateCart(testUserID)
	assert.NoError(t, err)
	assert.Equal(t, testUserID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.00, cart.TotalAmount)

	// Second access returns the same cart instead of creating another.
	again, err := f.service.GetOrCreateCart(testUserID)
	assert.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestCartService_GetOrCreateCart_UnknownUser(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.service.GetOrCreateCart("no-such-user")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestCartService_AddItem_MergesQuantities(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)

	cart, err := f.service.AddItem(testUserID, "prod-1", 2)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assertTotalInvariant(t, cart)

	// Adding the same product again merges into the existing line.
	cart, err = f.service.AddItem(testUserID, "prod-1", 3)
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 10.00, cart.Items[0].UnitPrice)
	assert.Equal(t, 50.00, cart.Items[0].TotalPrice)
	assert.Equal(t, 50.00, cart.TotalAmount)
	assertTotalInvariant(t, cart)
}

func TestCartService_AddItem_InvalidQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)

	_, err := f.service.AddItem(testUserID, "prod-1", 0)
	assert.Error(t, err)

	_, err = f.service.AddItem(testUserID, "prod-1", -2)
	assert.Error(t, err)
}

func TestCartService_AddItem_InactiveProduct(t *testing.T) {
	f := newCartFixture(t)
	err := f.products.Create(&models.Product{
		ID:     "prod-off",
		Name:   "Discontinued",
		Price:  10.00,
		Stock:  10,
		Active: false,
	})
	assert.NoError(t, err)

	_, err = f.service.AddItem(testUserID, "prod-off", 1)
	assert.ErrorIs(t, err, models.ErrProductUnavailable)
}

func TestCartService_AddItem_MergedQuantityExceedsStock(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)

	cart, err := f.service.AddItem(testUserID, "prod-1", 6)
	assert.NoError(t, err)

	// 6 already in the cart; 5 more would need 11 of a stock of 10.
	_, err = f.service.AddItem(testUserID, "prod-1", 5)
	assert.ErrorIs(t, err, models.ErrProductUnavailable)

	// The failed addition must not have touched the cart.
	cart, err = f.service.GetOrCreateCart(testUserID)
	assert.NoError(t, err)
	assert.Equal(t, 6, cart.Items[0].Quantity)
	assert.Equal(t, 60.00, cart.TotalAmount)
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.service.AddItem(testUserID, "no-such-product", 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestCartService_UpdateItem_KeepsPriceSnapshot(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)

	_, err := f.service.AddItem(testUserID, "prod-1", 2)
	assert.NoError(t, err)

	// The catalog price moves, but the line keeps its snapshot.
	product, err := f.products.GetByID("prod-1")
	assert.NoError(t, err)
	product.Price = 20.00
	assert.NoError(t, f.products.Update(product))

	cart, err := f.service.UpdateItem(testUserID, "prod-1", 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 10.00, cart.Items[0].UnitPrice)
	assert.Equal(t, 30.00, cart.Items[0].TotalPrice)
	assertTotalInvariant(t, cart)
}

func TestCartService_UpdateItem_ZeroRemovesLine(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)

	_, err := f.service.AddItem(testUserID, "prod-1", 2)
	assert.NoError(t, err)

	cart, err := f.service.UpdateItem(testUserID, "prod-1", 0)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.00, cart.TotalAmount)

	// Removing the already-removed product is a no-op, not an error.
	cart, err = f.service.RemoveItem(testUserID, "prod-1")
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_UpdateItem_Errors(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 3)

	// No cart yet for this user.
	_, err := f.service.UpdateItem(testUserID, "prod-1", 1)
	assert.ErrorIs(t, err, models.ErrCartNotFound)

	_, err = f.service.AddItem(testUserID, "prod-1", 1)
	assert.NoError(t, err)

	// Product not in the cart.
	_, err = f.service.UpdateItem(testUserID, "prod-2", 1)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)

	// Absolute quantity above stock.
	_, err = f.service.UpdateItem(testUserID, "prod-1", 4)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)
	f.seedProduct(t, "prod-2", 5.00, 10)

	_, err := f.service.AddItem(testUserID, "prod-1", 2)
	assert.NoError(t, err)
	_, err = f.service.AddItem(testUserID, "prod-2", 1)
	assert.NoError(t, err)

	cart, err := f.service.RemoveItem(testUserID, "prod-1")
	assert.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, "prod-2", cart.Items[0].ProductID)
	assert.Equal(t, 5.00, cart.TotalAmount)
	assertTotalInvariant(t, cart)
}

func TestCartService_ClearCart(t *testing.T) {
	f := newCartFixture(t)
	f.seedProduct(t, "prod-1", 10.00, 10)

	_, err := f.service.AddItem(testUserID, "prod-1", 2)
	assert.NoError(t, err)

	assert.NoError(t, f.service.ClearCart(testUserID))

	cart, err := f.service.GetOrCreateCart(testUserID)
	assert.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.00, cart.TotalAmount)
}
