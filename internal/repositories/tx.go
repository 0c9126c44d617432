package repositories

import (
	"gorm.io/gorm"
)

// Repos bundles the repositories that participate in a single unit of work.
type Repos struct {
	Products ProductRepository
	Carts    CartRepository
	Orders   OrderRepository
}

// TxManager runs a function as one all-or-nothing unit of work against the
// store. Multi-step workflows (add-to-cart with merge check, order creation,
// cancellation) go through this boundary; isolation against concurrent
// mutation of the same cart or stock row is the database's job, not ours.
type TxManager interface {
	RunInTx(fn func(r Repos) error) error
}

// GORMTxManager implements TxManager on top of gorm's transactions.
type GORMTxManager struct {
	db *gorm.DB
}

// NewGORMTxManager creates a new instance of GORMTxManager.
func NewGORMTxManager(db *gorm.DB) *GORMTxManager {
	return &GORMTxManager{
		db: db,
	}
}

// RunInTx executes fn against transaction-scoped repositories. If fn returns
// an error the whole transaction rolls back.
func (m *GORMTxManager) RunInTx(fn func(r Repos) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(Repos{
			Products: NewGORMProductRepository(tx),
			Carts:    NewGORMCartRepository(tx),
			Orders:   NewGORMOrderRepository(tx),
		})
	})
}

// MockTxManager implements TxManager over the in-memory repositories. It
// simply runs fn against the configured repos; rollback semantics come from
// the real database, not the mocks.
type MockTxManager struct {
	repos Repos
}

// NewMockTxManager creates a new instance of MockTxManager.
func NewMockTxManager(products ProductRepository, carts CartRepository, orders OrderRepository) *MockTxManager {
	return &MockTxManager{
		repos: Repos{
			Products: products,
			Carts:    carts,
			Orders:   orders,
		},
	}
}

// RunInTx executes fn against the in-memory repositories.
func (m *MockTxManager) RunInTx(fn func(r Repos) error) error {
	return fn(m.repos)
}
