package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]models.Order, error)
	FindForCustomer(ctx context.Context, orderID, customerID int64) (*models.Order, error)
}

// Inventory is the product surface order placement needs: a read for
// verification and the conditional decrement.
type Inventory interface {
	FindByID(ctx context.Context, id int64) (*models.Product, error)
	DecreaseStock(ctx context.Context, productID int64, quantity int) (int64, error)
}

// CustomerLookup resolves member references.
type CustomerLookup interface {
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
}

// InventoryFunc binds an Inventory to the running transaction. A nil tx
// binds to the base connection.
type InventoryFunc func(tx *gorm.DB) Inventory

// CustomerLookupFunc binds a CustomerLookup to the running transaction,
// or to the base connection when tx is nil.
type CustomerLookupFunc func(tx *gorm.DB) CustomerLookup

// CartClearer empties a session cart once an order commits.
type CartClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type placementRecorder interface {
	OrderPlaced()
	StockConflict()
	ObservePlacement(outcome string, duration time.Duration)
}
