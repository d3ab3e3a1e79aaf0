package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

// Repository wraps product persistence, including the conditional stock decrement.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction. A nil tx
// keeps the current connection.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID loads a product. A missing row yields PRODUCT_NOT_FOUND.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
				WithDetails(map[string]any{"product_id": id})
		}
		return nil, err
	}
	return &product, nil
}

// List returns every product, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListByCategory returns the products of one category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// SearchByName matches products whose name contains keyword, case-insensitively.
func (r *Repository) SearchByName(ctx context.Context, keyword string) ([]models.Product, error) {
	var rows []models.Product
	pattern := "%" + escapeLike(strings.ToLower(keyword)) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '\\'", pattern).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListStockGreaterThan returns products with more than minStock units on hand.
func (r *Repository) ListStockGreaterThan(ctx context.Context, minStock int) ([]models.Product, error) {
	var rows []models.Product
	err := r.db.WithContext(ctx).
		Where("stock > ?", minStock).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}

// DecreaseStock subtracts quantity only when enough stock remains, in a single
// UPDATE. It returns the number of rows changed: 0 means the guard failed.
// A non-positive quantity is rejected before touching the row.
func (r *Repository) DecreaseStock(ctx context.Context, productID int64, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeInvalidQuantity, fmt.Sprintf("quantity must be positive, got %d", quantity)).
			WithDetails(map[string]any{"product_id": productID})
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// UpdateStock overwrites the stock level.
func (r *Repository) UpdateStock(ctx context.Context, productID int64, stock int) error {
	return r.updateColumn(ctx, productID, "stock", stock)
}

// UpdatePrice overwrites the unit price. Placed orders keep their own copy.
func (r *Repository) UpdatePrice(ctx context.Context, productID int64, price decimal.Decimal) error {
	return r.updateColumn(ctx, productID, "price", price)
}

func (r *Repository) updateColumn(ctx context.Context, productID int64, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeProductNotFound, "product not found").
			WithDetails(map[string]any{"product_id": productID})
	}
	return nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Count returns the number of products.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
