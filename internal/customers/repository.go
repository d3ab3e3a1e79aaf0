package customers

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

// Repository exposes customer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customers repo bound to the provided GORM DB.
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

// Create inserts a new customer and returns the persisted model.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID loads a customer. A missing row yields CUSTOMER_NOT_FOUND.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeCustomerNotFound, "customer not found")
		}
		return nil, err
	}
	return &customer, nil
}

// FindByEmail retrieves the customer matching the provided email.
// It returns gorm.ErrRecordNotFound when absent so callers can keep
// login failures indistinguishable.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// ExistsByEmail reports whether another row already uses email.
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Customer{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update saves every column of customer.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Search matches last name, first name or phone number by substring.
func (r *Repository) Search(ctx context.Context, keyword string) ([]models.Customer, error) {
	var rows []models.Customer
	pattern := "%" + strings.TrimSpace(keyword) + "%"
	err := r.db.WithContext(ctx).
		Where("last_name LIKE ? OR first_name LIKE ? OR phone_number LIKE ?", pattern, pattern, pattern).
		Order("id ASC").
		Find(&rows).
		Error
	return rows, err
}
