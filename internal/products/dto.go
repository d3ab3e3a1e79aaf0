package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simplezakka/zakka-backend/pkg/db/models"
)

// ProductDTO is the storefront view of a product.
type ProductDTO struct {
	ID            int64           `json:"productId"`
	CategoryID    *int64          `json:"categoryId,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Stock         int             `json:"stock"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	IsRecommended bool            `json:"isRecommended"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// FromModel maps a product row to its DTO.
func FromModel(p models.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		IsRecommended: p.IsRecommended,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}
