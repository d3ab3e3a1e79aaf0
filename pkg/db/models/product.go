package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item together with its on-hand stock.
type Product struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	CategoryID    *int64          `gorm:"column:category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Name          string          `gorm:"column:name;size:100;not null"`
	Description   string          `gorm:"column:description;type:text"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Stock         int             `gorm:"column:stock;not null;default:0;check:chk_products_stock_non_negative,stock >= 0"`
	ImageURL      string          `gorm:"column:image_url;size:255"`
	IsRecommended bool            `gorm:"column:is_recommended;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
