// Package seed loads the sample storefront catalog into an empty database.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/simplezakka/zakka-backend/internal/categories"
	product "github.com/simplezakka/zakka-backend/internal/products"
	"github.com/simplezakka/zakka-backend/pkg/db/models"
	"github.com/simplezakka/zakka-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sampleProduct struct {
	name        string
	description string
	price       int64
	stock       int
	imageURL    string
	recommended bool
	category    string
}

const (
	categoryInterior = "インテリア雑貨"
	categoryHome     = "生活雑貨"
	categoryFashion  = "ファッション雑貨"
	categoryKitchen  = "キッチン用品"
)

var sampleCategories = []string{categoryInterior, categoryHome, categoryFashion, categoryKitchen}

var sampleProducts = []sampleProduct{
	{"シンプルデスクオーガナイザー", "机の上をすっきり整理できる木製オーガナイザー。ペン、メモ、スマートフォンなどを収納できます。", 3500, 20, "/images/desk-organizer.png", true, categoryInterior},
	{"アロマディフューザー（ウッド）", "天然木を使用したシンプルなデザインのアロマディフューザー。LEDライト付き。", 4200, 15, "/images/aroma-diffuser.png", true, categoryInterior},
	{"コットンブランケット", "オーガニックコットン100%のやわらかブランケット。シンプルなデザインで様々なインテリアに合います。", 5800, 10, "/images/cotton-blanket.png", false, categoryHome},
	{"ステンレスタンブラー", "保温・保冷機能に優れたシンプルなデザインのステンレスタンブラー。容量350ml。", 2800, 30, "/images/tumbler.png", false, categoryKitchen},
	{"ミニマルウォールクロック", "余計な装飾のないシンプルな壁掛け時計。静音設計。", 3200, 25, "/images/wall-clock.png", false, categoryInterior},
	{"リネンクッションカバー", "天然リネン100%のクッションカバー。取り外して洗濯可能。45×45cm対応。", 2500, 40, "/images/cushion-cover.png", true, categoryHome},
	{"陶器フラワーベース", "手作りの風合いが魅力の陶器製フラワーベース。シンプルな形状で花を引き立てます。", 4000, 15, "/images/flower-vase.png", false, categoryInterior},
}

// Result reports what a Catalog run wrote.
type Result struct {
	Skipped    bool
	Categories int
	Products   int
}

// Catalog writes the sample categories and products in one transaction.
// Nothing is written when any product already exists.
func Catalog(ctx context.Context, tx txRunner, logg *logger.Logger) (Result, error) {
	if tx == nil {
		return Result{}, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	var res Result
	err := tx.WithTx(ctx, func(db *gorm.DB) error {
		products := product.NewRepository(db)
		count, err := products.Count(ctx)
		if err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if count > 0 {
			res.Skipped = true
			return nil
		}

		cats := categories.NewRepository(db)
		ids := make(map[string]int64, len(sampleCategories))
		for _, name := range sampleCategories {
			created, err := cats.Create(ctx, &models.Category{Name: name})
			if err != nil {
				return fmt.Errorf("create category %q: %w", name, err)
			}
			ids[name] = created.ID
			res.Categories++
		}

		for _, sample := range sampleProducts {
			categoryID := ids[sample.category]
			row := &models.Product{
				CategoryID:    &categoryID,
				Name:          sample.name,
				Description:   sample.description,
				Price:         decimal.NewFromInt(sample.price),
				Stock:         sample.stock,
				ImageURL:      sample.imageURL,
				IsRecommended: sample.recommended,
			}
			if _, err := products.Create(ctx, row); err != nil {
				return fmt.Errorf("create product %q: %w", sample.name, err)
			}
			res.Products++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if res.Skipped {
		logg.Info(ctx, "seed.catalog_skipped")
		return res, nil
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"categories": res.Categories,
		"products":   res.Products,
	}), "seed.catalog_loaded")
	return res, nil
}
