package seed

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplezakka/zakka-backend/pkg/db/dbtest"
	"github.com/simplezakka/zakka-backend/pkg/db/models"
	"github.com/simplezakka/zakka-backend/pkg/logger"
)

func TestCatalogLoadsOnce(t *testing.T) {
	client := dbtest.Client(t)
	ctx := context.Background()

	res, err := Catalog(ctx, client, logger.Nop())
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 4, res.Categories)
	assert.Equal(t, 7, res.Products)

	var tumbler models.Product
	require.NoError(t, client.DB().Preload("Category").Where("name = ?", "ステンレスタンブラー").First(&tumbler).Error)
	assert.Equal(t, 30, tumbler.Stock)
	assert.True(t, tumbler.Price.Equal(decimal.NewFromInt(2800)), "price %s", tumbler.Price)
	require.NotNil(t, tumbler.Category)
	assert.Equal(t, categoryKitchen, tumbler.Category.Name)

	again, err := Catalog(ctx, client, logger.Nop())
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	var count int64
	require.NoError(t, client.DB().Model(&models.Product{}).Count(&count).Error)
	assert.Equal(t, int64(7), count)
}

func TestCatalogRequiresRunner(t *testing.T) {
	if _, err := Catalog(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error without tx runner")
	}
}
