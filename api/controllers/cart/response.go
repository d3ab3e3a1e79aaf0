package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/simplezakka/zakka-backend/internal/cart"
)

type cartItemResponse struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// cartResponse is the storefront view of the session cart.
type cartResponse struct {
	Items         []cartItemResponse `json:"items"`
	TotalQuantity int                `json:"totalQuantity"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	ShippingFee   decimal.Decimal    `json:"shippingFee"`
	TotalPrice    decimal.Decimal    `json:"totalPrice"`
}

func newCartResponse(c *cartsvc.Cart) cartResponse {
	if c == nil {
		c = cartsvc.New()
	}
	items := make([]cartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, cartItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			ImageURL:  item.ImageURL,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return cartResponse{
		Items:         items,
		TotalQuantity: c.TotalQuantity,
		Subtotal:      c.Subtotal,
		ShippingFee:   c.ShippingFee,
		TotalPrice:    c.GrandTotal,
	}
}
