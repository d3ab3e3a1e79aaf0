package cart

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/simplezakka/zakka-backend/pkg/pricing"
)

// LineItem is one product line inside a cart. ID is the product id rendered
// as a string so it can travel in URLs unchanged.
type LineItem struct {
	ID        string          `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Totals are derived from the line items and never edited directly.
type Totals struct {
	TotalQuantity int             `json:"total_quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ShippingFee   decimal.Decimal `json:"shipping_fee"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// Cart is a session-scoped list of line items, kept in insertion order.
type Cart struct {
	Items []LineItem `json:"items"`
	Totals
}

// New returns an empty cart with zeroed totals.
func New() *Cart {
	c := &Cart{Items: []LineItem{}}
	c.recompute()
	return c
}

// ItemID derives the line id for a product.
func ItemID(productID int64) string {
	return strconv.FormatInt(productID, 10)
}

// NewLineItem builds a line with its subtotal filled in.
func NewLineItem(productID int64, name string, price decimal.Decimal, imageURL string, quantity int) LineItem {
	return LineItem{
		ID:        ItemID(productID),
		ProductID: productID,
		Name:      name,
		Price:     price,
		ImageURL:  imageURL,
		Quantity:  quantity,
		Subtotal:  pricing.LineSubtotal(price, quantity),
	}
}

// ComputeTotals derives quantity, subtotal, shipping and grand total from items.
func ComputeTotals(items []LineItem) Totals {
	totals := Totals{Subtotal: decimal.Zero}
	for _, item := range items {
		totals.TotalQuantity += item.Quantity
		totals.Subtotal = totals.Subtotal.Add(item.Subtotal)
	}
	totals.ShippingFee = pricing.ShippingFee(totals.Subtotal)
	totals.GrandTotal = totals.Subtotal.Add(totals.ShippingFee)
	return totals
}

// AddItem merges item into an existing line for the same product, or appends it.
func (c *Cart) AddItem(item LineItem) {
	if idx := c.indexOf(item.ID); idx >= 0 {
		existing := &c.Items[idx]
		existing.Quantity += item.Quantity
		existing.Subtotal = pricing.LineSubtotal(existing.Price, existing.Quantity)
	} else {
		item.Subtotal = pricing.LineSubtotal(item.Price, item.Quantity)
		c.Items = append(c.Items, item)
	}
	c.recompute()
}

// UpdateQuantity sets the quantity of an existing line. Unknown ids are ignored.
func (c *Cart) UpdateQuantity(itemID string, quantity int) {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return
	}
	line := &c.Items[idx]
	line.Quantity = quantity
	line.Subtotal = pricing.LineSubtotal(line.Price, quantity)
	c.recompute()
}

// RemoveItem drops a line if present.
func (c *Cart) RemoveItem(itemID string) {
	if idx := c.indexOf(itemID); idx >= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	}
	c.recompute()
}

// Item returns the line with the given id.
func (c *Cart) Item(itemID string) (LineItem, bool) {
	if idx := c.indexOf(itemID); idx >= 0 {
		return c.Items[idx], true
	}
	return LineItem{}, false
}

// QuantityOf returns how many units of productID are already in the cart.
func (c *Cart) QuantityOf(productID int64) int {
	if item, ok := c.Item(ItemID(productID)); ok {
		return item.Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

// Clone returns a deep copy; order placement works on a clone so the live
// cart can change underneath without touching the snapshot.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return &Cart{Items: items, Totals: c.Totals}
}

// Normalize re-derives line subtotals and totals, e.g. after decoding.
func (c *Cart) Normalize() {
	if c.Items == nil {
		c.Items = []LineItem{}
	}
	for i := range c.Items {
		c.Items[i].Subtotal = pricing.LineSubtotal(c.Items[i].Price, c.Items[i].Quantity)
	}
	c.recompute()
}

func (c *Cart) recompute() {
	c.Totals = ComputeTotals(c.Items)
}

func (c *Cart) indexOf(itemID string) int {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return i
		}
	}
	return -1
}
