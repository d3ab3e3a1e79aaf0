package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func line(productID int64, price int64, qty int) LineItem {
	return NewLineItem(productID, "item", decimal.NewFromInt(price), "", qty)
}

func TestNewCartIsEmptyWithZeroTotals(t *testing.T) {
	t.Parallel()

	c := New()
	if !c.IsEmpty() {
		t.Fatalf("expected empty cart")
	}
	if c.TotalQuantity != 0 || !c.Subtotal.IsZero() {
		t.Fatalf("unexpected totals %+v", c.Totals)
	}
	if !c.ShippingFee.Equal(decimal.NewFromInt(500)) || !c.GrandTotal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("empty cart should carry the flat fee, got %+v", c.Totals)
	}
}

func TestAddItemMergesSameProduct(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(line(1, 1000, 2))
	c.AddItem(line(2, 300, 1))
	c.AddItem(line(1, 1000, 3))

	if len(c.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(c.Items))
	}
	if c.Items[0].ID != "1" || c.Items[1].ID != "2" {
		t.Fatalf("insertion order lost: %+v", c.Items)
	}
	if c.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", c.Items[0].Quantity)
	}
	if !c.Items[0].Subtotal.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("expected line subtotal 5000, got %s", c.Items[0].Subtotal)
	}
	if c.TotalQuantity != 6 {
		t.Fatalf("expected total quantity 6, got %d", c.TotalQuantity)
	}
	if !c.Subtotal.Equal(decimal.NewFromInt(5300)) || !c.ShippingFee.IsZero() || !c.GrandTotal.Equal(decimal.NewFromInt(5300)) {
		t.Fatalf("unexpected totals %+v", c.Totals)
	}
}

func TestAddItemIgnoresCallerSubtotal(t *testing.T) {
	t.Parallel()

	item := line(7, 250, 2)
	item.Subtotal = decimal.NewFromInt(1)

	c := New()
	c.AddItem(item)
	if !c.Items[0].Subtotal.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected recomputed subtotal 500, got %s", c.Items[0].Subtotal)
	}
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(line(1, 1000, 1))

	c.UpdateQuantity("1", 4)
	if c.Items[0].Quantity != 4 || !c.Subtotal.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("unexpected cart after update: %+v", c)
	}
	if !c.ShippingFee.Equal(decimal.NewFromInt(500)) || !c.GrandTotal.Equal(decimal.NewFromInt(4500)) {
		t.Fatalf("unexpected totals %+v", c.Totals)
	}

	before := c.Totals
	c.UpdateQuantity("99", 10)
	if c.Totals != before || len(c.Items) != 1 {
		t.Fatalf("unknown id should be a no-op")
	}
}

func TestRemoveItem(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(line(1, 1000, 1))
	c.AddItem(line(2, 2000, 1))

	c.RemoveItem("1")
	if len(c.Items) != 1 || c.Items[0].ID != "2" {
		t.Fatalf("unexpected items %+v", c.Items)
	}
	if !c.Subtotal.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected subtotal 2000, got %s", c.Subtotal)
	}

	c.RemoveItem("missing")
	if len(c.Items) != 1 {
		t.Fatalf("missing id should be a no-op")
	}
}

func TestComputeTotalsShippingBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		items    []LineItem
		shipping int64
		grand    int64
	}{
		{name: "below threshold", items: []LineItem{line(1, 4999, 1)}, shipping: 500, grand: 5499},
		{name: "at threshold", items: []LineItem{line(1, 2500, 2)}, shipping: 0, grand: 5000},
		{name: "above threshold", items: []LineItem{line(1, 5001, 1)}, shipping: 0, grand: 5001},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			totals := ComputeTotals(tc.items)
			if !totals.ShippingFee.Equal(decimal.NewFromInt(tc.shipping)) {
				t.Fatalf("expected shipping %d, got %s", tc.shipping, totals.ShippingFee)
			}
			if !totals.GrandTotal.Equal(decimal.NewFromInt(tc.grand)) {
				t.Fatalf("expected grand total %d, got %s", tc.grand, totals.GrandTotal)
			}
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := New()
	c.AddItem(line(1, 1000, 1))
	snapshot := c.Clone()

	c.UpdateQuantity("1", 3)
	c.AddItem(line(2, 100, 1))

	if len(snapshot.Items) != 1 || snapshot.Items[0].Quantity != 1 {
		t.Fatalf("snapshot mutated: %+v", snapshot.Items)
	}
	if !snapshot.Subtotal.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("snapshot totals mutated: %+v", snapshot.Totals)
	}
	if c.QuantityOf(1) != 3 || c.QuantityOf(42) != 0 {
		t.Fatalf("unexpected quantities on live cart")
	}
}
