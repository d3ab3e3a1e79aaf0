package enums

import "testing"

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("PENDING")
	if err != nil || got != OrderStatusPending {
		t.Fatalf("expected pending, got %q err=%v", got, err)
	}
	if _, err := ParseOrderStatus("pending"); err == nil {
		t.Fatal("status parsing is case sensitive")
	}
	if OrderStatus("LOST").IsValid() {
		t.Fatal("unknown status should be invalid")
	}
}
