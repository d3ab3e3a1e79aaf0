package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/simplezakka/zakka-backend/api/middleware"
	cartsvc "github.com/simplezakka/zakka-backend/internal/cart"
	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.Cart
	err  error

	lastSession  string
	lastProduct  int64
	lastItem     string
	lastQuantity int
	cleared      bool
}

func (s *stubCartService) GetOrCreateCart(ctx context.Context, sessionID string) (*cartsvc.Cart, error) {
	s.lastSession = sessionID
	return s.cart, s.err
}

func (s *stubCartService) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*cartsvc.Cart, error) {
	s.lastSession, s.lastProduct, s.lastQuantity = sessionID, productID, quantity
	return s.cart, s.err
}

func (s *stubCartService) UpdateItemQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*cartsvc.Cart, error) {
	s.lastSession, s.lastItem, s.lastQuantity = sessionID, itemID, quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(ctx context.Context, sessionID, itemID string) (*cartsvc.Cart, error) {
	s.lastSession, s.lastItem = sessionID, itemID
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, sessionID string) error {
	s.lastSession = sessionID
	s.cleared = true
	return s.err
}

func sampleCart() *cartsvc.Cart {
	c := cartsvc.New()
	c.AddItem(cartsvc.NewLineItem(1, "ステンレスタンブラー", decimal.NewFromInt(2800), "/images/tumbler.png", 1))
	return c
}

func newRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(middleware.WithCartSession(req.Context(), "session-1"))
}

func withItemParam(req *http.Request, itemID string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("itemId", itemID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestCartFetchSuccess(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	resp := httptest.NewRecorder()
	CartFetch(svc, nil).ServeHTTP(resp, newRequest(http.MethodGet, "/api/cart", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastSession != "session-1" {
		t.Fatalf("expected session-1, got %q", svc.lastSession)
	}

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].ID != "1" {
		t.Fatalf("unexpected items %+v", envelope.Data.Items)
	}
	if !envelope.Data.ShippingFee.Equal(decimal.NewFromInt(500)) || !envelope.Data.TotalPrice.Equal(decimal.NewFromInt(3300)) {
		t.Fatalf("unexpected totals %+v", envelope.Data)
	}
}

func TestCartAddItemPassesPayload(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/cart", `{"productId":1,"quantity":2}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastProduct != 1 || svc.lastQuantity != 2 {
		t.Fatalf("unexpected call product=%d qty=%d", svc.lastProduct, svc.lastQuantity)
	}
}

func TestCartAddItemMapsDomainErrors(t *testing.T) {
	tests := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeProductNotFound, http.StatusNotFound},
		{pkgerrors.CodeInvalidQuantity, http.StatusBadRequest},
		{pkgerrors.CodeInsufficientStock, http.StatusBadRequest},
	}
	for _, tt := range tests {
		svc := &stubCartService{err: pkgerrors.New(tt.code, "nope")}
		resp := httptest.NewRecorder()
		CartAddItem(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/cart", `{"productId":9,"quantity":0}`))
		if resp.Code != tt.status {
			t.Fatalf("%s: expected %d got %d", tt.code, tt.status, resp.Code)
		}
	}
}

func TestCartAddItemRejectsMissingProduct(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}
	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/cart", `{"quantity":1}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastProduct != 0 {
		t.Fatalf("service should not be called")
	}
}

func TestCartRejectsOversizedQuantity(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}

	resp := httptest.NewRecorder()
	CartAddItem(svc, nil).ServeHTTP(resp, newRequest(http.MethodPost, "/api/cart", `{"productId":1,"quantity":9223372036854775807}`))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("add: expected 400 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	req := withItemParam(newRequest(http.MethodPut, "/api/cart/items/1", `{"quantity":10000}`), "1")
	CartUpdateItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("update: expected 400 got %d", resp.Code)
	}
	if svc.lastProduct != 0 || svc.lastItem != "" {
		t.Fatalf("service should not be called")
	}
}

func TestCartUpdateAndRemoveUseItemParam(t *testing.T) {
	svc := &stubCartService{cart: sampleCart()}

	resp := httptest.NewRecorder()
	req := withItemParam(newRequest(http.MethodPut, "/api/cart/items/1", `{"quantity":3}`), "1")
	CartUpdateItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || svc.lastItem != "1" || svc.lastQuantity != 3 {
		t.Fatalf("update: code=%d item=%q qty=%d", resp.Code, svc.lastItem, svc.lastQuantity)
	}

	svc.err = pkgerrors.New(pkgerrors.CodeItemNotInCart, "item not in cart")
	resp = httptest.NewRecorder()
	req = withItemParam(newRequest(http.MethodPut, "/api/cart/items/99", `{"quantity":3}`), "99")
	CartUpdateItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing line, got %d", resp.Code)
	}

	svc.err = nil
	resp = httptest.NewRecorder()
	req = withItemParam(newRequest(http.MethodDelete, "/api/cart/items/1", ""), "1")
	CartRemoveItem(svc, nil).ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || svc.lastItem != "1" {
		t.Fatalf("remove: code=%d item=%q", resp.Code, svc.lastItem)
	}
}

func TestCartClear(t *testing.T) {
	svc := &stubCartService{}
	resp := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(resp, newRequest(http.MethodDelete, "/api/cart", ""))
	if resp.Code != http.StatusNoContent || !svc.cleared {
		t.Fatalf("expected 204 and clear, got %d cleared=%v", resp.Code, svc.cleared)
	}
}
