package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/simplezakka/zakka-backend/pkg/errors"
)

type sampleBody struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestDecodeJSONBodyReportsFieldErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope","quantity":0}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)

	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("unexpected details %T", typed.Details())
	}
	if details["email"] != "must be a valid email" || details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.jp","quantity":1,"extra":true}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

type nestedContact struct {
	Name        string `json:"name" validate:"notblank"`
	PhoneNumber string `json:"phoneNumber" validate:"required,jpphone"`
}

type nestedBody struct {
	Contact nestedContact `json:"contact" validate:"required"`
}

func TestDecodeJSONBodyNestedPathsAndShopRules(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"contact":{"name":"   ","phoneNumber":"06-1234"}}`))
	var body nestedBody
	err := DecodeJSONBody(req, &body)

	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	details, _ := typed.Details().(map[string]string)
	if details["contact.name"] != "is required" {
		t.Fatalf("expected blank name rejected, got %v", details)
	}
	if details["contact.phoneNumber"] != "must be 10 or 11 digits starting with 0" {
		t.Fatalf("expected phone rule, got %v", details)
	}
}

func TestDecodeJSONBodyAcceptsDomesticPhones(t *testing.T) {
	for _, phone := range []string{"0612345678", "09012345678"} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"contact":{"name":"花子","phoneNumber":"`+phone+`"}}`))
		var body nestedBody
		if err := DecodeJSONBody(req, &body); err != nil {
			t.Fatalf("phone %s: unexpected error %v", phone, err)
		}
	}
}

func TestDecodeJSONBodyRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":    ``,
		"syntax":   `{"email":`,
		"trailing": `{"email":"a@b.jp","quantity":1}{}`,
		"type":     `{"email":"a@b.jp","quantity":"one"}`,
		"too big":  `{"email":"` + strings.Repeat("a", MaxBodyBytes) + `"}`,
	}
	for name, payload := range cases {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
		var body sampleBody
		if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?min=5&bad=x", nil)
	if v, err := ParseQueryInt(req, "min", 0, 0, 100); err != nil || v != 5 {
		t.Fatalf("expected 5, got %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 7, 0, 100); err != nil || v != 7 {
		t.Fatalf("expected default 7, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 0, 0, 100); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
}

func TestParseIDParam(t *testing.T) {
	withParam := func(value string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rc := chi.NewRouteContext()
		rc.URLParams.Add("productId", value)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	}

	if id, err := ParseIDParam(withParam("42"), "productId"); err != nil || id != 42 {
		t.Fatalf("expected 42, got %d %v", id, err)
	}
	for _, raw := range []string{"0", "-3", "abc", ""} {
		if _, err := ParseIDParam(withParam(raw), "productId"); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestSanitizeStringCountsRunes(t *testing.T) {
	if got := SanitizeString("  タンブラー  ", 3); got != "タンブ" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString(" cup ", 0); got != "cup" {
		t.Fatalf("unexpected %q", got)
	}
}
