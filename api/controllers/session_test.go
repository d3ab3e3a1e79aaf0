package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/simplezakka/zakka-backend/pkg/auth"
	"github.com/simplezakka/zakka-backend/pkg/auth/session"
	"github.com/simplezakka/zakka-backend/pkg/config"
)

type stubSessionTokenManager struct {
	lastRevoked      string
	lastRotateOld    string
	lastRotateBody   string
	lastRotateCustID int64
	rotateRespID     string
	rotateRespTok    string
	rotateErr        error
	revokeErr        error
}

func (s *stubSessionTokenManager) Rotate(ctx context.Context, oldAccessID string, customerID int64, provided string) (string, string, error) {
	s.lastRotateOld = oldAccessID
	s.lastRotateCustID = customerID
	s.lastRotateBody = provided
	return s.rotateRespID, s.rotateRespTok, s.rotateErr
}

func (s *stubSessionTokenManager) Revoke(ctx context.Context, accessID string) error {
	s.lastRevoked = accessID
	return s.revokeErr
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, customerID int64, issuedAt time.Time) (string, string) {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(cfg, issuedAt, auth.AccessTokenPayload{
		CustomerID: customerID,
		Email:      "hanako@example.com",
		JTI:        accessID,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token, accessID
}

func TestCustomerLogout(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	manager := &stubSessionTokenManager{}
	handler := CustomerLogout(manager, cfg, nil)

	token, jti := mintTestToken(t, cfg, 3, time.Now())
	req := httptest.NewRequest(http.MethodPost, "/api/customers/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if manager.lastRevoked != jti {
		t.Fatalf("expected revoked %s got %s", jti, manager.lastRevoked)
	}
}

func TestCustomerLogoutAcceptsExpiredToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	manager := &stubSessionTokenManager{}

	token, jti := mintTestToken(t, cfg, 3, time.Now().Add(-2*time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/api/customers/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	CustomerLogout(manager, cfg, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || manager.lastRevoked != jti {
		t.Fatalf("code=%d revoked=%q", rec.Code, manager.lastRevoked)
	}
}

func TestCustomerLogoutMissingToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	rec := httptest.NewRecorder()
	CustomerLogout(&stubSessionTokenManager{}, cfg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/customers/logout", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestCustomerRefresh(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	manager := &stubSessionTokenManager{
		rotateRespID:  "new-jti",
		rotateRespTok: "new-refresh",
	}
	handler := CustomerRefresh(manager, cfg, nil)

	token, jti := mintTestToken(t, cfg, 8, time.Now())
	body := `{"refreshToken":"old-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers/refresh", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if manager.lastRotateOld != jti || manager.lastRotateCustID != 8 || manager.lastRotateBody != "old-refresh" {
		t.Fatalf("unexpected rotate call %+v", manager)
	}
	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("expected refresh token new-refresh got %s", envelope.Data.RefreshToken)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatalf("expected access token in body")
	}
	if rec.Header().Get(accessTokenHeader) != envelope.Data.AccessToken {
		t.Fatalf("expected header token match body token")
	}

	claims, err := auth.ParseAccessToken(cfg, envelope.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse refreshed token: %v", err)
	}
	if claims.ID != "new-jti" || claims.CustomerID != 8 || claims.Email != "hanako@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestCustomerRefreshInvalidToken(t *testing.T) {
	cfg := config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}
	manager := &stubSessionTokenManager{
		rotateErr: session.ErrInvalidRefreshToken,
	}
	handler := CustomerRefresh(manager, cfg, nil)

	token, _ := mintTestToken(t, cfg, 8, time.Now())
	body := `{"refreshToken":"old-refresh"}`
	req := httptest.NewRequest(http.MethodPost, "/api/customers/refresh", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}
