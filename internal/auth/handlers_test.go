package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestTokenHandler(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewLocalTokenService("secret"))

	body, _ := json.Marshal(map[string]string{"subject": "ext|123", "email": "a@b.com"})
	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("token status: %v", err)
	}

	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TokenType != "Bearer" || out.AccessToken == "" {
		t.Fatalf("unexpected token response: %+v", out)
	}

	// minted token verifies against the same secret
	ident, err := NewLocalVerifier("secret").Verify(context.Background(), out.AccessToken)
	if err != nil || ident.Subject != "ext|123" {
		t.Fatalf("minted token must verify: %v", err)
	}
}

func TestTokenHandlerMissingSubject(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewLocalTokenService("secret"))

	req := httptest.NewRequest(http.MethodPost, "/auth/token", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}
