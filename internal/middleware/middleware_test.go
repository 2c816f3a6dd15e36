package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"campus-incidents/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

func newProtectedApp(skipAuth bool) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(skipAuth), RequireStaff(), func(c *fiber.Ctx) error {
		claims := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		return c.JSON(fiber.Map{"user_id": claims.UserID})
	})
	return app
}

func token(t *testing.T, role string, verified bool) string {
	t.Helper()
	tok, err := utils.GenerateToken("u-1", "officer@campus.test", role, verified, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func TestAuthAndRBAC(t *testing.T) {
	utils.SetSecret("test-secret")
	app := newProtectedApp(false)

	tests := []struct {
		name       string
		header     string
		query      string
		wantStatus int
		wantError  string
	}{
		{"missing token", "", "", fiber.StatusUnauthorized, "Authorization header required"},
		{"bad header format", "Token abc", "", fiber.StatusUnauthorized, "Invalid authorization header format"},
		{"invalid token", "Bearer not-a-jwt", "", fiber.StatusUnauthorized, "Invalid token"},
		{"unverified staff", "Bearer " + token(t, utils.RoleAuthority, false), "", fiber.StatusForbidden, "Please verify your email before signing in."},
		{"wrong role", "Bearer " + token(t, "student", true), "", fiber.StatusForbidden, "Access Denied: Your role (student) is not authorized."},
		{"empty role", "Bearer " + token(t, "", true), "", fiber.StatusForbidden, "Access Denied: Your role (none) is not authorized."},
		{"authority via header", "Bearer " + token(t, utils.RoleAuthority, true), "", fiber.StatusOK, ""},
		{"admin via query", "", token(t, utils.RoleAdmin, true), fiber.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/protected"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest("GET", target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantError != "" {
				var body map[string]string
				if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("error = %q, want %q", body["error"], tt.wantError)
				}
			}
		})
	}
}

func TestAuthSkipInjectsDevClaims(t *testing.T) {
	app := newProtectedApp(true)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK || body["user_id"] != "dev-admin-id" {
		t.Errorf("status %d body %v", resp.StatusCode, body)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); got != "req-123" {
		t.Errorf("echoed id = %q", got)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got := resp.Header.Get(RequestIDHeader); len(got) != 36 {
		t.Errorf("generated id = %q, want a uuid", got)
	}
}
