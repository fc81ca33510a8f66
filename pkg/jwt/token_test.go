package jwtPkg

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func TestSignAndParse(t *testing.T) {
	t.Setenv(SecretKeyEnv, "unit-test-secret")

	data := map[string]interface{}{
		"id":       "01USER",
		"username": "alice",
		"sid":      "01SESSION",
	}

	token, expired, err := Sign(data, time.Hour)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	if token == "" {
		t.Fatal("Sign() returned empty token")
	}
	if got := time.Until(time.Unix(expired, 0)); got < 55*time.Minute || got > 65*time.Minute {
		t.Errorf("expiry %v away, want about an hour", got)
	}

	parsed, err := jwt.Parse(token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("unit-test-secret"), nil
	})
	if err != nil {
		t.Fatalf("jwt.Parse() error = %v", err)
	}

	claims := parsed.Claims.(jwt.MapClaims)
	if claims["id"] != "01USER" || claims["username"] != "alice" || claims["sid"] != "01SESSION" {
		t.Errorf("claims = %v, custom data missing", claims)
	}
	if claims["authorization"] != true {
		t.Error("authorization claim missing")
	}
}

func TestSignWithoutSecret(t *testing.T) {
	t.Setenv(SecretKeyEnv, "")

	if _, _, err := Sign(map[string]interface{}{"id": "x"}, time.Hour); err == nil {
		t.Error("expected error when secret is unset")
	}
}

func TestVerifyTokenHeader(t *testing.T) {
	t.Setenv(SecretKeyEnv, "unit-test-secret")

	valid, _, err := Sign(map[string]interface{}{"id": "x"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	tests := []struct {
		name    string
		header  string
		wantErr bool
	}{
		{"valid bearer token", "Bearer " + valid, false},
		{"missing header", "", true},
		{"not bearer", "Basic abc", true},
		{"garbage token", "Bearer not.a.jwt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()

			var verifyErr error
			app.Get("/", func(c *fiber.Ctx) error {
				_, verifyErr = VerifyTokenHeader(c, SecretKeyEnv)
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if _, err := app.Test(req); err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}

			if tt.wantErr && verifyErr == nil {
				t.Error("expected verification error, got nil")
			}
			if !tt.wantErr && verifyErr != nil {
				t.Errorf("VerifyTokenHeader() error = %v", verifyErr)
			}
		})
	}
}
