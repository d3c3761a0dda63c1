package utils

import (
	"testing"
	"time"

	"survey-admin/config"
	"survey-admin/models"
)

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTExpiryHours: 1}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	cfg := testConfig()
	acct := models.AdminAccount{ID: 7, Email: "admin@example.com", IsSuperuser: true}

	tok, err := GenerateToken(cfg, acct)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := VerifyToken(cfg, tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Subject != "7" || claims.Email != "admin@example.com" || !claims.IsSuperuser {
		t.Fatalf("claims round-trip broken: %+v", claims)
	}
	if claims.ExpiresAt.Time.Before(time.Now()) {
		t.Fatal("token already expired")
	}
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	cfg := testConfig()
	tok, err := GenerateToken(cfg, models.AdminAccount{ID: 1, Email: "a@b.c"})
	if err != nil {
		t.Fatal(err)
	}

	other := &config.Config{JWTSecret: "other-secret", JWTExpiryHours: 1}
	if _, err := VerifyToken(other, tok); err == nil {
		t.Fatal("token verified with the wrong secret")
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	if _, err := VerifyToken(testConfig(), "not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}
}

func TestGenerateTokenRequiresSecret(t *testing.T) {
	cfg := &config.Config{}
	if _, err := GenerateToken(cfg, models.AdminAccount{ID: 1}); err == nil {
		t.Fatal("missing secret not rejected")
	}
}
