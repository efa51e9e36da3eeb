package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/moringadesk/moringadesk/config"
	"github.com/moringadesk/moringadesk/models"
)

func setTestSecret(t *testing.T, secret string) {
	t.Helper()
	config.SetForTesting(config.AppConfig{JWTSecret: secret})
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestSecret(t, "test-secret")

	token, err := GenerateToken(42, "dana", models.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "dana" {
		t.Errorf("Username = %q, want dana", claims.Username)
	}
	if claims.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestParseTokenExpired(t *testing.T) {
	setTestSecret(t, "test-secret")

	token, err := GenerateToken(1, "dana", models.RoleMember, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if _, err := ParseToken(token); !errors.Is(err, ErrCredentialExpired) {
		t.Errorf("ParseToken(expired) = %v, want ErrCredentialExpired", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	setTestSecret(t, "secret-a")
	token, err := GenerateToken(1, "dana", models.RoleMember, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	setTestSecret(t, "secret-b")
	if _, err := ParseToken(token); !errors.Is(err, ErrCredentialInvalidSignature) {
		t.Errorf("ParseToken(wrong secret) = %v, want ErrCredentialInvalidSignature", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	setTestSecret(t, "test-secret")
	if _, err := ParseToken("not.a.token"); err == nil {
		t.Error("ParseToken should reject malformed input")
	}
}
