package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func TestIssueAndParse(t *testing.T) {
	tok, err := IssueTableToken(testSecret, "table-1", RoleController, time.Hour)
	if err != nil {
		t.Fatalf("IssueTableToken: %v", err)
	}

	claims, err := ParseTableToken(testSecret, tok, "table-1")
	if err != nil {
		t.Fatalf("ParseTableToken: %v", err)
	}
	if claims.TableID != "table-1" || claims.Role != RoleController {
		t.Errorf("claims = %+v", claims)
	}
	if time.Until(claims.ExpiresAt) <= 0 {
		t.Errorf("expiry in the past: %s", claims.ExpiresAt)
	}
}

func TestParseRejectsOtherTable(t *testing.T) {
	tok, _ := IssueTableToken(testSecret, "table-1", RoleSpectator, time.Hour)

	if _, err := ParseTableToken(testSecret, tok, "table-2"); !errors.Is(err, ErrWrongTable) {
		t.Errorf("err = %v, want ErrWrongTable", err)
	}
}

func TestParseRejectsBadTokens(t *testing.T) {
	good, _ := IssueTableToken(testSecret, "table-1", RoleController, time.Hour)
	expired, _ := IssueTableToken(testSecret, "table-1", RoleController, -time.Minute)
	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"table_id": "table-1",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))

	cases := map[string]struct {
		secret string
		token  string
	}{
		"wrong secret": {"other", good},
		"expired":      {testSecret, expired},
		"garbage":      {testSecret, "not-a-jwt"},
		"empty":        {testSecret, ""},
		"unknown role": {testSecret, badRole},
	}
	for name, c := range cases {
		if _, err := ParseTableToken(c.secret, c.token, "table-1"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	if _, err := IssueTableToken("", "table-1", RoleController, time.Hour); err == nil {
		t.Error("empty secret should be rejected")
	}
}

func TestIssuedExpiryMatchesTTL(t *testing.T) {
	before := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	tok, err := IssueTableToken(testSecret, "table-1", RoleSpectator, 2*time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseTableToken(testSecret, tok, "table-1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ExpiresAt.Before(before) || claims.ExpiresAt.After(before.Add(2*time.Second)) {
		t.Errorf("expiry = %s, want about %s", claims.ExpiresAt, before)
	}
}
