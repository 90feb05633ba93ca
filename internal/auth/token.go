package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Role decides what a WebSocket connection may do at a table.
type Role string

const (
	// RoleController owns the table's pointer binding.
	RoleController Role = "controller"
	// RoleSpectator only receives table events.
	RoleSpectator Role = "spectator"
)

var (
	ErrInvalidToken = errors.New("invalid table token")
	ErrWrongTable   = errors.New("token issued for another table")
)

// TableClaims is the decoded content of a table token.
type TableClaims struct {
	TableID   string
	Role      Role
	ExpiresAt time.Time
}

// IssueTableToken signs an HS256 token granting role at tableID.
func IssueTableToken(secret, tableID string, role Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{"table_id": tableID, "role": string(role), "exp": exp.Unix()}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseTableToken validates a token and checks that it was issued for tableID.
func ParseTableToken(secret, token, tableID string) (*TableClaims, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	id, _ := claims["table_id"].(string)
	role, _ := claims["role"].(string)
	expf, _ := claims["exp"].(float64)
	if id == "" || (Role(role) != RoleController && Role(role) != RoleSpectator) {
		return nil, ErrInvalidToken
	}
	if id != tableID {
		return nil, ErrWrongTable
	}

	return &TableClaims{
		TableID:   id,
		Role:      Role(role),
		ExpiresAt: time.Unix(int64(expf), 0),
	}, nil
}
