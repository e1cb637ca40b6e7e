package auth

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nurpe/rental-desk/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

// Parser reads the operator identity from backend-issued access tokens. With
// a secret the signature is verified; without one the claims are only read
// for UI role gating and the backend stays the authority.
type Parser struct {
	secret []byte
}

func NewParser(secret string) *Parser {
	return &Parser{secret: []byte(secret)}
}

func (p *Parser) Verifies() bool {
	return len(p.secret) > 0
}

func (p *Parser) Parse(tokenStr string) (model.Principal, error) {
	principal := model.Principal{Token: tokenStr, Role: model.RoleUser}
	if tokenStr == "" {
		return principal, ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if p.Verifies() {
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
			return p.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return principal, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
			// opaque token; the backend decides what it may do
			return principal, nil
		}
	}

	principal.UserID = claimString(claims["sub"])
	if principal.UserID == "" {
		principal.UserID = claimString(claims["user_id"])
	}
	if role := claimString(claims["role"]); role == string(model.RoleAdmin) {
		principal.Role = model.RoleAdmin
	}
	return principal, nil
}

func claimString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatInt(int64(value), 10)
	case int64:
		return strconv.FormatInt(value, 10)
	}
	return ""
}
