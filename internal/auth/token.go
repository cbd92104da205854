package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "garagy/internal/errors"
)

// Claims are the JWT claims issued at login.
type Claims struct {
	AdminID  string `json:"admin_id"`
	Email    string `json:"email"`
	GarageID string `json:"garage_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 admin tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (m *TokenManager) Issue(id Identity) (string, error) {
	if len(m.secret) == 0 {
		return "", apperrors.New(apperrors.CodeInternal, "JWT_SECRET not set")
	}
	now := m.now()
	claims := Claims{
		AdminID:  id.AdminID,
		Email:    id.Email,
		GarageID: id.GarageID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AdminID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *TokenManager) Parse(raw string) (Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Identity{}, apperrors.Wrap(apperrors.CodeUnauthorized, err, "session expired")
	}
	if err != nil {
		return Identity{}, apperrors.Wrap(apperrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.AdminID == "" || claims.GarageID == "" {
		return Identity{}, apperrors.New(apperrors.CodeUnauthorized, "token carries no garage")
	}
	return Identity{AdminID: claims.AdminID, Email: claims.Email, GarageID: claims.GarageID}, nil
}
