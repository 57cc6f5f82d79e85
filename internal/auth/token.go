package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// TokenIssuer mints and verifies HS256 access/refresh token pairs. The token
// type travels in a custom claim so a refresh token can never be presented
// where an access token is expected, and vice versa.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

type tokenClaims struct {
	Email     string `json:"email,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Issue creates an access/refresh pair for the user.
func (ti *TokenIssuer) Issue(userID int64, email string) (TokenPair, error) {
	access, err := ti.sign(userID, email, TokenAccess, ti.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := ti.sign(userID, email, TokenRefresh, ti.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (ti *TokenIssuer) sign(userID int64, email, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Verify parses the token, checks the signature and expiry, and confirms the
// token type. Returns the user id the token was issued for.
func (ti *TokenIssuer) Verify(tokenString, tokenType string) (int64, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	claims := &tokenClaims{}
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return ti.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}
	if claims.TokenType != tokenType {
		return 0, fmt.Errorf("token type %q, want %q", claims.TokenType, tokenType)
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("token subject: %w", err)
	}
	return userID, nil
}
