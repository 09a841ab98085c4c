package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeLink    = "login-link"
	purposeSession = "session"
)

// TokenService signs and verifies the two JWT kinds the auth flow uses: the
// short-lived magic-link token and the session token issued on verification.
type TokenService struct {
	secret []byte
	issuer string
}

func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	if issuer == "" {
		issuer = "patentvault"
	}
	return &TokenService{secret: []byte(secret), issuer: issuer}, nil
}

type linkClaims struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// SessionClaims is the decoded session token payload. It carries everything
// needed to rebuild the authorization context without a store round trip.
type SessionClaims struct {
	Email       string   `json:"email"`
	Canonical   string   `json:"canonical"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	Purpose     string   `json:"purpose"`
	jwt.RegisteredClaims
}

// IssueLinkToken creates the token embedded in a magic sign-in link.
func (t *TokenService) IssueLinkToken(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := linkClaims{
		Email:   email,
		Purpose: purposeLink,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseLinkToken verifies a link token and returns the email it was issued
// for.
func (t *TokenService) ParseLinkToken(raw string) (string, error) {
	var claims linkClaims
	if err := t.parse(raw, &claims); err != nil {
		return "", err
	}
	if claims.Purpose != purposeLink {
		return "", errors.New("not a login link token")
	}
	if claims.Email == "" {
		return "", errors.New("link token missing email")
	}
	return claims.Email, nil
}

// IssueSessionToken creates a session token for an established session.
func (t *TokenService) IssueSessionToken(sessionID, email, canonical, role string, perms []string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := SessionClaims{
		Email:       email,
		Canonical:   canonical,
		Role:        role,
		Permissions: perms,
		Purpose:     purposeSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   canonical,
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return signed, exp, err
}

// ParseSessionToken verifies a session token.
func (t *TokenService) ParseSessionToken(raw string) (*SessionClaims, error) {
	var claims SessionClaims
	if err := t.parse(raw, &claims); err != nil {
		return nil, err
	}
	if claims.Purpose != purposeSession {
		return nil, errors.New("not a session token")
	}
	return &claims, nil
}

func (t *TokenService) parse(raw string, claims jwt.Claims) error {
	tok, err := jwt.ParseWithClaims(raw, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer))
	if err != nil {
		return err
	}
	if !tok.Valid {
		return errors.New("invalid token")
	}
	return nil
}
