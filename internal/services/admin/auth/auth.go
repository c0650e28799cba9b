// Package auth signs operators in. The shipped Issuer checks one configured
// operator credential and issues a signed token; the navigation guard only
// ever checks that some token is present.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the token lifetime when none is configured.
const DefaultTokenTTL = 12 * time.Hour

const issuerName = "library-admin"

var (
	// ErrInvalidCredentials reports a username or password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDisabled reports that no operator credential is configured.
	ErrDisabled = errors.New("sign-in is not configured")
)

// Authenticator exchanges operator credentials for a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
}

// Config holds the operator credential and token signing settings.
type Config struct {
	Username string
	// PasswordHash is a bcrypt hash of the operator password.
	PasswordHash string
	Secret       string
	TTL          time.Duration
}

// Issuer authenticates a single operator and issues HS256 tokens.
type Issuer struct {
	username string
	hash     []byte
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewIssuer validates cfg. An empty username or hash yields a disabled issuer.
func NewIssuer(cfg Config) (*Issuer, error) {
	issuer := &Issuer{
		username: strings.TrimSpace(cfg.Username),
		hash:     []byte(strings.TrimSpace(cfg.PasswordHash)),
		secret:   []byte(cfg.Secret),
		ttl:      cfg.TTL,
		now:      time.Now,
	}
	if issuer.ttl <= 0 {
		issuer.ttl = DefaultTokenTTL
	}
	if !issuer.Enabled() {
		return issuer, nil
	}
	if _, err := bcrypt.Cost(issuer.hash); err != nil {
		return nil, fmt.Errorf("operator password hash: %w", err)
	}
	if len(issuer.secret) == 0 {
		return nil, errors.New("token secret is required when an operator is configured")
	}
	return issuer, nil
}

// Enabled reports whether an operator credential is configured.
func (i *Issuer) Enabled() bool {
	return i != nil && i.username != "" && len(i.hash) > 0
}

// Authenticate checks the credential and returns a signed token.
func (i *Issuer) Authenticate(ctx context.Context, username, password string) (string, error) {
	if !i.Enabled() {
		return "", ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(username)), []byte(i.username)) == 1
	// The hash is compared even on a username mismatch.
	passErr := bcrypt.CompareHashAndPassword(i.hash, []byte(password))
	if !userOK || passErr != nil {
		return "", ErrInvalidCredentials
	}

	now := i.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuerName,
		Subject:   i.username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token issued by i and returns its claims.
func (i *Issuer) Parse(token string) (*jwt.RegisteredClaims, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	return claims, nil
}

// HashPassword returns a bcrypt hash suitable for Config.PasswordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
