package main

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenExpiry = 12 * time.Hour
	bcryptCost  = 12
)

// Auth issues short-lived viewer tokens and guards the control
// endpoint with an optional admin password.
type Auth struct {
	jwtSecret []byte
	adminHash []byte // nil when no admin password is configured
}

// NewAuth creates an Auth with a fresh random signing secret. Tokens do
// not survive a restart, which is fine for viewer sessions.
func NewAuth(adminPass string) (*Auth, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate secret: %w", err)
	}

	a := &Auth{jwtSecret: secret}
	if adminPass != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPass), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		a.adminHash = hash
	}
	return a, nil
}

// IssueToken returns a signed viewer token.
func (a *Auth) IssueToken() (string, error) {
	claims := jwt.MapClaims{
		"sub": "viewer",
		"exp": time.Now().Add(tokenExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateToken checks a viewer token's signature and expiry.
func (a *Auth) ValidateToken(tokenStr string) error {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}

// CheckAdmin verifies the control-endpoint password. Always false when
// no admin password was configured.
func (a *Auth) CheckAdmin(password string) bool {
	if a.adminHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(a.adminHash, []byte(password)) == nil
}
