// Package token issues and verifies signed, time-boxed password reset tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ResetTTL is how long a password reset link stays valid.
const ResetTTL = 900 * time.Second

const passwordResetAudience = "password-reset"

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("token has expired")
)

type resetClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Signer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Signer)

// WithClock replaces time.Now, used by tests to age tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.now = now
	}
}

func NewSigner(secret string, opts ...Option) *Signer {
	s := &Signer{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueReset binds email into an HS256 token that expires after the TTL.
func (s *Signer) IssueReset(email string) (string, error) {
	now := s.now()
	claims := resetClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{passwordResetAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ResetTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign reset token: %w", err)
	}
	return signed, nil
}

// VerifyReset returns the email bound into a reset token.
// Expired tokens yield ErrExpired, anything else that fails to verify ErrInvalid.
func (s *Signer) VerifyReset(tokenString string) (string, error) {
	claims := &resetClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(passwordResetAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpired
		}
		return "", ErrInvalid
	}
	if claims.Email == "" {
		return "", ErrInvalid
	}
	return claims.Email, nil
}
