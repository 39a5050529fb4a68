package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const formTokenSubject = "prediction-form"

var ErrInvalidFormToken = errors.New("invalid or expired form token")

// FormSessionCookie holds the random value a form token is bound to. A
// submission verifies only when the hidden token and the cookie come from
// the same browser.
const FormSessionCookie = "form_session"

// FormTokens signs the hidden token embedded in every rendered form. The
// token carries the browser's session value as its ID claim, so a token
// fetched by another client fails against this browser's cookie.
type FormTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewFormTokens(secret string, ttl time.Duration) *FormTokens {
	return &FormTokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (f *FormTokens) Issue(session string) (string, error) {
	if session == "" {
		return "", errors.New("form token needs a session value")
	}
	now := f.now()
	claims := jwt.RegisteredClaims{
		ID:        session,
		Subject:   formTokenSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(f.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(f.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign form token: %w", err)
	}
	return signed, nil
}

func (f *FormTokens) Verify(tokenStr, session string) error {
	if tokenStr == "" || session == "" {
		return ErrInvalidFormToken
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return f.secret, nil
	}, jwt.WithTimeFunc(f.now), jwt.WithSubject(formTokenSubject), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ErrInvalidFormToken
	}
	if subtle.ConstantTimeCompare([]byte(claims.ID), []byte(session)) != 1 {
		return ErrInvalidFormToken
	}
	return nil
}
