package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminRole = "admin"

var ErrInvalidToken = errors.New("invalid token")

type Token struct {
	Token string    `json:"token"`
	Exp   time.Time `json:"expiresAt"`
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < 16 {
		return nil, fmt.Errorf("token secret must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs an HS256 token for the admin back office.
func (i *Issuer) Issue(subject string) (Token, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Token: signed, Exp: exp}, nil
}

// Verify returns the subject of a valid admin token.
func (i *Issuer) Verify(raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != adminRole {
		return "", ErrInvalidToken
	}
	sub, _ := claims.GetSubject()
	return sub, nil
}
