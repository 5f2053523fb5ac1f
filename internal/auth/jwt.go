package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const RoleAdmin = "admin"

type JWTAuthenticator struct {
	secret string
	aud    string
	iss    string
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTAuthenticator(secret, aud, iss string, ttl time.Duration) *JWTAuthenticator {
	return &JWTAuthenticator{secret: secret, aud: aud, iss: iss, ttl: ttl, now: time.Now}
}

// GenerateToken issues an admin token for subject.
func (a *JWTAuthenticator) GenerateToken(subject string) (string, error) {
	now := a.now()
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": RoleAdmin,
		"exp":  now.Add(a.ttl).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"iss":  a.iss,
		"aud":  a.aud,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secret))
}

// ValidateToken checks signature, expiry, audience, issuer and the admin role.
func (a *JWTAuthenticator) ValidateToken(token string) (*jwt.Token, error) {
	t, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithAudience(a.aud),
		jwt.WithIssuer(a.iss),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}

	claims, _ := t.Claims.(jwt.MapClaims)
	if role, _ := claims["role"].(string); role != RoleAdmin {
		return nil, fmt.Errorf("token role %q is not allowed", role)
	}
	return t, nil
}
