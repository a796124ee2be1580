package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ndanilov/inventory_api/internal/apperror"
	"github.com/ndanilov/inventory_api/internal/models"
)

const TTL = time.Hour

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Email    string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies access tokens with a process-wide symmetric
// secret. Tokens are stateless: nothing is persisted and nothing can be
// revoked before expiry.
type Issuer struct {
	Secret   []byte
	Issuer   string
	Audience string
}

func (i *Issuer) Issue(user models.User) (string, time.Time, error) {
	exp := time.Now().Add(TTL)
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    i.Issuer,
			Audience:  jwt.ClaimStrings{i.Audience},
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Parse verifies signature, signing method, issuer, audience and expiry.
// Any failure comes back as Unauthenticated.
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (interface{}, error) { return i.Secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.Issuer),
		jwt.WithAudience(i.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !t.Valid {
		return nil, apperror.Wrap(apperror.Unauthenticated, "invalid or expired token", err)
	}
	return claims, nil
}
