package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/SAP-F-2025/quiz-attempt-service/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "quiz-attempt-service"

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // student, teacher or admin
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier accepts HS256 tokens signed with a shared secret
type JWTVerifier struct {
	hmac []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{hmac: []byte(secret)}
}

// IssueToken signs a token for sub. Used by tooling and tests; real tokens come from the identity provider.
func (v *JWTVerifier) IssueToken(sub string, role models.UserRole, name string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Role: string(role),
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(v.hmac)
}

func (v *JWTVerifier) Verify(_ context.Context, tokenStr string) (*models.Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	sub := claims.Sub
	if sub == "" {
		sub = claims.Subject
	}
	if sub == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}

	return &models.Principal{
		UserID: sub,
		Name:   claims.Name,
		Role:   normalizeRole(claims.Role),
	}, nil
}
