package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the standard JWT claims plus the actor fields this service
// needs to attribute operations without a database lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"user_id"`
	UserName string `json:"user_name"`
}

// Generate signs a token carrying the actor identity. Token issuance
// normally lives in the external auth service; this is used by tests and
// tooling.
func Generate(secret string, userID int64, userName, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: empty secret")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:   userID,
		UserName: userName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse validates the token and returns the actor identity. Fails on bad
// signature, expiry, or a non-HMAC signing method.
func Parse(secret, tokenString string) (userID int64, userName string, err error) {
	if secret == "" {
		return 0, "", fmt.Errorf("jwt: empty secret")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, "", fmt.Errorf("invalid claims")
	}
	return claims.UserID, claims.UserName, nil
}
