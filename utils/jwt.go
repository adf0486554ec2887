package utils

import (
	"time"

	"seenaf/config"
	"seenaf/models"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   string         `json:"user_id"`
	Username string         `json:"username"`
	Role     models.AppRole `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken signs a JWT carrying the user identity and the role claim
// resolved at login time. rememberMe extends the expiry from 1 to 30 days.
func GenerateToken(user models.User, role models.AppRole, rememberMe bool) (string, error) {
	expiry := 24 * time.Hour
	if rememberMe {
		expiry = 30 * 24 * time.Hour
	}

	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

// ParseToken validates a JWT and returns its claims
func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
