package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/pkg/errors"
)

const (
	// AccessTokenValidity is how long an access token stays valid
	AccessTokenValidity = time.Hour * 24
	// RefreshTokenValidity is how long a refresh token stays valid
	RefreshTokenValidity = time.Hour * 24 * 7
)

// GenerateTokenPair returns a signed access and refresh token for the user
func GenerateTokenPair(email, secret string, isAdmin bool, userID uint, userKey string) (string, string, error) {
	accessClaims := jwt.MapClaims{
		"id":       userID,
		"user_key": userKey,
		"email":    email,
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      time.Now().Add(AccessTokenValidity).Unix(),
	}
	accessToken, err := generateToken(accessClaims, secret)
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"id":    userID,
		"email": email,
		"type":  "refresh",
		"exp":   time.Now().Add(RefreshTokenValidity).Unix(),
	}
	refreshToken, err := generateToken(refreshClaims, secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func generateToken(claims jwt.MapClaims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return tokenString, nil
}

// ValidateAndGetClaims verifies the token signature and expiry and returns
// its claims
func ValidateAndGetClaims(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
