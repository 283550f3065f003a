package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The signing key is injected from main at startup (JWT_SECRET).
// Keeping it out of source is non-negotiable.
var jwtSecretKey []byte

// SetSecret installs the HMAC signing key. Must be called once before
// any token is generated or validated.
func SetSecret(secret []byte) {
	jwtSecretKey = secret
}

// GenerateToken creates a new JWT for a given user ID.
func GenerateToken(userID int64) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", errors.New("jwt secret not configured")
	}

	claims := jwt.MapClaims{
		"sub": userID,                                // Subject is the user ID
		"exp": time.Now().Add(time.Hour * 72).Unix(), // Expires in 3 days
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the user ID (subject) if the token is valid.
func ValidateToken(tokenString string) (int64, error) {
	if len(jwtSecretKey) == 0 {
		return 0, errors.New("jwt secret not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything but our HMAC scheme.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecretKey, nil
	})
	if err != nil {
		return 0, err // expired, malformed, wrong key
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDFloat, ok := claims["sub"].(float64)
		if !ok {
			return 0, errors.New("invalid subject claim")
		}
		// JSON numbers arrive as float64
		return int64(userIDFloat), nil
	}

	return 0, errors.New("invalid token")
}
