package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey is used to sign and verify JWT tokens. Set it with InitJWT before serving requests.
var jwtSecretKey []byte

// AccessTokenTTL is how long an issued access token stays valid.
var AccessTokenTTL = 12 * time.Hour

const tokenIssuer = "hotel-platform-backend"

// Claims defines the JWT claims structure
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
	BranchID string `json:"branch_id,omitempty"` // empty for users not bound to a branch
	jwt.RegisteredClaims
}

// ActorName is the display name recorded as updatedBy on writes.
func (c *Claims) ActorName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Username
}

// InitJWT configures the signing secret and token lifetime.
func InitJWT(secret string, ttl time.Duration) error {
	if len(secret) < 16 {
		return errors.New("jwt secret must be at least 16 characters")
	}
	jwtSecretKey = []byte(secret)
	if ttl > 0 {
		AccessTokenTTL = ttl
	}
	return nil
}

// GenerateAccessToken creates a new JWT access token for the given identity.
func GenerateAccessToken(userID int64, username, fullName, role, branchID string) (string, error) {
	if len(jwtSecretKey) == 0 {
		return "", errors.New("jwt secret not configured")
	}
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		FullName: fullName,
		Role:     role,
		BranchID: branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	if len(jwtSecretKey) == 0 {
		return nil, errors.New("jwt secret not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
