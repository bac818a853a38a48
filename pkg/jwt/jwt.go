package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim.
const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
)

// DefaultTTL is how long issued tokens stay valid.
const DefaultTTL = time.Hour * 24 * 7

// Identity is who a token speaks for.
type Identity struct {
	UserID uint
	Role   string
}

// GenerateToken creates a new JWT for a given user ID and role.
func GenerateToken(secret string, userID uint, role string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and extracts the identity from its claims.
func ParseToken(secret, tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("jwt parse error: %w", err)
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid jwt claims")
	}

	// JSON numbers decode as float64.
	sub, ok := claims["sub"].(float64)
	if !ok || sub < 1 {
		return Identity{}, errors.New("missing sub in jwt")
	}
	role, _ := claims["role"].(string)
	if role == "" {
		role = RoleStudent
	}

	return Identity{UserID: uint(sub), Role: role}, nil
}
