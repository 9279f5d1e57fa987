package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in access tokens. Higher values include the permissions of lower ones.
const (
	RoleStudent = 1
	RoleTeacher = 2
	RoleAdmin   = 3
)

const accessTokenType = "access"

// AccessClaims is the payload of an access token issued by the auth collaborator
type AccessClaims struct {
	UserID int    `json:"user_id"`
	Role   int    `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenGenerator signs and validates HS256 access tokens
type TokenGenerator struct {
	secret            []byte
	accessTokenExpiry time.Duration
}

// NewTokenGenerator creates a new token generator
func NewTokenGenerator(secret string, accessExpiry time.Duration) *TokenGenerator {
	return &TokenGenerator{
		secret:            []byte(secret),
		accessTokenExpiry: accessExpiry,
	}
}

// GenerateAccessToken creates an access token with userID and role in payload
func (tg *TokenGenerator) GenerateAccessToken(userID, role int) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID,
		Role:   role,
		Type:   accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tg.accessTokenExpiry)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tg.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// ValidateAccessToken validates an access token and returns the userID and role
func (tg *TokenGenerator) ValidateAccessToken(tokenString string) (int, int, error) {
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return tg.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return 0, 0, errors.New("token is invalid")
	}
	if claims.Type != accessTokenType {
		return 0, 0, errors.New("token is not an access token")
	}
	if claims.Role < RoleStudent || claims.Role > RoleAdmin {
		return 0, 0, fmt.Errorf("unknown role %d", claims.Role)
	}

	return claims.UserID, claims.Role, nil
}
