package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
)

// AuthService issues and validates session tokens. Sessions are anonymous:
// signing in mints a fresh user id and a JWT carrying it. Sign-out is a
// client-side concern (the token is simply discarded).
type AuthService struct {
	jwtSecret  []byte
	tokenDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// SignInAnonymously mints a new anonymous session. The returned user id has
// no profile row yet; callers are expected to provision one next.
func (s *AuthService) SignInAnonymously() (token string, userID string, err error) {
	userID = uuid.New().String()
	token, err = s.issueToken(userID, true)
	if err != nil {
		return "", "", err
	}
	return token, userID, nil
}

// IssueToken creates a session token for an existing user id.
func (s *AuthService) IssueToken(userID string) (string, error) {
	return s.issueToken(userID, false)
}

func (s *AuthService) issueToken(userID string, anonymous bool) (string, error) {
	claims := jwt.MapClaims{
		"user_id":   userID,
		"anonymous": anonymous,
		"exp":       time.Now().Add(s.tokenDurat).Unix(),
		"iat":       time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a session token, returning the claims
// if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})

	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// UserIDFromToken extracts the session's user id, or an empty string when
// the token is invalid.
func (s *AuthService) UserIDFromToken(tokenString string) string {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return ""
	}
	userID, _ := claims["user_id"].(string)
	return userID
}
