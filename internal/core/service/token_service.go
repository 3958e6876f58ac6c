package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskforge/task-manager/internal/core/domain"
)

const defaultTokenTTL = 720 * time.Hour

// TokenService issues and parses HS256-signed bearer tokens carrying the
// owning user's id. Tokens are tamper-evident but not revocable by signature
// alone; revocation happens against the user's stored session list.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token bound to the given user id.
func (s *TokenService) Issue(userID string) (string, error) {
	now := time.Now()
	// jti makes every token unique even when two sessions open within the
	// same second, so logout can revoke exactly one of them.
	claims := jwt.MapClaims{
		"user_id": userID,
		"jti":     uuid.NewString(),
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies the token signature and expiry and returns the bound user
// id. Every failure mode collapses into domain.ErrInvalidToken.
func (s *TokenService) Parse(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", domain.ErrInvalidToken
	}
	return userID, nil
}
