package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// InviteService signs and verifies tokens that let a player join a private table.
type InviteService struct {
	secret string
	issuer string
	ttl    time.Duration
}

const inviteClaimMatch = "mid"

var ErrInvalidInvite = errors.New("invalid invite token")

func NewInviteService(secret, issuer string, ttl time.Duration) *InviteService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InviteService{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue returns a token granting access to matchID, signed on behalf of inviterID.
func (s *InviteService) Issue(matchID, inviterID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("invite service is nil")
	}
	if matchID == "" {
		return "", fmt.Errorf("match id is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":            s.issuer,
		"sub":            inviterID,
		"iat":            now.Unix(),
		"exp":            now.Add(s.ttl).Unix(),
		"jti":            fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
		inviteClaimMatch: matchID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks signature, issuer and expiry and returns the match id the token grants.
func (s *InviteService) Verify(tokenString string) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("invite config is incomplete")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInvite, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidInvite
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return "", fmt.Errorf("%w: issuer mismatch", ErrInvalidInvite)
	}
	matchID, _ := claims[inviteClaimMatch].(string)
	if matchID == "" {
		return "", fmt.Errorf("%w: missing match id", ErrInvalidInvite)
	}
	return matchID, nil
}
