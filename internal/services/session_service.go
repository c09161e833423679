package services

import (
	"errors"
	"fmt"
	"time"

	"pintare/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// SessionTTL is how long an issued token stays valid.
const SessionTTL = 24 * time.Hour

// Claims is the payload of a session token. It doubles as the "user" object
// returned by login.
type Claims struct {
	UserID  int64  `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"nome"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

type SessionService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

func NewSessionService(secret string) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		now:    time.Now,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// WithClock overrides the issue time source.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Issue signs a token for u that expires SessionTTL from now.
func (s *SessionService) Issue(u *domain.User) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		UserID:  u.ID,
		Email:   u.Email,
		Name:    u.DisplayName(),
		IsAdmin: u.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   fmt.Sprint(u.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return tok, claims, nil
}

// Verify checks signature and expiry. Missing or malformed tokens are
// ErrUnauthorized, expired ones ErrSessionExpired, and anything else that
// fails validation (bad signature, wrong algorithm) ErrForbidden.
func (s *SessionService) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, fmt.Errorf("%w: malformed token", ErrUnauthorized)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, fmt.Errorf("%w: invalid signature", ErrForbidden)
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrSessionExpired
	default:
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
}
