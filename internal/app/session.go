package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

var ErrInvalidSession = errors.New("invalid session")

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	Username string `json:"usn"`
	Guest    bool   `json:"gst,omitempty"`
	jwt.StandardClaims
}

// SessionService issues and verifies HS256 session tokens for logged in players.
type SessionService struct {
	secret string
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

const defaultSessionIssuer = "president"

func NewSessionService(secret string, ttl time.Duration) *SessionService {
	return &SessionService{
		secret: secret,
		issuer: defaultSessionIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *SessionService) Issue(userID, username string, guest bool) (string, error) {
	if s == nil {
		return "", fmt.Errorf("session service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" {
		return "", fmt.Errorf("session secret is not configured")
	}

	now := s.now()
	claims := SessionClaims{
		Username: username,
		Guest:    guest,
		StandardClaims: jwt.StandardClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, issuer and expiry of a token and returns its claims.
func (s *SessionService) Verify(tokenString string) (*SessionClaims, error) {
	if s == nil || s.secret == "" {
		return nil, fmt.Errorf("session service is not configured")
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidSession
	}
	if claims.Issuer != s.issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidSession, claims.Issuer)
	}
	return claims, nil
}
