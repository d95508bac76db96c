package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	purposeSession = "session"
	purposeReset   = "reset"
)

// ErrInvalidToken covers every way a token can fail: bad signature,
// wrong purpose, expiry, or a malformed payload.
var ErrInvalidToken = errors.New("invalid token")

// JWTManager signs session and password-reset tokens with separate secrets.
type JWTManager struct {
	SessionSecret []byte
	ResetSecret   []byte
	SessionTTL    time.Duration
	RememberTTL   time.Duration
	ResetTTL      time.Duration

	now func() time.Time
}

var defaultManager *JWTManager

func NewJWTManager(sessionSecret, resetSecret string, sessionTTL, rememberTTL, resetTTL time.Duration) *JWTManager {
	m := &JWTManager{
		SessionSecret: []byte(sessionSecret),
		ResetSecret:   []byte(resetSecret),
		SessionTTL:    sessionTTL,
		RememberTTL:   rememberTTL,
		ResetTTL:      resetTTL,
		now:           time.Now,
	}
	defaultManager = m
	return m
}

// DefaultJWT returns the last constructed JWTManager (used for auto-wiring routes)
func DefaultJWT() *JWTManager { return defaultManager }

// WithClock returns a copy of m that reads time from now. Used by tests.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

type Claims struct {
	UserID    int64  `json:"uid"`
	SessionID string `json:"sid,omitempty"`
	Purpose   string `json:"pur"`
	jwt.RegisteredClaims
}

func (m *JWTManager) clock() time.Time {
	if m.now == nil {
		return time.Now()
	}
	return m.now()
}

// GenerateSessionToken signs a session token; remember selects the long lifetime.
func (m *JWTManager) GenerateSessionToken(userID int64, sessionID string, remember bool) (string, time.Time, error) {
	ttl := m.SessionTTL
	if remember {
		ttl = m.RememberTTL
	}
	return m.sign(&Claims{UserID: userID, SessionID: sessionID, Purpose: purposeSession}, ttl, m.SessionSecret)
}

// GenerateResetToken signs a password-reset token embedding the user id and issue time.
func (m *JWTManager) GenerateResetToken(userID int64) (string, time.Time, error) {
	return m.sign(&Claims{UserID: userID, Purpose: purposeReset}, m.ResetTTL, m.ResetSecret)
}

func (m *JWTManager) ParseSessionToken(tokenStr string) (*Claims, error) {
	return m.parse(tokenStr, m.SessionSecret, purposeSession)
}

// ParseResetToken returns the embedded user id or ErrInvalidToken.
func (m *JWTManager) ParseResetToken(tokenStr string) (int64, error) {
	claims, err := m.parse(tokenStr, m.ResetSecret, purposeReset)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

func (m *JWTManager) sign(claims *Claims, ttl time.Duration, secret []byte) (string, time.Time, error) {
	now := m.clock()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(secret)
	return s, exp, err
}

func (m *JWTManager) parse(tokenStr string, secret []byte, purpose string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.clock),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Purpose != purpose || claims.UserID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
