package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/Kushal-Harsora/questionaire/conf"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenRevoked  = errors.New("token revoked")
	ErrEmailRequired = errors.New("email required")
)

// Leeway is the clock skew tolerated on a token's expiry.
const Leeway = 10 * time.Second

type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

type Token struct {
	Token     string    `json:"token"`
	ID        string    `json:"-"`
	ExpiredAt time.Time `json:"expired_at"`
}

type Manager struct {
	issuer  string
	secret  []byte
	timeout time.Duration
	revoked RevocationStore
	keyFn   jwt.Keyfunc
}

func NewManager(issuer string, cfg conf.JWT, revoked RevocationStore) (*Manager, error) {
	if len(cfg.Secret) < conf.MinSecretSize {
		return nil, conf.ErrSecretTooShort
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}

	m := &Manager{
		issuer:  issuer,
		secret:  cfg.Secret,
		timeout: timeout,
		revoked: revoked,
	}

	m.keyFn = func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}

	return m, nil
}

func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

func (m *Manager) Issue(email string) (*Token, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	now := time.Now()
	id := ulid.Make().String()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        id,
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(m.secret)
	if err != nil {
		return nil, err
	}

	return &Token{
		Token:     tokenStr,
		ID:        id,
		ExpiredAt: claims.ExpiresAt.Time,
	}, nil
}

func (m *Manager) Parse(ctx context.Context, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenNotFound
	}

	var claims Claims
	if _, err := jwt.ParseWithClaims(tokenStr, &claims, m.keyFn,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(Leeway),
	); err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims.Email == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}

	if revoked {
		return nil, ErrTokenRevoked
	}

	return &claims, nil
}

// Revoke invalidates the token until Parse would reject it as expired,
// leeway included.
func (m *Manager) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return ErrInvalidToken
	}

	until := time.Now().Add(m.timeout)
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	until = until.Add(Leeway)

	return m.revoked.Revoke(ctx, claims.ID, until)
}
