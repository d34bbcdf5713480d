package service

import (
	"crypto/rand"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/openfoundry/releases/internal/errors"
)

// signingMethod is the only accepted algorithm for session tokens.
const signingMethod = "HS256"

// SigningSecret is the process-wide symmetric secret for session tokens.
// It is generated once at process startup and never mutated afterwards;
// restarting the process is the only way to invalidate all outstanding
// session tokens at once.
type SigningSecret []byte

// NewSigningSecret generates a fresh 32-byte secret.
func NewSigningSecret() (SigningSecret, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, apperrors.Wrap(err, "failed to generate signing secret")
	}
	return secret, nil
}

// SessionClaims are the validated claims of a session token.
type SessionClaims struct {
	// UID is the subject: the foundation user id.
	UID string
	// TokenID is the unique token identifier (jti).
	TokenID string
	// IssuedAt and ExpiresAt bound the token's validity window.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims is the wire shape used for JWT signing and parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// jwtSigner implements SessionTokenService with HMAC-SHA256 over the
// process-wide signing secret.
type jwtSigner struct {
	secret SigningSecret
	now    func() time.Time
}

// NewJWTSigner creates a SessionTokenService signing with the given secret.
// The now function defaults to time.Now and is injectable for tests.
func NewJWTSigner(secret SigningSecret, now func() time.Time) SessionTokenService {
	if now == nil {
		now = time.Now
	}
	return &jwtSigner{secret: secret, now: now}
}

// Issue mints a session token: subject, issued-at, expires-at (now+ttl) and
// a fresh unique identifier, signed with the process-wide secret.
func (s *jwtSigner) Issue(uid string, ttl time.Duration) (string, *SessionClaims, error) {
	now := s.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.Must(uuid.NewV7()).String(),
		},
	}

	token := jwt.NewWithClaims(jwt.GetSigningMethod(signingMethod), claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", nil, apperrors.Wrap(err, "failed to sign session token")
	}

	return signed, &SessionClaims{
		UID:       uid,
		TokenID:   claims.ID,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Verify validates signature and expiry and returns the claims. Verification
// is stateless: no replay detection, no individual revocation.
func (s *jwtSigner) Verify(token string) (*SessionClaims, error) {
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return []byte(s.secret), nil
	},
		jwt.WithValidMethods([]string{signingMethod}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if parsed.Subject == "" || parsed.ID == "" {
		return nil, apperrors.ErrMalformed
	}

	claims := &SessionClaims{
		UID:     parsed.Subject,
		TokenID: parsed.ID,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to the domain taxonomy.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.ErrMalformed
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return apperrors.ErrInvalidSignature
	default:
		return apperrors.Wrap(apperrors.ErrMalformed, err.Error())
	}
}
