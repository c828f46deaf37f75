package token

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

// Claims is the fixed claim structure embedded in every credential. Arbitrary
// claim payloads are deliberately not supported: fields are declared here and
// validated on issue and on verify.
type Claims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed session credentials. It is a pure
// function of its inputs and the signing secret; verification performs no
// network calls.
type Codec struct {
	secret   []byte
	lifetime time.Duration
	issuer   string
}

// New builds a Codec. An empty secret is a configuration error; the caller
// is expected to treat it as fatal at startup.
func New(secret string, lifetime time.Duration, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	if lifetime <= 0 {
		lifetime = 72 * time.Hour
	}
	return &Codec{
		secret:   []byte(secret),
		lifetime: lifetime,
		issuer:   issuer,
	}, nil
}

// Issue signs a credential carrying the identity claim set. The expiry is
// bound strictly after the issue instant by the configured lifetime.
func (c *Codec) Issue(identity *domain.Identity) (string, error) {
	if identity == nil || identity.Subject == "" || identity.Email == "" || identity.Provider == "" {
		return "", domain.ErrInvalidPayload
	}

	now := time.Now()
	identity.IssuedAt = now
	identity.ExpiresAt = now.Add(c.lifetime)

	claims := Claims{
		Email:    identity.Email,
		FullName: identity.FullName,
		Provider: identity.Provider,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify parses and validates a credential, returning the embedded identity
// claim set. Failures map to exactly one of ErrTokenMalformed,
// ErrTokenSignature or ErrTokenExpired. No partial trust: invalid is invalid.
func (c *Codec) Verify(credential string) (*domain.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(credential, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		return nil, c.classify(credential, err)
	}

	if claims.Subject == "" || claims.Email == "" || claims.Provider == "" {
		return nil, domain.ErrTokenMalformed
	}

	identity := &domain.Identity{
		Subject:  claims.Subject,
		Email:    claims.Email,
		FullName: claims.FullName,
		Provider: claims.Provider,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

func (c *Codec) classify(credential string, err error) error {
	var ve *jwt.ValidationError
	if !errors.As(err, &ve) {
		return domain.WrapError(domain.ErrCodeTokenMalformed, "credential malformed", err)
	}
	switch {
	case ve.Errors&jwt.ValidationErrorMalformed != 0:
		// Corrupting a byte of a signed segment still decodes as base64 but
		// breaks the JSON inside, and the parser flags that as malformed
		// before it ever checks the MAC. A well-framed credential whose MAC
		// does not match is a signature failure, not a framing one.
		if c.framedButUnsigned(credential) {
			return domain.WrapError(domain.ErrCodeTokenSignature, "credential signature invalid", err)
		}
		return domain.WrapError(domain.ErrCodeTokenMalformed, "credential malformed", err)
	case ve.Errors&(jwt.ValidationErrorSignatureInvalid|jwt.ValidationErrorUnverifiable) != 0:
		return domain.WrapError(domain.ErrCodeTokenSignature, "credential signature invalid", err)
	case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
		return domain.WrapError(domain.ErrCodeTokenExpired, "credential expired", err)
	default:
		return domain.WrapError(domain.ErrCodeTokenMalformed, "credential invalid", err)
	}
}

// framedButUnsigned reports whether the credential has the structure of a
// JWT (three base64url segments) while its MAC fails against the secret.
func (c *Codec) framedButUnsigned(credential string) bool {
	parts := strings.Split(credential, ".")
	if len(parts) != 3 {
		return false
	}
	for _, part := range parts {
		if _, err := base64.RawURLEncoding.DecodeString(part); err != nil {
			return false
		}
	}
	return jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], parts[2], c.secret) != nil
}
