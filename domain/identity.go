package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is the normalized claim set produced by a provider exchange.
// It contains facts only; no auth decisions are made on it. Immutable once
// issued and embedded verbatim inside a credential.
type Identity struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Provider  string    `json:"provider"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NormalizeEmail applies the canonical email form so downstream components
// never branch on provider quirks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// canonicalNamespace seeds deterministic canonical user ids so repeated
// logins through the same provider always map to one profile row.
var canonicalNamespace = uuid.MustParse("8f1d63a2-44c1-4c0b-9e3a-5b7d9f2a6c41")

// CanonicalUserID derives the platform-wide user id from a provider-scoped
// subject. Deterministic, so stub upserts and reconciliation stay idempotent.
func CanonicalUserID(provider, subject string) string {
	return uuid.NewSHA1(canonicalNamespace, []byte(provider+":"+subject)).String()
}
