package transport

import (
	"time"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

// LoginStartResponse carries the provider authorization URL the client
// should follow, plus the state nonce bound to it.
type LoginStartResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// CredentialResponse is the login flow result: a bearer credential and the
// identity it asserts.
type CredentialResponse struct {
	Credential string           `json:"credential"`
	TokenType  string           `json:"token_type"`
	ExpiresAt  time.Time        `json:"expires_at"`
	Identity   *domain.Identity `json:"identity"`
}

// AvatarResponse returns the stable reference of the freshly bound avatar.
type AvatarResponse struct {
	AvatarRef string `json:"avatar_ref"`
}
