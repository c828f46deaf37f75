package provider

import (
	"context"
	"errors"
	"fmt"
	"net"

	"golang.org/x/oauth2"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

// OAuthProvider is the contract every external login provider implements.
// Implementations exchange callback data for normalized identity facts only;
// user creation, linking and credential issuance happen in the auth use case.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// AuthCodeURL returns the provider authorization URL bound to the given
	// one-shot state nonce.
	AuthCodeURL(state string) string

	// Exchange trades the callback authorization code for a normalized
	// identity claim set.
	Exchange(ctx context.Context, code string) (*domain.Identity, error)
}

// Registry holds configured providers keyed by name.
type Registry struct {
	providers map[string]OAuthProvider
}

// NewRegistry registers the given providers by name. Names must be unique.
func NewRegistry(list ...OAuthProvider) *Registry {
	m := make(map[string]OAuthProvider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider by name.
func (r *Registry) Get(name string) (OAuthProvider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "unknown provider", fmt.Errorf("provider %q not registered", name))
	}
	return p, nil
}

// Names lists the registered provider names.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.providers))
	for name := range r.providers {
		out = append(out, name)
	}
	return out
}

// classifyExchangeErr splits exchange failures into the two kinds callers
// care about: a provider that answered and said no (not retryable) versus a
// provider we could not reach (retryable).
func classifyExchangeErr(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return domain.WrapError(domain.ErrCodeProviderRejected, "provider rejected the exchange", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.WrapError(domain.ErrCodeProviderUnreachable, "provider unreachable", err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return domain.WrapError(domain.ErrCodeProviderUnreachable, "provider unreachable", err)
	}
	return domain.WrapError(domain.ErrCodeProviderRejected, "provider rejected the exchange", err)
}
