package auth

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/provider"
	"github.com/ElSocialismo/plataforma-freelancer/internal/token"
	applogger "github.com/ElSocialismo/plataforma-freelancer/pkg/logger"
	"github.com/ElSocialismo/plataforma-freelancer/repository"
)

type UseCase struct {
	providers *provider.Registry
	states    repository.LoginStateRepository
	profiles  repository.ProfileRepository
	codec     *token.Codec
	logger    *zap.Logger
}

func New(
	providers *provider.Registry,
	states repository.LoginStateRepository,
	profiles repository.ProfileRepository,
	codec *token.Codec,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		providers: providers,
		states:    states,
		profiles:  profiles,
		codec:     codec,
		logger:    logger,
	}
}

// BeginLogin issues a one-shot state nonce and returns the provider
// authorization URL the client should follow.
func (uc *UseCase) BeginLogin(ctx context.Context, providerName string) (authURL, state string, err error) {
	p, err := uc.providers.Get(providerName)
	if err != nil {
		return "", "", err
	}

	state = uuid.NewString()
	if err := uc.states.Save(ctx, state, providerName); err != nil {
		return "", "", err
	}
	return p.AuthCodeURL(state), state, nil
}

// CompleteLogin validates the callback state, exchanges the code for a
// normalized identity, ensures a minimal profile stub exists for it and
// issues a session credential.
func (uc *UseCase) CompleteLogin(ctx context.Context, providerName, state, code string) (string, *domain.Identity, error) {
	storedProvider, err := uc.states.Consume(ctx, state)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return "", nil, domain.WrapError(domain.ErrCodeProviderRejected, "unknown or expired login state", err)
		}
		return "", nil, err
	}
	if storedProvider != providerName {
		return "", nil, domain.WrapError(domain.ErrCodeProviderRejected, "login state bound to a different provider", nil)
	}

	p, err := uc.providers.Get(providerName)
	if err != nil {
		return "", nil, err
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		applogger.WithRequestID(ctx, uc.logger).Warn("provider exchange failed",
			zap.String("provider", providerName),
			zap.Error(err))
		return "", nil, err
	}

	// The credential carries the canonical user id, not the provider-scoped
	// subject, so every downstream lookup addresses one profile row.
	identity.Subject = domain.CanonicalUserID(identity.Provider, identity.Subject)

	stub := &domain.Profile{
		ID:       identity.Subject,
		Email:    identity.Email,
		FullName: identity.FullName,
		UserType: domain.UserTypeClient,
	}
	if err := uc.profiles.EnsureStub(ctx, stub); err != nil {
		return "", nil, err
	}

	credential, err := uc.codec.Issue(identity)
	if err != nil {
		return "", nil, err
	}

	applogger.WithRequestID(ctx, uc.logger).Info("login completed",
		zap.String("provider", providerName),
		zap.String("user_id", identity.Subject))
	return credential, identity, nil
}
