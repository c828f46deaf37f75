package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/repository"
)

type loginStateRepository struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewLoginStateRepository creates a Redis-backed one-shot login state store.
func NewLoginStateRepository(client *redislib.Client, ttl time.Duration) repository.LoginStateRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &loginStateRepository{
		client: client,
		prefix: "oauth_state:",
		ttl:    ttl,
	}
}

func (r *loginStateRepository) Save(ctx context.Context, state, providerName string) error {
	if state == "" || providerName == "" {
		return domain.ErrInvalidPayload
	}
	return r.client.Set(ctx, r.key(state), providerName, r.ttl).Err()
}

// Consume removes the state atomically so a nonce authorizes at most one callback.
func (r *loginStateRepository) Consume(ctx context.Context, state string) (string, error) {
	providerName, err := r.client.GetDel(ctx, r.key(state)).Result()
	if err != nil {
		if err == redislib.Nil {
			return "", domain.ErrStateNotFound
		}
		return "", err
	}
	return providerName, nil
}

func (r *loginStateRepository) key(state string) string {
	return fmt.Sprintf("%s%s", r.prefix, state)
}
