package repository

import "context"

// LoginStateRepository stores one-shot OAuth state nonces. The store owns
// the nonce lifetime; Consume removes the nonce so a state value can
// authorize at most one callback.
type LoginStateRepository interface {
	Save(ctx context.Context, state, providerName string) error
	Consume(ctx context.Context, state string) (providerName string, err error)
}
