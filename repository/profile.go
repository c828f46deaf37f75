package repository

import (
	"context"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

// ProfileRepository owns the unified profile table.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// Upsert inserts or fully replaces the profile row, bumping its version.
	Upsert(ctx context.Context, profile *domain.Profile) error

	// EnsureStub inserts a minimal profile row if none exists for the id and
	// leaves an existing row untouched.
	EnsureStub(ctx context.Context, profile *domain.Profile) error

	// UpdateAvatarRef rebinds the avatar reference, guarded by the version
	// observed by the caller. A stale version yields ErrConcurrencyConflict;
	// last-writer-wins is deliberately not supported.
	UpdateAvatarRef(ctx context.Context, userID, ref string, expectedVersion int) error
}
