package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/repository"
)

type profileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository instantiates a Postgres-backed unified profile repository.
func NewProfileRepository(pool *pgxpool.Pool) repository.ProfileRepository {
	return &profileRepository{pool: pool}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const query = `
		SELECT id, email, full_name, user_type, avatar_ref, version, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)

	var profile domain.Profile
	if err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.UserType,
		&profile.AvatarRef,
		&profile.Version,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO profiles (id, email, full_name, user_type, avatar_ref, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, 1, COALESCE($6, NOW()), NOW())
	ON CONFLICT (id) DO UPDATE
	SET email = EXCLUDED.email,
		full_name = EXCLUDED.full_name,
		user_type = EXCLUDED.user_type,
		version = profiles.version + 1,
		updated_at = NOW()
	RETURNING version, created_at, updated_at;
	`

	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.UserType,
		profile.AvatarRef,
		nullTime(profile.CreatedAt),
	).Scan(&profile.Version, &createdAt, &updatedAt); err != nil {
		return err
	}

	profile.CreatedAt = createdAt
	profile.UpdatedAt = updatedAt
	return nil
}

func (r *profileRepository) EnsureStub(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO profiles (id, email, full_name, user_type, avatar_ref, version, created_at, updated_at)
	VALUES ($1, $2, $3, $4, '', 1, NOW(), NOW())
	ON CONFLICT (id) DO NOTHING;
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.Email,
		profile.FullName,
		profile.UserType,
	)
	return err
}

func (r *profileRepository) UpdateAvatarRef(ctx context.Context, userID, ref string, expectedVersion int) error {
	const query = `
	UPDATE profiles
	SET avatar_ref = $2, version = version + 1, updated_at = NOW()
	WHERE id = $1 AND version = $3;
	`

	tag, err := r.pool.Exec(ctx, query, userID, ref, expectedVersion)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means either the row is gone or someone else won the write.
	if _, err := r.GetByID(ctx, userID); err != nil {
		return err
	}
	return domain.ErrConcurrencyConflict
}
