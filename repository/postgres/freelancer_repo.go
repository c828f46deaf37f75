package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/repository"
)

type freelancerRepository struct {
	pool *pgxpool.Pool
}

// NewFreelancerRepository instantiates a Postgres-backed freelancer repository.
func NewFreelancerRepository(pool *pgxpool.Pool) repository.FreelancerRepository {
	return &freelancerRepository{pool: pool}
}

func (r *freelancerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Freelancer, error) {
	const query = `
		SELECT user_id, email, full_name, title, skills, hourly_rate, created_at, updated_at
		FROM freelancers
		WHERE user_id = $1
	`
	row := r.pool.QueryRow(ctx, query, userID)

	var freelancer domain.Freelancer
	if err := row.Scan(
		&freelancer.UserID,
		&freelancer.Email,
		&freelancer.FullName,
		&freelancer.Title,
		&freelancer.Skills,
		&freelancer.HourlyRate,
		&freelancer.CreatedAt,
		&freelancer.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFreelancerNotFound
		}
		return nil, err
	}

	return &freelancer, nil
}
