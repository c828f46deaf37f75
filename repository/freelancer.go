package repository

import (
	"context"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
)

// FreelancerRepository reads the role-specific freelancer table. Rows are
// created by the onboarding flow, which is external to this service.
type FreelancerRepository interface {
	GetByUserID(ctx context.Context, userID string) (*domain.Freelancer, error)
}
