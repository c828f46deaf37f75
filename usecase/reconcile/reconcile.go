package reconcile

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/journal"
	applogger "github.com/ElSocialismo/plataforma-freelancer/pkg/logger"
	"github.com/ElSocialismo/plataforma-freelancer/repository"
)

// Status reports which branch the engine took for a user.
type Status string

const (
	// StatusNotAFreelancer means no role record exists; nothing to reconcile.
	StatusNotAFreelancer Status = "not_a_freelancer"
	// StatusConsistent means both records exist and agree.
	StatusConsistent Status = "consistent"
	// StatusSynthesized means the missing profile was created from the role record.
	StatusSynthesized Status = "synthesized"
)

// Result carries the reconciliation outcome. Profile is nil only for
// StatusNotAFreelancer when no unified record exists either.
type Result struct {
	Status  Status          `json:"status"`
	Profile *domain.Profile `json:"profile,omitempty"`
}

// DivergenceJournal receives outcomes where automated resolution was
// deliberately withheld, for operator follow-up.
type DivergenceJournal interface {
	Record(entry journal.Entry) error
}

// UseCase detects and resolves divergence between the freelancer role record
// and the unified profile record for a given user.
type UseCase struct {
	freelancers repository.FreelancerRepository
	profiles    repository.ProfileRepository
	journal     DivergenceJournal
	logger      *zap.Logger
}

func New(
	freelancers repository.FreelancerRepository,
	profiles repository.ProfileRepository,
	divergences DivergenceJournal,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		freelancers: freelancers,
		profiles:    profiles,
		journal:     divergences,
		logger:      logger,
	}
}

// Reconcile fetches both representations, repairs a missing profile from the
// role record when possible and surfaces every divergence it will not fix.
// Idempotent: a second run over the same user settles on the same state.
func (uc *UseCase) Reconcile(ctx context.Context, userID string) (*Result, error) {
	var (
		freelancer *domain.Freelancer
		profile    *domain.Profile
	)

	// The two reads have no ordering dependency.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := uc.freelancers.GetByUserID(gctx, userID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil
			}
			return err
		}
		freelancer = f
		return nil
	})
	g.Go(func() error {
		p, err := uc.profiles.GetByID(gctx, userID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				return nil
			}
			return err
		}
		profile = p
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if freelancer == nil {
		return &Result{Status: StatusNotAFreelancer, Profile: profile}, nil
	}

	if profile == nil {
		return uc.synthesize(ctx, freelancer)
	}

	if domain.NormalizeEmail(profile.Email) != domain.NormalizeEmail(freelancer.Email) {
		uc.flag(userID, journal.KindProfileMismatch,
			fmt.Sprintf("profile email %q != role record email %q", profile.Email, freelancer.Email))
		return nil, domain.ErrProfileMismatch
	}

	return &Result{Status: StatusConsistent, Profile: profile}, nil
}

// synthesize builds the missing unified profile from the role record. A
// partial profile is worse than a missing one, so a role record without an
// email fails instead of persisting.
func (uc *UseCase) synthesize(ctx context.Context, freelancer *domain.Freelancer) (*Result, error) {
	email := domain.NormalizeEmail(freelancer.Email)
	if email == "" {
		uc.flag(freelancer.UserID, journal.KindIrreconcilable, "role record has no email")
		return nil, domain.ErrIrreconcilableProfile
	}

	profile := &domain.Profile{
		ID:       freelancer.UserID,
		Email:    email,
		FullName: freelancer.FullName,
		UserType: domain.UserTypeFreelancer,
	}
	if err := uc.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}

	// Re-read to confirm the repair is visible.
	confirmed, err := uc.profiles.GetByID(ctx, freelancer.UserID)
	if err != nil {
		return nil, err
	}

	applogger.WithRequestID(ctx, uc.logger).Info("synthesized unified profile from role record",
		zap.String("user_id", freelancer.UserID))
	return &Result{Status: StatusSynthesized, Profile: confirmed}, nil
}

func (uc *UseCase) flag(userID, kind, detail string) {
	uc.logger.Warn("profile divergence detected",
		zap.String("user_id", userID),
		zap.String("kind", kind),
		zap.String("detail", detail))
	if uc.journal == nil {
		return
	}
	if err := uc.journal.Record(journal.Entry{UserID: userID, Kind: kind, Detail: detail}); err != nil {
		uc.logger.Error("failed to journal divergence", zap.Error(err))
	}
}
