package reconcile

import (
	"context"
	"testing"

	"github.com/ElSocialismo/plataforma-freelancer/domain"
	"github.com/ElSocialismo/plataforma-freelancer/internal/infrastructure/journal"
)

type fakeFreelancerRepo struct {
	records map[string]*domain.Freelancer
}

func (f *fakeFreelancerRepo) GetByUserID(ctx context.Context, userID string) (*domain.Freelancer, error) {
	record, ok := f.records[userID]
	if !ok {
		return nil, domain.ErrFreelancerNotFound
	}
	copied := *record
	return &copied, nil
}

type fakeProfileRepo struct {
	profiles map[string]*domain.Profile
	upserts  int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*domain.Profile)}
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (f *fakeProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	f.upserts++
	copied := *profile
	if existing, ok := f.profiles[profile.ID]; ok {
		copied.Version = existing.Version + 1
	} else {
		copied.Version = 1
	}
	f.profiles[profile.ID] = &copied
	profile.Version = copied.Version
	return nil
}

func (f *fakeProfileRepo) EnsureStub(ctx context.Context, profile *domain.Profile) error {
	if _, ok := f.profiles[profile.ID]; ok {
		return nil
	}
	return f.Upsert(ctx, profile)
}

func (f *fakeProfileRepo) UpdateAvatarRef(ctx context.Context, userID, ref string, expectedVersion int) error {
	profile, ok := f.profiles[userID]
	if !ok {
		return domain.ErrProfileNotFound
	}
	if profile.Version != expectedVersion {
		return domain.ErrConcurrencyConflict
	}
	profile.AvatarRef = ref
	profile.Version++
	return nil
}

type fakeJournal struct {
	entries []journal.Entry
}

func (f *fakeJournal) Record(entry journal.Entry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func TestReconcile_NotAFreelancer(t *testing.T) {
	profiles := newFakeProfileRepo()
	uc := New(&fakeFreelancerRepo{records: map[string]*domain.Freelancer{}}, profiles, &fakeJournal{}, nil)

	result, err := uc.Reconcile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusNotAFreelancer {
		t.Errorf("expected %s, got %s", StatusNotAFreelancer, result.Status)
	}
	if profiles.upserts != 0 {
		t.Errorf("expected no writes, got %d upserts", profiles.upserts)
	}
}

func TestReconcile_SynthesizesMissingProfile(t *testing.T) {
	freelancers := &fakeFreelancerRepo{records: map[string]*domain.Freelancer{
		"u1": {UserID: "u1", Email: "Dev@Example.COM", FullName: "Dev One"},
	}}
	profiles := newFakeProfileRepo()
	jrnl := &fakeJournal{}
	uc := New(freelancers, profiles, jrnl, nil)

	result, err := uc.Reconcile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusSynthesized {
		t.Fatalf("expected %s, got %s", StatusSynthesized, result.Status)
	}
	if result.Profile == nil {
		t.Fatal("expected a profile, got nil")
	}
	if result.Profile.Email != "dev@example.com" {
		t.Errorf("expected normalized email, got %q", result.Profile.Email)
	}
	if result.Profile.UserType != domain.UserTypeFreelancer {
		t.Errorf("expected freelancer user type, got %q", result.Profile.UserType)
	}
	if len(jrnl.entries) != 0 {
		t.Errorf("synthesis should not journal, got %d entries", len(jrnl.entries))
	}
}

func TestReconcile_Idempotent(t *testing.T) {
	freelancers := &fakeFreelancerRepo{records: map[string]*domain.Freelancer{
		"u1": {UserID: "u1", Email: "dev@example.com", FullName: "Dev One"},
	}}
	profiles := newFakeProfileRepo()
	uc := New(freelancers, profiles, &fakeJournal{}, nil)

	first, err := uc.Reconcile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := uc.Reconcile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if second.Status != StatusConsistent {
		t.Errorf("second run expected %s, got %s", StatusConsistent, second.Status)
	}
	if first.Profile.Email != second.Profile.Email || first.Profile.ID != second.Profile.ID {
		t.Errorf("runs disagree: %+v vs %+v", first.Profile, second.Profile)
	}
	if profiles.upserts != 1 {
		t.Errorf("expected exactly one write across both runs, got %d", profiles.upserts)
	}
}

func TestReconcile_IrreconcilableWithoutEmail(t *testing.T) {
	freelancers := &fakeFreelancerRepo{records: map[string]*domain.Freelancer{
		"u1": {UserID: "u1", FullName: "No Email"},
	}}
	profiles := newFakeProfileRepo()
	jrnl := &fakeJournal{}
	uc := New(freelancers, profiles, jrnl, nil)

	_, err := uc.Reconcile(context.Background(), "u1")
	if !domain.IsDomainError(err, domain.ErrCodeIrreconcilable) {
		t.Fatalf("expected IRRECONCILABLE_PROFILE, got %v", err)
	}

	// A partial profile must never be persisted.
	if profiles.upserts != 0 {
		t.Errorf("expected no writes, got %d upserts", profiles.upserts)
	}
	if len(jrnl.entries) != 1 || jrnl.entries[0].Kind != journal.KindIrreconcilable {
		t.Errorf("expected one irreconcilable journal entry, got %+v", jrnl.entries)
	}
}

func TestReconcile_FlagsEmailMismatch(t *testing.T) {
	freelancers := &fakeFreelancerRepo{records: map[string]*domain.Freelancer{
		"u1": {UserID: "u1", Email: "dev@example.com"},
	}}
	profiles := newFakeProfileRepo()
	profiles.profiles["u1"] = &domain.Profile{ID: "u1", Email: "other@example.com", Version: 1}
	jrnl := &fakeJournal{}
	uc := New(freelancers, profiles, jrnl, nil)

	_, err := uc.Reconcile(context.Background(), "u1")
	if !domain.IsDomainError(err, domain.ErrCodeProfileMismatch) {
		t.Fatalf("expected PROFILE_MISMATCH, got %v", err)
	}
	if len(jrnl.entries) != 1 || jrnl.entries[0].Kind != journal.KindProfileMismatch {
		t.Errorf("expected one mismatch journal entry, got %+v", jrnl.entries)
	}
	// The conflicting profile must be left untouched for operator review.
	if profiles.profiles["u1"].Email != "other@example.com" {
		t.Errorf("mismatched profile was mutated: %+v", profiles.profiles["u1"])
	}
}

func TestReconcile_EmailComparisonIsCaseInsensitive(t *testing.T) {
	freelancers := &fakeFreelancerRepo{records: map[string]*domain.Freelancer{
		"u1": {UserID: "u1", Email: "Dev@Example.com"},
	}}
	profiles := newFakeProfileRepo()
	profiles.profiles["u1"] = &domain.Profile{ID: "u1", Email: "dev@example.com", Version: 1}
	uc := New(freelancers, profiles, &fakeJournal{}, nil)

	result, err := uc.Reconcile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != StatusConsistent {
		t.Errorf("expected %s, got %s", StatusConsistent, result.Status)
	}
}
