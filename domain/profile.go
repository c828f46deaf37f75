package domain

import "time"

// UserType distinguishes the platform roles sharing the unified profile table.
type UserType string

const (
	UserTypeFreelancer UserType = "freelancer"
	UserTypeClient     UserType = "client"
)

// Profile is the unified profile record. Cross-cutting features (messaging,
// notifications) address every user through this representation, keyed by the
// canonical user id.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	UserType  UserType  `json:"user_type"`
	AvatarRef string    `json:"avatar_ref,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Freelancer is the role-specific record created by the onboarding flow.
// Its UserID must match a Profile.ID; reconciliation repairs the cases
// where it does not.
type Freelancer struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Title      string    `json:"title,omitempty"`
	Skills     []string  `json:"skills,omitempty"`
	HourlyRate float64   `json:"hourly_rate,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
