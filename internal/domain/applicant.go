package domain

import (
	"context"
	"time"
)

// Applicant is a registered identity plus profile and the denormalized list
// of owned application IDs. Email is the unique login identity and is
// immutable after creation. Applications is a cache of the owner-indexed
// query, never the source of truth for reads.
type Applicant struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Age          int       `json:"age"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	ImageURL     string    `json:"image_url,omitempty"`
	PasswordHash string    `json:"-"`
	Applications []string  `json:"applications"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ApplicantRepository interface {
	Create(ctx context.Context, applicant *Applicant) error
	GetByEmail(ctx context.Context, email string) (*Applicant, error)
	// GetByID never populates PasswordHash; it is the profile read path.
	GetByID(ctx context.Context, id string) (*Applicant, error)
	// AppendApplicationRef adds an application ID to the applicant's
	// reference list. It is idempotent: retries and concurrent appends of
	// the same ID leave a single entry.
	AppendApplicationRef(ctx context.Context, applicantID, applicationID string) error
	// ReplaceApplicationRefs overwrites the reference list wholesale; used
	// by the reconciler to rebuild it from the owner index.
	ReplaceApplicationRefs(ctx context.Context, applicantID string, refs []string) error
	ListIDs(ctx context.Context) ([]string, error)
	UpdateAvatar(ctx context.Context, id string, imageURL string, imageData []byte) error
	GetAvatar(ctx context.Context, id string) ([]byte, error)
}

// RegisterInput carries the registration payload after HTTP binding.
type RegisterInput struct {
	Email       string    `validate:"required,email"`
	Password    string    `validate:"required,min=6"`
	Name        string    `validate:"required"`
	Age         int       `validate:"required,gte=13,lte=120"`
	DateOfBirth time.Time `validate:"required"`
	ImageURL    string
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*Applicant, error)
	// Login returns a signed session token on success. Unknown email and
	// wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (string, *Applicant, error)
	GetProfile(ctx context.Context, id string) (*Applicant, error)
	UpdateAvatar(ctx context.Context, id string, imageData []byte) (string, error)
	GetAvatar(ctx context.Context, id string) ([]byte, error)
}
