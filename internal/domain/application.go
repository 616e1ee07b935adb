package domain

import (
	"context"
	"time"
)

// Location is the office/stipend pair inside an opportunity snapshot.
type Location struct {
	Office  string `json:"office"`
	Stipend string `json:"stipend"`
}

// OpportunitySnapshot is the opportunity as it looked when the applicant
// applied. It is copied into the Application record, not referenced.
type OpportunitySnapshot struct {
	Role     string   `json:"role" binding:"required"`
	Company  string   `json:"company" binding:"required"`
	Stipend  string   `json:"stipend"`
	Location Location `json:"location"`
}

// Application records one applicant's submission against one opportunity.
// ApplicantID is required and immutable: an application never exists
// without a valid owner and never changes owner.
type Application struct {
	ID          string    `json:"id"`
	ApplicantID string    `json:"applicant_id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Stipend     string    `json:"stipend"`
	Location    Location  `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	// GetByApplicantID is the owner-indexed query and the authoritative
	// read path; results preserve insertion order.
	GetByApplicantID(ctx context.Context, applicantID string) ([]Application, error)
	// ListOwnerRefs returns only the IDs owned by the applicant, in
	// insertion order; used to rebuild the reference list.
	ListOwnerRefs(ctx context.Context, applicantID string) ([]string, error)
}

type ApplicationUsecase interface {
	Submit(ctx context.Context, applicantID string, snapshot OpportunitySnapshot) (*Application, error)
	ListApplied(ctx context.Context, applicantID string) ([]Application, error)
	ExportApplied(ctx context.Context, applicantID string) ([]byte, error)
}
