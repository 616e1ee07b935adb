package postgres

import (
	"context"
	"errors"
	"time"

	"go-internship-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

// Create inserts a new application. The owner must already exist: a foreign
// key miss surfaces as domain.ErrNotFound rather than an internal error.
func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `
		INSERT INTO applications (id, applicant_id, role, company, stipend, location_office, location_stipend, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	app.CreatedAt = time.Now()

	_, err := r.db.Exec(ctx, query,
		app.ID,
		app.ApplicantID,
		app.Role,
		app.Company,
		app.Stipend,
		app.Location.Office,
		app.Location.Stipend,
		app.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByApplicantID retrieves all applications owned by the applicant in
// insertion order. This owner-indexed scan is the authoritative read path;
// it never consults the applicant's denormalized reference list.
func (r *applicationRepo) GetByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	query := `
		SELECT id, applicant_id, role, company, stipend, location_office, location_stipend, created_at
		FROM applications
		WHERE applicant_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var applications []domain.Application
	for rows.Next() {
		var app domain.Application
		if err := rows.Scan(
			&app.ID, &app.ApplicantID, &app.Role, &app.Company, &app.Stipend,
			&app.Location.Office, &app.Location.Stipend, &app.CreatedAt,
		); err != nil {
			return nil, err
		}
		applications = append(applications, app)
	}
	return applications, rows.Err()
}

func (r *applicationRepo) ListOwnerRefs(ctx context.Context, applicantID string) ([]string, error) {
	query := `SELECT id FROM applications WHERE applicant_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
