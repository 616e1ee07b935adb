package postgres

import (
	"context"
	"errors"
	"time"

	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
	pgFKViolation     = "23503"
)

type applicantRepo struct {
	db *pgxpool.Pool
}

func NewApplicantRepository(db *pgxpool.Pool) domain.ApplicantRepository {
	return &applicantRepo{db: db}
}

func (r *applicantRepo) Create(ctx context.Context, applicant *domain.Applicant) error {
	query := `INSERT INTO applicants (id, email, password_hash, name, age, date_of_birth, image_url, applications, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, '{}', $8, $9)`

	now := time.Now()
	applicant.CreatedAt = now
	applicant.UpdatedAt = now

	_, err := r.db.Exec(ctx, query,
		applicant.ID, applicant.Email, applicant.PasswordHash,
		applicant.Name, applicant.Age, applicant.DateOfBirth, applicant.ImageURL,
		applicant.CreatedAt, applicant.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Applicant with this email already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

// GetByEmail is the login lookup and the only read that returns the
// password hash.
func (r *applicantRepo) GetByEmail(ctx context.Context, email string) (*domain.Applicant, error) {
	query := `SELECT id, email, password_hash, name, age, date_of_birth, image_url, applications, created_at, updated_at
              FROM applicants WHERE email = $1`

	var a domain.Applicant
	err := r.db.QueryRow(ctx, query, email).Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Age, &a.DateOfBirth,
		&a.ImageURL, pq.Array(&a.Applications), &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByID deliberately leaves password_hash out of the select list.
func (r *applicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	query := `SELECT id, email, name, age, date_of_birth, image_url, applications, created_at, updated_at
              FROM applicants WHERE id = $1`

	var a domain.Applicant
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Email, &a.Name, &a.Age, &a.DateOfBirth,
		&a.ImageURL, pq.Array(&a.Applications), &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// AppendApplicationRef performs an atomic, duplicate-proof set-add on the
// applications array. The containment guard makes retries and concurrent
// appends of the same ID no-ops, so interleaved submissions cannot corrupt
// the list.
func (r *applicantRepo) AppendApplicationRef(ctx context.Context, applicantID, applicationID string) error {
	query := `UPDATE applicants
              SET applications = array_append(applications, $2), updated_at = $3
              WHERE id = $1 AND NOT (applications @> ARRAY[$2]::text[])`

	_, err := r.db.Exec(ctx, query, applicantID, applicationID, time.Now())
	return err
}

func (r *applicantRepo) ReplaceApplicationRefs(ctx context.Context, applicantID string, refs []string) error {
	if refs == nil {
		refs = []string{}
	}
	query := `UPDATE applicants SET applications = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, applicantID, pq.Array(refs), time.Now())
	return err
}

func (r *applicantRepo) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM applicants ORDER BY created_at`)
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

func (r *applicantRepo) UpdateAvatar(ctx context.Context, id string, imageURL string, imageData []byte) error {
	query := `UPDATE applicants SET image_url = $2, image_data = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id, imageURL, imageData, time.Now())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *applicantRepo) GetAvatar(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT image_data FROM applicants WHERE id = $1`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.ErrNotFound
	}
	return data, nil
}
