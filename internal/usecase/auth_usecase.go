package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/apperror"
	"go-internship-backend/pkg/audit"
	"go-internship-backend/pkg/imageutil"
	"go-internship-backend/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	avatarMaxDimension = 512
	avatarJPEGQuality  = 80
)

// dummyHash is compared against when the email is unknown so login timing
// does not reveal whether the identity exists.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type authUsecase struct {
	applicantRepo domain.ApplicantRepository
	tokens        *token.Service
	validate      *validator.Validate
	auditLog      *audit.Logger
}

func NewAuthUsecase(applicantRepo domain.ApplicantRepository, tokens *token.Service, validate *validator.Validate) domain.AuthUsecase {
	return &authUsecase{
		applicantRepo: applicantRepo,
		tokens:        tokens,
		validate:      validate,
		auditLog:      audit.Default(),
	}
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.Applicant, error) {
	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	applicant := &domain.Applicant{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Age:          input.Age,
		DateOfBirth:  input.DateOfBirth,
		ImageURL:     input.ImageURL,
		Applications: []string{},
	}

	if err := u.applicantRepo.Create(ctx, applicant); err != nil {
		// Conflict from the repository carries its own status code
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.Internal(err)
	}

	u.auditLog.Log(ctx, audit.Event{
		Event:        audit.EventRegistered,
		SubjectType:  "email",
		SubjectValue: audit.MaskEmail(applicant.Email),
	})

	applicant.PasswordHash = ""
	return applicant, nil
}

// Login verifies credentials and mints a session token. Unknown email and
// wrong password both return the identical InvalidCredentials error; the
// dummy comparison on a miss keeps the two paths close in timing.
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, *domain.Applicant, error) {
	applicant, err := u.applicantRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			u.auditLog.LogLoginFailed(ctx, email, "", "")
			return "", nil, apperror.Unauthorized("Invalid credentials")
		}
		return "", nil, apperror.Unavailable("Login temporarily unavailable", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(applicant.PasswordHash), []byte(password)); err != nil {
		u.auditLog.LogLoginFailed(ctx, email, "", "")
		return "", nil, apperror.Unauthorized("Invalid credentials")
	}

	tok, err := u.tokens.Issue(applicant.ID)
	if err != nil {
		return "", nil, apperror.Internal(err)
	}

	u.auditLog.LogLoginSuccess(ctx, applicant.ID, "", "")

	applicant.PasswordHash = ""
	return tok, applicant, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, id string) (*domain.Applicant, error) {
	ctxID, ok := ctx.Value(domain.KeyApplicantID).(string)
	if !ok || ctxID == "" {
		return nil, apperror.Unauthorized("Applicant not authenticated")
	}
	if ctxID != id {
		return nil, apperror.Forbidden("You can only view your own profile")
	}

	applicant, err := u.applicantRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Applicant not found")
		}
		return nil, apperror.Internal(err)
	}
	return applicant, nil
}

func (u *authUsecase) UpdateAvatar(ctx context.Context, id string, imageData []byte) (string, error) {
	ctxID, ok := ctx.Value(domain.KeyApplicantID).(string)
	if !ok || ctxID != id {
		return "", apperror.Forbidden("You can only update your own profile")
	}

	compressed, err := imageutil.Compress(imageData, avatarMaxDimension, avatarJPEGQuality)
	if err != nil {
		return "", apperror.BadRequest(fmt.Sprintf("Invalid image: %v", err))
	}

	imageURL := "/v1/auth/avatar"
	if err := u.applicantRepo.UpdateAvatar(ctx, id, imageURL, compressed); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.NotFound("Applicant not found")
		}
		return "", apperror.Internal(err)
	}
	return imageURL, nil
}

func (u *authUsecase) GetAvatar(ctx context.Context, id string) ([]byte, error) {
	ctxID, ok := ctx.Value(domain.KeyApplicantID).(string)
	if !ok || ctxID != id {
		return nil, apperror.Forbidden("You can only view your own profile")
	}

	data, err := u.applicantRepo.GetAvatar(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("No avatar uploaded")
		}
		return nil, apperror.Internal(err)
	}
	return data, nil
}
