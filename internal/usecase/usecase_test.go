package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-internship-backend/internal/domain"
	"go-internship-backend/internal/usecase"
	"go-internship-backend/pkg/apperror"
	"go-internship-backend/pkg/token"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock Repositories

type MockApplicantRepo struct {
	mock.Mock
}

func (m *MockApplicantRepo) Create(ctx context.Context, applicant *domain.Applicant) error {
	return m.Called(ctx, applicant).Error(0)
}

func (m *MockApplicantRepo) GetByEmail(ctx context.Context, email string) (*domain.Applicant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) GetByID(ctx context.Context, id string) (*domain.Applicant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Applicant), args.Error(1)
}

func (m *MockApplicantRepo) AppendApplicationRef(ctx context.Context, applicantID, applicationID string) error {
	return m.Called(ctx, applicantID, applicationID).Error(0)
}

func (m *MockApplicantRepo) ReplaceApplicationRefs(ctx context.Context, applicantID string, refs []string) error {
	return m.Called(ctx, applicantID, refs).Error(0)
}

func (m *MockApplicantRepo) ListIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockApplicantRepo) UpdateAvatar(ctx context.Context, id string, imageURL string, imageData []byte) error {
	return m.Called(ctx, id, imageURL, imageData).Error(0)
}

func (m *MockApplicantRepo) GetAvatar(ctx context.Context, id string) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Create(ctx context.Context, app *domain.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *MockApplicationRepo) GetByApplicantID(ctx context.Context, applicantID string) ([]domain.Application, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (m *MockApplicationRepo) ListOwnerRefs(ctx context.Context, applicantID string) ([]string, error) {
	args := m.Called(ctx, applicantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTokenService(t *testing.T) *token.Service {
	t.Helper()
	svc, err := token.NewService("unit-test-secret", 4*time.Hour)
	require.NoError(t, err)
	return svc
}

func validRegisterInput() domain.RegisterInput {
	return domain.RegisterInput{
		Email:       "a@x.com",
		Password:    "pw1234",
		Name:        "Ada",
		Age:         21,
		DateOfBirth: time.Date(2004, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRegister(t *testing.T) {
	validate := validator.New()

	t.Run("Should hash the password and never return it", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		var stored *domain.Applicant
		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Applicant")).Return(nil).Run(func(args mock.Arguments) {
			a := args.Get(1).(*domain.Applicant)
			stored = &domain.Applicant{ID: a.ID, PasswordHash: a.PasswordHash}
		})

		applicant, err := uc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		assert.Empty(t, applicant.PasswordHash)
		require.NotNil(t, stored)
		assert.NotEmpty(t, stored.ID)
		assert.NotEqual(t, "pw1234", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1234")))
	})

	t.Run("Should fail on invalid input", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		input := validRegisterInput()
		input.Email = "not-an-email"
		_, err := uc.Register(context.Background(), input)
		assert.Error(t, err)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should surface duplicate identity as Conflict", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(apperror.Conflict("Applicant with this email already exists"))

		_, err := uc.Register(context.Background(), validRegisterInput())
		require.Error(t, err)
		appErr, ok := err.(*apperror.AppError)
		require.True(t, ok)
		assert.Equal(t, 409, appErr.Code)
	})
}

func TestLogin(t *testing.T) {
	validate := validator.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	require.NoError(t, err)

	applicant := &domain.Applicant{
		ID:           "applicant-1",
		Email:        "a@x.com",
		PasswordHash: string(hash),
	}

	t.Run("Should issue a verifiable token on success", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		tokens := newTokenService(t)
		uc := usecase.NewAuthUsecase(mockRepo, tokens, validate)

		mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(applicant, nil)

		tok, got, err := uc.Login(context.Background(), "a@x.com", "pw1")
		require.NoError(t, err)
		assert.Empty(t, got.PasswordHash)

		claims, err := tokens.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, "applicant-1", claims.ApplicantID)
	})

	t.Run("Wrong password and unknown email fail identically", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		fresh := &domain.Applicant{ID: "applicant-1", Email: "a@x.com", PasswordHash: string(hash)}
		mockRepo.On("GetByEmail", mock.Anything, "a@x.com").Return(fresh, nil)
		mockRepo.On("GetByEmail", mock.Anything, "ghost@x.com").Return(nil, domain.ErrNotFound)

		_, _, errWrongPassword := uc.Login(context.Background(), "a@x.com", "wrong")
		_, _, errUnknownEmail := uc.Login(context.Background(), "ghost@x.com", "pw1")

		require.Error(t, errWrongPassword)
		require.Error(t, errUnknownEmail)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})
}

func TestGetProfileOwnership(t *testing.T) {
	validate := validator.New()

	t.Run("Should fail when Context ID does not match Argument ID", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		ctx := context.WithValue(context.Background(), domain.KeyApplicantID, "applicant-1")
		_, err := uc.GetProfile(ctx, "applicant-2")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "only view your own profile")
	})

	t.Run("Should fail safely when Context ID is missing", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		_, err := uc.GetProfile(context.Background(), "applicant-1")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
	})

	t.Run("Should return the profile without the secret", func(t *testing.T) {
		mockRepo := new(MockApplicantRepo)
		uc := usecase.NewAuthUsecase(mockRepo, newTokenService(t), validate)

		mockRepo.On("GetByID", mock.Anything, "applicant-1").Return(&domain.Applicant{
			ID:    "applicant-1",
			Email: "a@x.com",
		}, nil)

		ctx := context.WithValue(context.Background(), domain.KeyApplicantID, "applicant-1")
		got, err := uc.GetProfile(ctx, "applicant-1")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", got.Email)
		assert.Empty(t, got.PasswordHash)
	})
}
