package usecase_test

import (
	"context"
	"testing"
	"time"

	"go-internship-backend/internal/domain"
	"go-internship-backend/internal/usecase"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRebuildAll(t *testing.T) {
	t.Run("Should replace a reference list that drifted from the owner index", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		applicantRepo := new(MockApplicantRepo)
		r := usecase.NewReferenceReconciler(applicantRepo, appRepo, time.Minute)

		applicantRepo.On("ListIDs", mock.Anything).Return([]string{"applicant-1"}, nil)
		appRepo.On("ListOwnerRefs", mock.Anything, "applicant-1").Return([]string{"app-1", "app-2"}, nil)
		applicantRepo.On("GetByID", mock.Anything, "applicant-1").Return(&domain.Applicant{
			ID:           "applicant-1",
			Applications: []string{"app-1"},
		}, nil)
		applicantRepo.On("ReplaceApplicationRefs", mock.Anything, "applicant-1", []string{"app-1", "app-2"}).Return(nil)

		err := r.RebuildAll(context.Background())
		require.NoError(t, err)
		applicantRepo.AssertCalled(t, "ReplaceApplicationRefs", mock.Anything, "applicant-1", []string{"app-1", "app-2"})
	})

	t.Run("Should leave a matching reference list alone regardless of order", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		applicantRepo := new(MockApplicantRepo)
		r := usecase.NewReferenceReconciler(applicantRepo, appRepo, time.Minute)

		applicantRepo.On("ListIDs", mock.Anything).Return([]string{"applicant-1"}, nil)
		appRepo.On("ListOwnerRefs", mock.Anything, "applicant-1").Return([]string{"app-2", "app-1"}, nil)
		applicantRepo.On("GetByID", mock.Anything, "applicant-1").Return(&domain.Applicant{
			ID:           "applicant-1",
			Applications: []string{"app-1", "app-2"},
		}, nil)

		err := r.RebuildAll(context.Background())
		require.NoError(t, err)
		applicantRepo.AssertNotCalled(t, "ReplaceApplicationRefs")
	})

	t.Run("Should keep scanning after one applicant fails", func(t *testing.T) {
		appRepo := new(MockApplicationRepo)
		applicantRepo := new(MockApplicantRepo)
		r := usecase.NewReferenceReconciler(applicantRepo, appRepo, time.Minute)

		applicantRepo.On("ListIDs", mock.Anything).Return([]string{"broken", "applicant-1"}, nil)
		appRepo.On("ListOwnerRefs", mock.Anything, "broken").Return(nil, domain.ErrNotFound)
		appRepo.On("ListOwnerRefs", mock.Anything, "applicant-1").Return([]string{"app-1"}, nil)
		applicantRepo.On("GetByID", mock.Anything, "applicant-1").Return(&domain.Applicant{
			ID:           "applicant-1",
			Applications: []string{"app-1"},
		}, nil)

		err := r.RebuildAll(context.Background())
		require.NoError(t, err)
		appRepo.AssertCalled(t, "ListOwnerRefs", mock.Anything, "applicant-1")
	})
}
