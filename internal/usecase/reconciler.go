package usecase

import (
	"context"
	"log/slog"
	"time"

	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/audit"
)

// ReferenceReconciler periodically rebuilds each applicant's denormalized
// application-reference list from the owner-indexed applications table.
// This is the repair path for orphan writes: an application created whose
// back-reference append failed becomes reachable through the list again on
// the next pass. The owner index stays the source of truth throughout.
type ReferenceReconciler struct {
	applicantRepo   domain.ApplicantRepository
	applicationRepo domain.ApplicationRepository
	interval        time.Duration
	auditLog        *audit.Logger
	stopCh          chan struct{}
}

func NewReferenceReconciler(
	applicantRepo domain.ApplicantRepository,
	applicationRepo domain.ApplicationRepository,
	interval time.Duration,
) *ReferenceReconciler {
	return &ReferenceReconciler{
		applicantRepo:   applicantRepo,
		applicationRepo: applicationRepo,
		interval:        interval,
		auditLog:        audit.Default(),
		stopCh:          make(chan struct{}),
	}
}

// Start runs the reconciliation loop until Stop is called or the context
// is cancelled.
func (r *ReferenceReconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.RebuildAll(ctx); err != nil {
				slog.Error("Reference reconciliation failed", "error", err)
			}
		case <-r.stopCh:
			slog.Info("Reference reconciler stopped")
			return
		case <-ctx.Done():
			slog.Info("Reference reconciler context cancelled")
			return
		}
	}
}

// Stop gracefully stops the reconciliation loop.
func (r *ReferenceReconciler) Stop() {
	close(r.stopCh)
}

// RebuildAll scans every applicant and replaces any reference list that
// drifted from the owner index.
func (r *ReferenceReconciler) RebuildAll(ctx context.Context) error {
	ids, err := r.applicantRepo.ListIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if err := r.rebuildOne(ctx, id); err != nil {
			slog.Warn("Failed to reconcile applicant references",
				"applicant_id", id,
				"error", err)
		}
	}
	return nil
}

func (r *ReferenceReconciler) rebuildOne(ctx context.Context, applicantID string) error {
	refs, err := r.applicationRepo.ListOwnerRefs(ctx, applicantID)
	if err != nil {
		return err
	}

	applicant, err := r.applicantRepo.GetByID(ctx, applicantID)
	if err != nil {
		return err
	}

	if equalRefs(applicant.Applications, refs) {
		return nil
	}

	if err := r.applicantRepo.ReplaceApplicationRefs(ctx, applicantID, refs); err != nil {
		return err
	}

	r.auditLog.Log(ctx, audit.Event{
		Event:        audit.EventOrphanRepaired,
		SubjectType:  "applicant_id",
		SubjectValue: applicantID,
		Details: map[string]interface{}{
			"stale_count": len(applicant.Applications),
			"fresh_count": len(refs),
		},
	})
	return nil
}

// equalRefs compares the lists as sets; the reference list tolerates
// out-of-order appends, so ordering differences are not drift.
func equalRefs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
