package usecase

import (
	"context"
	"errors"
	"fmt"

	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/apperror"
	"go-internship-backend/pkg/audit"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	applicantRepo   domain.ApplicantRepository
	auditLog        *audit.Logger
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	applicationRepo domain.ApplicationRepository,
	applicantRepo domain.ApplicantRepository,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: applicationRepo,
		applicantRepo:   applicantRepo,
		auditLog:        audit.Default(),
	}
}

// Submit records an application for an opportunity on behalf of the
// authenticated applicant.
//
// Consistency policy: the create and the reference-list append are two
// separate writes and are NOT atomic. The application row is the durable
// fact; the applicant's reference list is a rebuildable cache. If the
// append fails after the create succeeded, Submit still reports success,
// emits an orphan_write audit event, and leaves repair to the reconciler.
// Reads must therefore always go through the owner-indexed query.
func (uc *applicationUsecase) Submit(ctx context.Context, applicantID string, snapshot domain.OpportunitySnapshot) (*domain.Application, error) {
	// 1. The caller can only submit for the identity the auth gate attached.
	if err := requireIdentity(ctx, applicantID, "You can only submit applications for your own account"); err != nil {
		return nil, err
	}

	if snapshot.Role == "" || snapshot.Company == "" {
		return nil, apperror.BadRequest("Opportunity role and company are required")
	}

	// 2. Create the application record (owner must exist).
	app := &domain.Application{
		ID:          uuid.NewString(),
		ApplicantID: applicantID,
		Role:        snapshot.Role,
		Company:     snapshot.Company,
		Stipend:     snapshot.Stipend,
		Location:    snapshot.Location,
	}
	if err := uc.applicationRepo.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Applicant not found")
		}
		return nil, apperror.Internal(err)
	}

	// 3. Best-effort append into the owner's reference list.
	if err := uc.applicantRepo.AppendApplicationRef(ctx, applicantID, app.ID); err != nil {
		uc.auditLog.LogOrphanWrite(ctx, applicantID, app.ID, err)
	}

	return app, nil
}

// ListApplied returns the applications owned by the authenticated
// applicant, in insertion order, via the owner-indexed query.
func (uc *applicationUsecase) ListApplied(ctx context.Context, applicantID string) ([]domain.Application, error) {
	if err := requireIdentity(ctx, applicantID, "You can only view your own applications"); err != nil {
		return nil, err
	}

	applications, err := uc.applicationRepo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	// The repository query is already owner-scoped; filtering again keeps a
	// foreign-owned row out of the response for any store state.
	owned := applications[:0]
	for _, app := range applications {
		if app.ApplicantID == applicantID {
			owned = append(owned, app)
		}
	}
	return owned, nil
}

// ExportApplied renders the caller's applied list as an xlsx workbook.
func (uc *applicationUsecase) ExportApplied(ctx context.Context, applicantID string) ([]byte, error) {
	applications, err := uc.ListApplied(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Applications"
	f.SetSheetName("Sheet1", sheet)

	columns := []string{"Role", "Company", "Stipend", "Office", "Location Stipend", "Applied At"}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for rowIdx, app := range applications {
		values := []interface{}{
			app.Role,
			app.Company,
			app.Stipend,
			app.Location.Office,
			app.Location.Stipend,
			app.CreatedAt.Format("2006-01-02 15:04"),
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, 22)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to build export: %w", err))
	}
	return buf.Bytes(), nil
}

// requireIdentity checks that the identity attached by the auth gate
// matches the applicant the operation addresses.
func requireIdentity(ctx context.Context, applicantID, mismatchMsg string) error {
	ctxID, ok := ctx.Value(domain.KeyApplicantID).(string)
	if !ok || ctxID == "" {
		return apperror.Unauthorized("Applicant not authenticated")
	}
	if ctxID != applicantID {
		return apperror.Forbidden(mismatchMsg)
	}
	return nil
}
