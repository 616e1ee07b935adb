package v1

import (
	"fmt"
	"net/http"
	"time"

	"go-internship-backend/internal/delivery/http/response"
	"go-internship-backend/internal/domain"
	"go-internship-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	applicationUC domain.ApplicationUsecase
}

func NewApplicationHandler(protected *gin.RouterGroup, applicationUC domain.ApplicationUsecase) {
	handler := &ApplicationHandler{applicationUC: applicationUC}

	apps := protected.Group("/applications")
	{
		apps.POST("", handler.Submit)
		apps.GET("", handler.ListApplied)
		apps.GET("/export", handler.ExportApplied)
	}
}

type SubmitApplicationRequest struct {
	Opportunity domain.OpportunitySnapshot `json:"opportunity" binding:"required"`
}

// Submit godoc
// @Summary      Submit an application
// @Description  Create an application owned by the authenticated applicant.
// @Tags         applications
// @Accept       json
// @Produce      json
// @Param        application  body      SubmitApplicationRequest  true  "Opportunity snapshot"
// @Success      201    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /applications [post]
func (h *ApplicationHandler) Submit(c *gin.Context) {
	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	applicantID := c.GetString(string(domain.KeyApplicantID))

	app, err := h.applicationUC.Submit(c.Request.Context(), applicantID, req.Opportunity)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Application successful", gin.H{
		"application": app,
		"applied":     req.Opportunity,
	})
}

// ListApplied godoc
// @Summary      List own applications
// @Description  Return the opportunities the authenticated applicant applied to.
// @Tags         applications
// @Produce      json
// @Success      200    {object}  response.Response
// @Failure      401    {object}  response.Response
// @Router       /applications [get]
func (h *ApplicationHandler) ListApplied(c *gin.Context) {
	applicantID := c.GetString(string(domain.KeyApplicantID))

	applications, err := h.applicationUC.ListApplied(c.Request.Context(), applicantID)
	if err != nil {
		c.Error(err)
		return
	}
	if applications == nil {
		applications = []domain.Application{}
	}

	response.Success(c, http.StatusOK, "Applications retrieved", applications)
}

// ExportApplied streams the applied list as an xlsx download.
func (h *ApplicationHandler) ExportApplied(c *gin.Context) {
	applicantID := c.GetString(string(domain.KeyApplicantID))

	data, err := h.applicationUC.ExportApplied(c.Request.Context(), applicantID)
	if err != nil {
		c.Error(err)
		return
	}

	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
