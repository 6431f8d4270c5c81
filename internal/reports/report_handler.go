package reports

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "github.com/GabeCabrera/crewkit-sub001/pkg/errors"
	"github.com/GabeCabrera/crewkit-sub001/pkg/models"
	"github.com/GabeCabrera/crewkit-sub001/pkg/roles"
	"github.com/GabeCabrera/crewkit-sub001/pkg/security"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Service *ReportService
}

func NewReportHandler(s *ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/eod-reports", security.Authorize(roles.Manager), h.CreateReport)
	router.GET("/eod-reports", h.GetReports)
	router.GET("/eod-reports/:id", h.GetReport)
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	actorID, err := security.CurrentUserID(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	report, err := h.Service.CreateReport(req, actorID)
	if err != nil {
		h.respondError(c, err, "Could not create end-of-day report")
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	reportID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	report, err := h.Service.GetReport(reportID)
	if err != nil {
		h.respondError(c, err, "Could not get end-of-day report")
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	page, limit := models.ParsePageParams(c.Query("page"), c.Query("limit"))

	filter := ListFilter{
		From: c.Query("from"),
		To:   c.Query("to"),
	}
	if raw := c.Query("team_id"); raw != "" {
		teamID, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid team_id filter"})
			return
		}
		filter.TeamID = &teamID
	}

	reports, totalCount, err := h.Service.GetReports(filter, page, limit)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list end-of-day reports", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       reports,
		"pagination": models.NewPagination(page, limit, totalCount),
	})
}

func (h *ReportHandler) respondError(c *gin.Context, err error, message string) {
	var notFound *custom_error.NotFoundError
	if errors.As(err, &notFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := err.(*custom_error.UniqueViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
		return
	}
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
}
