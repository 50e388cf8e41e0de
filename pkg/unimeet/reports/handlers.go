package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
	"gorm.io/gorm"
)

// Handler handles report filing
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new reports handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateReportRequest represents a request to report content or a user.
// Exactly one of the four target ids must be set.
type CreateReportRequest struct {
	PostID    *uint             `json:"post_id"`
	CommentID *uint             `json:"comment_id"`
	GroupID   *uint             `json:"group_id"`
	UserID    *uint             `json:"user_id"`
	Type      models.ReportType `json:"type" binding:"required"`
	Reason    string            `json:"reason" binding:"required"`
}

// ReportTypeResponse represents a report reason category
type ReportTypeResponse struct {
	Value       string `json:"value"`
	DisplayName string `json:"display_name"`
}

// Create files a report against exactly one target
// @Summary File a report
// @Description Report a post, comment, group, or user. Banned users cannot
// @Description report, and a reporter may not have two pending reports
// @Description against the same target.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body CreateReportRequest true "Report details"
// @Success 201 {object} models.Report
// @Failure 401 {object} map[string]string "Banned reporter"
// @Failure 404 {object} map[string]string "Target does not exist"
// @Failure 409 {object} map[string]string "Malformed target or duplicate pending report"
// @Security BearerAuth
// @Router /reports [post]
func (h *Handler) Create(c *gin.Context) {
	reporterID, _ := auth.GetUserID(c)

	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reporter models.User
	if err := h.db.First(&reporter, reporterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if reporter.IsBanned {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Banned users cannot file reports"})
		return
	}

	target, err := policy.NewTarget(req.PostID, req.CommentID, req.GroupID, req.UserID)
	if err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}
	if err := target.Exists(h.db); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	// One pending report per reporter per target; a new report is allowed
	// once the previous one resolves.
	var existing models.Report
	dup := h.db.Where("reporter_user_id = ? AND status = ?", reporterID, models.ReportStatusPending)
	switch target.Kind {
	case policy.TargetPost:
		dup = dup.Where("reported_post_id = ?", target.ID)
	case policy.TargetComment:
		dup = dup.Where("reported_comment_id = ?", target.ID)
	case policy.TargetGroup:
		dup = dup.Where("reported_group_id = ?", target.ID)
	case policy.TargetUser:
		dup = dup.Where("reported_user_id = ?", target.ID)
	}
	if err := dup.First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a pending report against this target"})
		return
	}

	report := models.Report{
		ReporterUserID:    reporterID,
		ReportedPostID:    req.PostID,
		ReportedCommentID: req.CommentID,
		ReportedGroupID:   req.GroupID,
		ReportedUserID:    req.UserID,
		Type:              req.Type,
		Reason:            req.Reason,
		Status:            models.ReportStatusPending,
	}
	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ListTypes returns the report reason categories
// @Summary List report types
// @Tags reports
// @Produce json
// @Success 200 {array} ReportTypeResponse
// @Security BearerAuth
// @Router /reports/types [get]
func (h *Handler) ListTypes(c *gin.Context) {
	displayNames := map[models.ReportType]string{
		models.ReportTypeSpam:                 "Spam",
		models.ReportTypeHarassment:           "Harassment",
		models.ReportTypeInappropriateContent: "Inappropriate content",
		models.ReportTypeHateSpeech:           "Hate speech",
		models.ReportTypeViolence:             "Violence",
		models.ReportTypeOther:                "Other",
	}

	types := make([]ReportTypeResponse, 0, len(displayNames))
	for _, t := range models.ReportTypes() {
		types = append(types, ReportTypeResponse{
			Value:       string(t),
			DisplayName: displayNames[t],
		})
	}

	c.JSON(http.StatusOK, types)
}

// RegisterRoutes registers report routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/types", h.ListTypes)
}
