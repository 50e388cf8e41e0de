package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
	"gorm.io/gorm"
)

// ReportResponse represents a report in admin listings. Target content is
// looked up live; a nil content block means the target has since been deleted.
type ReportResponse struct {
	ID         uint                `json:"id"`
	Type       models.ReportType   `json:"type"`
	Reason     string              `json:"reason"`
	Status     models.ReportStatus `json:"status"`
	Reporter   *ReportUserInfo     `json:"reporter"`
	TargetKind string              `json:"target_kind"`
	TargetID   uint                `json:"target_id"`
	Target     *TargetContent      `json:"target"`
	AdminNote  string              `json:"admin_note,omitempty"`
	ResolvedAt *time.Time          `json:"resolved_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ReportUserInfo identifies a user involved in a report
type ReportUserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	IsBanned bool   `json:"is_banned"`
}

// TargetContent is a snapshot of the reported entity, if it still exists
type TargetContent struct {
	Content string          `json:"content"`
	Author  *ReportUserInfo `json:"author,omitempty"`
}

// ResolveReportRequest represents a report resolution
type ResolveReportRequest struct {
	NewStatus     models.ReportStatus `json:"new_status" binding:"required"`
	AdminNote     string              `json:"admin_note"`
	DeleteContent bool                `json:"delete_content"`
	BanUser       bool                `json:"ban_user"`
	BanReason     string              `json:"ban_reason"`
	BanDays       *int                `json:"ban_days"`
}

// ListReports returns reports, optionally filtered by status
// @Summary List reports
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {array} ReportResponse
// @Security BearerAuth
// @Router /admin/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	query := h.db.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reports"})
		return
	}

	responses := make([]ReportResponse, 0, len(reports))
	for i := range reports {
		responses = append(responses, h.toReportResponse(&reports[i]))
	}

	c.JSON(http.StatusOK, responses)
}

func (h *Handler) userInfo(userID uint) *ReportUserInfo {
	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil
	}
	return &ReportUserInfo{ID: user.ID, Username: user.Username, IsBanned: user.IsBanned}
}

func (h *Handler) toReportResponse(report *models.Report) ReportResponse {
	resp := ReportResponse{
		ID:         report.ID,
		Type:       report.Type,
		Reason:     report.Reason,
		Status:     report.Status,
		Reporter:   h.userInfo(report.ReporterUserID),
		AdminNote:  report.AdminNote,
		ResolvedAt: report.ResolvedAt,
		CreatedAt:  report.CreatedAt,
	}

	target, err := policy.TargetOf(report)
	if err != nil {
		return resp
	}
	resp.TargetKind = string(target.Kind)
	resp.TargetID = target.ID

	switch target.Kind {
	case policy.TargetPost:
		var post models.Post
		if h.db.First(&post, target.ID).Error == nil {
			resp.Target = &TargetContent{Content: post.Content, Author: h.userInfo(post.UserID)}
		}
	case policy.TargetComment:
		var comment models.Comment
		if h.db.First(&comment, target.ID).Error == nil {
			resp.Target = &TargetContent{Content: comment.Content, Author: h.userInfo(comment.UserID)}
		}
	case policy.TargetGroup:
		var group models.Group
		if h.db.First(&group, target.ID).Error == nil {
			resp.Target = &TargetContent{Content: group.Name, Author: h.userInfo(group.CreatorUserID)}
		}
	case policy.TargetUser:
		if info := h.userInfo(target.ID); info != nil {
			resp.Target = &TargetContent{Content: info.Username, Author: info}
		}
	}

	return resp
}

// ResolveReport moves a pending report into a terminal status, optionally
// deleting the reported content and banning the responsible user. All side
// effects commit together with the status transition or not at all.
// @Summary Resolve a report
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "Report ID"
// @Param request body ResolveReportRequest true "Resolution"
// @Success 200 {object} ReportResponse
// @Failure 400 {object} map[string]string "Invalid status or banned subject is an admin"
// @Failure 404 {object} map[string]string "Report not found"
// @Failure 409 {object} map[string]string "Report already resolved"
// @Security BearerAuth
// @Router /admin/reports/{id} [put]
func (h *Handler) ResolveReport(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid report ID"})
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch req.NewStatus {
	case models.ReportStatusReviewed, models.ReportStatusActionTaken, models.ReportStatusDismissed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid resolution status"})
		return
	}

	var report models.Report
	if err := h.db.First(&report, reportID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}
	if report.Status != models.ReportStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Report has already been resolved"})
		return
	}

	target, err := policy.TargetOf(&report)
	if err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if req.BanUser {
			if err := banReportSubject(tx, target, req.BanReason, req.BanDays); err != nil {
				return err
			}
		}
		if req.DeleteContent {
			if err := deleteReportTarget(tx, target); err != nil {
				return err
			}
		}

		now := time.Now()
		report.Status = req.NewStatus
		report.AdminNote = req.AdminNote
		report.ResolvedAt = &now
		return tx.Model(&report).Select("status", "admin_note", "resolved_at").
			Updates(map[string]interface{}{
				"status":      report.Status,
				"admin_note":  report.AdminNote,
				"resolved_at": report.ResolvedAt,
			}).Error
	})
	if err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.toReportResponse(&report))
}

// banReportSubject bans the user responsible for the reported entity: the
// reported user directly, or the author of the reported post or comment.
// A target that has since been deleted leaves nobody to ban, which is not an
// error. A group target has no ban subject either.
func banReportSubject(tx *gorm.DB, target policy.Target, reason string, days *int) error {
	var subjectID uint
	switch target.Kind {
	case policy.TargetUser:
		subjectID = target.ID
	case policy.TargetPost:
		var post models.Post
		if err := tx.First(&post, target.ID).Error; err != nil {
			return nil
		}
		subjectID = post.UserID
	case policy.TargetComment:
		var comment models.Comment
		if err := tx.First(&comment, target.ID).Error; err != nil {
			return nil
		}
		subjectID = comment.UserID
	default:
		return nil
	}

	var subject models.User
	if err := tx.First(&subject, subjectID).Error; err != nil {
		return nil
	}
	if reason == "" {
		reason = "Banned through report resolution"
	}
	return policy.ApplyBan(tx, &subject, reason, days)
}

// deleteReportTarget removes the reported content. An already deleted target
// is a no-op; reports routinely outlive what they point at.
func deleteReportTarget(tx *gorm.DB, target policy.Target) error {
	var err error
	switch target.Kind {
	case policy.TargetPost:
		err = policy.DeletePost(tx, target.ID)
	case policy.TargetComment:
		err = policy.DeleteComment(tx, target.ID)
	case policy.TargetGroup:
		err = policy.DeleteGroup(tx, target.ID)
	default:
		// Deleting a reported user account is its own admin operation.
		return nil
	}
	if errors.Is(err, policy.ErrNotFound) {
		return nil
	}
	return err
}
