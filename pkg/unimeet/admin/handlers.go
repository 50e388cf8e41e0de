package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
	"gorm.io/gorm"
)

// Handler handles admin requests. Every route in this package sits behind
// auth.RequireAdmin, which re-reads the caller's admin flag from the store
// on each call.
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new admin handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// StatsResponse represents platform statistics
type StatsResponse struct {
	TotalUsers     int64 `json:"total_users"`
	BannedUsers    int64 `json:"banned_users"`
	TotalPosts     int64 `json:"total_posts"`
	TotalGroups    int64 `json:"total_groups"`
	PendingReports int64 `json:"pending_reports"`
	TotalReports   int64 `json:"total_reports"`
}

// UserResponse represents a user in admin listings
type UserResponse struct {
	ID            uint       `json:"id"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	IsAdmin       bool       `json:"is_admin"`
	IsBanned      bool       `json:"is_banned"`
	BanReason     string     `json:"ban_reason,omitempty"`
	BannedUntil   *time.Time `json:"banned_until,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	PostsCount    int64      `json:"posts_count"`
	CommentsCount int64      `json:"comments_count"`
	ReportsCount  int64      `json:"reports_count"`
}

// BanUserRequest represents a ban request; a nil day count is permanent
type BanUserRequest struct {
	Reason string `json:"reason" binding:"required"`
	Days   *int   `json:"days"`
}

// GetStats returns platform statistics
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Success 200 {object} StatsResponse
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	var stats StatsResponse

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.User{}).Where("is_banned = ?", true).Count(&stats.BannedUsers)
	h.db.Model(&models.Post{}).Count(&stats.TotalPosts)
	h.db.Model(&models.Group{}).Count(&stats.TotalGroups)
	h.db.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&stats.PendingReports)
	h.db.Model(&models.Report{}).Count(&stats.TotalReports)

	c.JSON(http.StatusOK, stats)
}

// ListUsers returns all users with moderation counters
// @Summary List users
// @Tags admin
// @Produce json
// @Success 200 {array} UserResponse
// @Security BearerAuth
// @Router /admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	responses := make([]UserResponse, len(users))
	for i, user := range users {
		var postsCount, commentsCount, reportsCount int64
		h.db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postsCount)
		h.db.Model(&models.Comment{}).Where("user_id = ?", user.ID).Count(&commentsCount)
		h.db.Model(&models.Report{}).Where("reported_user_id = ?", user.ID).Count(&reportsCount)

		responses[i] = UserResponse{
			ID:            user.ID,
			Username:      user.Username,
			Email:         user.Email,
			IsAdmin:       user.IsAdmin,
			IsBanned:      user.IsBanned,
			BanReason:     user.BanReason,
			BannedUntil:   user.BannedUntil,
			CreatedAt:     user.CreatedAt,
			PostsCount:    postsCount,
			CommentsCount: commentsCount,
			ReportsCount:  reportsCount,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// BanUser bans a user; admins are structurally immune
// @Summary Ban a user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body BanUserRequest true "Ban details"
// @Success 200 {object} map[string]string "User banned"
// @Failure 400 {object} map[string]string "Admins cannot be banned"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/ban [post]
func (h *Handler) BanUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req BanUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := policy.ApplyBan(h.db, &user, req.Reason, req.Days); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User banned: " + user.Username})
}

// UnbanUser explicitly lifts a user's ban
// @Summary Unban a user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User unbanned"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id}/ban [delete]
func (h *Handler) UnbanUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := policy.LiftBan(h.db, &user); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unbanned: " + user.Username})
}

// DeleteUser removes a user and all owned content; admins are exempt
// @Summary Delete a user
// @Tags admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string "User deleted"
// @Failure 400 {object} map[string]string "Admins cannot be deleted"
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /admin/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := policy.DeleteUser(h.db, uint(userID)); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// DeletePost removes any post
// @Summary Delete a post
// @Tags admin
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string "Post deleted"
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /admin/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	if err := policy.DeletePost(h.db, uint(postID)); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

// DeleteComment removes any comment and its replies
// @Summary Delete a comment
// @Tags admin
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} map[string]string "Comment deleted"
// @Failure 404 {object} map[string]string "Comment not found"
// @Security BearerAuth
// @Router /admin/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	if err := policy.DeleteComment(h.db, uint(commentID)); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// DeleteGroup removes any group
// @Summary Delete a group
// @Tags admin
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "Group deleted"
// @Failure 404 {object} map[string]string "Group not found"
// @Security BearerAuth
// @Router /admin/groups/{id} [delete]
func (h *Handler) DeleteGroup(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := policy.DeleteGroup(h.db, uint(groupID)); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// RegisterRoutes registers admin routes on the given router group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.GetStats)
	rg.GET("/users", h.ListUsers)
	rg.POST("/users/:id/ban", h.BanUser)
	rg.DELETE("/users/:id/ban", h.UnbanUser)
	rg.DELETE("/users/:id", h.DeleteUser)
	rg.DELETE("/posts/:id", h.DeletePost)
	rg.DELETE("/comments/:id", h.DeleteComment)
	rg.DELETE("/groups/:id", h.DeleteGroup)
	rg.GET("/reports", h.ListReports)
	rg.PUT("/reports/:id", h.ResolveReport)
}
