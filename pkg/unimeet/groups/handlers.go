package groups

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
	"gorm.io/gorm"
)

// Handler handles group-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsPrivate   bool   `json:"is_private"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID                   uint   `json:"id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	ImageURL             string `json:"image_url,omitempty"`
	IsPrivate            bool   `json:"is_private"`
	CreatorUserID        uint   `json:"creator_user_id"`
	MemberCount          int64  `json:"member_count"`
	IsMember             bool   `json:"is_member"`
	IsOwner              bool   `json:"is_owner"`
	HasPendingRequest    bool   `json:"has_pending_request"`
	PendingRequestsCount int64  `json:"pending_requests_count,omitempty"`
}

// Create creates a new group with the caller as permanent owner
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Param request body CreateGroupRequest true "Group details"
// @Success 201 {object} GroupResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	err := h.db.Transaction(func(tx *gorm.DB) error {
		group = models.Group{
			Name:          req.Name,
			Description:   req.Description,
			ImageURL:      req.ImageURL,
			IsPrivate:     req.IsPrivate,
			CreatorUserID: userID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		// The creator is also a member row, but moderation rights come from
		// CreatorUserID, not from the membership role.
		membership := models.GroupMembership{
			UserID:  userID,
			GroupID: group.ID,
			Role:    models.GroupRoleAdmin,
		}
		return tx.Create(&membership).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{
		ID:            group.ID,
		Name:          group.Name,
		Description:   group.Description,
		ImageURL:      group.ImageURL,
		IsPrivate:     group.IsPrivate,
		CreatorUserID: group.CreatorUserID,
		MemberCount:   1,
		IsMember:      true,
		IsOwner:       true,
	})
}

// List returns summaries of all groups. Private group descriptions are
// masked for callers who are neither members, the creator, nor admins.
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} GroupResponse
// @Security BearerAuth
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	isAdmin := policy.IsAdmin(h.db, userID)

	var groups []models.Group
	if err := h.db.Order("created_at DESC").Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	responses := make([]GroupResponse, len(groups))
	for i, group := range groups {
		var memberCount int64
		h.db.Model(&models.GroupMembership{}).Where("group_id = ?", group.ID).Count(&memberCount)

		var membership models.GroupMembership
		isMember := h.db.Where("group_id = ? AND user_id = ?", group.ID, userID).
			First(&membership).Error == nil

		var pendingRequest models.GroupJoinRequest
		hasPending := h.db.Where("group_id = ? AND user_id = ? AND status = ?",
			group.ID, userID, models.JoinRequestPending).First(&pendingRequest).Error == nil

		isOwner := group.CreatorUserID == userID || isAdmin

		description := group.Description
		if group.IsPrivate && !isMember && !isOwner {
			description = "Private group - join to see its content"
		}

		var pendingCount int64
		if isOwner {
			h.db.Model(&models.GroupJoinRequest{}).
				Where("group_id = ? AND status = ?", group.ID, models.JoinRequestPending).
				Count(&pendingCount)
		}

		responses[i] = GroupResponse{
			ID:                   group.ID,
			Name:                 group.Name,
			Description:          description,
			ImageURL:             group.ImageURL,
			IsPrivate:            group.IsPrivate,
			CreatorUserID:        group.CreatorUserID,
			MemberCount:          memberCount,
			IsMember:             isMember,
			IsOwner:              isOwner,
			HasPendingRequest:    hasPending,
			PendingRequestsCount: pendingCount,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// Join joins a public group immediately or files a join request for a
// private one
// @Summary Join a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 201 {object} map[string]interface{} "Joined or request filed"
// @Failure 401 {object} map[string]string "Banned users cannot join"
// @Failure 409 {object} map[string]string "Already a member or request pending"
// @Security BearerAuth
// @Router /groups/{id}/join [post]
func (h *Handler) Join(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.IsBanned {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Banned users cannot join groups"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var existingMembership models.GroupMembership
	if err := h.db.Where("group_id = ? AND user_id = ?", group.ID, userID).
		First(&existingMembership).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already a member of this group"})
		return
	}

	if group.IsPrivate {
		var existingRequest models.GroupJoinRequest
		if err := h.db.Where("group_id = ? AND user_id = ? AND status = ?",
			group.ID, userID, models.JoinRequestPending).First(&existingRequest).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "A join request is already pending"})
			return
		}

		request := models.GroupJoinRequest{
			GroupID: group.ID,
			UserID:  userID,
			Status:  models.JoinRequestPending,
		}
		if err := h.db.Create(&request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create join request"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Join request sent, awaiting approval", "is_pending": true})
		return
	}

	membership := models.GroupMembership{
		GroupID: group.ID,
		UserID:  userID,
		Role:    models.GroupRoleMember,
	}
	if err := h.db.Create(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join group"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Joined the group", "is_pending": false})
}

// Leave removes the caller's own membership
// @Summary Leave a group
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {object} map[string]string "Left the group"
// @Failure 404 {object} map[string]string "Not a member"
// @Security BearerAuth
// @Router /groups/{id}/leave [delete]
func (h *Handler) Leave(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	result := h.db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMembership{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave group"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a member of this group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left the group"})
}

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.POST("/:id/join", h.Join)
	rg.DELETE("/:id/leave", h.Leave)
}
