package groups

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"gorm.io/gorm"
)

// JoinRequestResponse represents a pending join request in listings
type JoinRequestResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	ImageURL    string    `json:"image_url,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// HandleJoinRequestRequest represents the moderator's decision
type HandleJoinRequestRequest struct {
	Approve *bool `json:"approve" binding:"required"`
}

// ListJoinRequests returns the group's pending join requests (moderator only)
// @Summary List pending join requests
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} JoinRequestResponse
// @Failure 401 {object} map[string]string "Not a moderator"
// @Security BearerAuth
// @Router /groups/{id}/requests [get]
func (h *Handler) ListJoinRequests(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}

	var requests []models.GroupJoinRequest
	if err := h.db.Preload("User").
		Where("group_id = ? AND status = ?", groupID, models.JoinRequestPending).
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch join requests"})
		return
	}

	responses := make([]JoinRequestResponse, len(requests))
	for i, request := range requests {
		responses[i] = JoinRequestResponse{
			ID:          request.ID,
			UserID:      request.UserID,
			Username:    request.User.Username,
			ImageURL:    request.User.ProfileImageURL,
			RequestedAt: request.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// HandleJoinRequest approves or rejects a pending join request (moderator
// only). Approval creates the membership; either outcome is terminal.
// @Summary Resolve a join request
// @Tags groups
// @Accept json
// @Produce json
// @Param id path int true "Group ID"
// @Param requestId path int true "Request ID"
// @Param request body HandleJoinRequestRequest true "Decision"
// @Success 200 {object} map[string]string "Request resolved"
// @Failure 401 {object} map[string]string "Not a moderator"
// @Failure 409 {object} map[string]string "Request already resolved"
// @Security BearerAuth
// @Router /groups/{id}/requests/{requestId} [put]
func (h *Handler) HandleJoinRequest(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}
	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req HandleJoinRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var request models.GroupJoinRequest
	if err := h.db.First(&request, requestID).Error; err != nil || request.GroupID != groupID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		return
	}

	if request.Status != models.JoinRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "This request has already been resolved"})
		return
	}

	now := time.Now()
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if *req.Approve {
			membership := models.GroupMembership{
				GroupID: groupID,
				UserID:  request.UserID,
				Role:    models.GroupRoleMember,
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
			request.Status = models.JoinRequestApproved
		} else {
			request.Status = models.JoinRequestRejected
		}
		request.RespondedAt = &now
		return tx.Save(&request).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve join request"})
		return
	}

	if *req.Approve {
		c.JSON(http.StatusOK, gin.H{"message": "Request approved, the user is now a member"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Request rejected"})
	}
}

// CancelJoinRequest withdraws the caller's own pending join request
// @Summary Cancel a join request
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param requestId path int true "Request ID"
// @Success 200 {object} map[string]string "Request cancelled"
// @Failure 401 {object} map[string]string "Not the requester"
// @Failure 409 {object} map[string]string "Request already resolved"
// @Security BearerAuth
// @Router /groups/{id}/requests/{requestId} [delete]
func (h *Handler) CancelJoinRequest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	requestID, err := strconv.ParseUint(c.Param("requestId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var request models.GroupJoinRequest
	if err := h.db.First(&request, requestID).Error; err != nil || request.GroupID != uint(groupID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		return
	}

	if request.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You can only cancel your own request"})
		return
	}

	if request.Status != models.JoinRequestPending {
		c.JSON(http.StatusConflict, gin.H{"error": "This request has already been resolved"})
		return
	}

	if err := h.db.Delete(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel join request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Join request cancelled"})
}

// RegisterRequestRoutes registers join-request routes
func (h *Handler) RegisterRequestRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/requests", h.ListJoinRequests)
	rg.PUT("/:id/requests/:requestId", h.HandleJoinRequest)
	rg.DELETE("/:id/requests/:requestId", h.CancelJoinRequest)
}
