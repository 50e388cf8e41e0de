package posts

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
)

// AddInterest marks the caller as interested in a post
// @Summary Express interest in a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 201 {object} map[string]string "Interest added"
// @Failure 400 {object} map[string]string "Interest disabled on this post"
// @Failure 409 {object} map[string]string "Already interested"
// @Security BearerAuth
// @Router /posts/{id}/interest [post]
func (h *Handler) AddInterest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	if !post.InterestEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Interest is disabled on this post"})
		return
	}

	var existing models.PostInterest
	if err := h.db.Where("post_id = ? AND user_id = ?", post.ID, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already interested in this post"})
		return
	}

	interest := models.PostInterest{PostID: post.ID, UserID: userID}
	if err := h.db.Create(&interest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add interest"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Interest added"})
}

// RemoveInterest withdraws the caller's interest in a post
// @Summary Withdraw interest in a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string "Interest removed"
// @Failure 404 {object} map[string]string "Interest not found"
// @Security BearerAuth
// @Router /posts/{id}/interest [delete]
func (h *Handler) RemoveInterest(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	result := h.db.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.PostInterest{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove interest"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Interest not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Interest removed"})
}

// RegisterInterestRoutes registers interest routes
func (h *Handler) RegisterInterestRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/interest", h.AddInterest)
	rg.DELETE("/:id/interest", h.RemoveInterest)
}
