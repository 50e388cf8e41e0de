package groups

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
)

// MemberResponse represents a group member in moderation listings
type MemberResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	ImageURL  string    `json:"image_url,omitempty"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
	IsCreator bool      `json:"is_creator"`
}

// GroupPostResponse represents a group post in moderation listings
type GroupPostResponse struct {
	ID             uint      `json:"id"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"image_url,omitempty"`
	AuthorID       uint      `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	CommentsCount  int64     `json:"comments_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// requireModerator parses the group id and checks moderation privilege.
// Moderation is creator-or-global-admin only; it is re-resolved on every
// call so there is no cached privilege to go stale.
func (h *Handler) requireModerator(c *gin.Context) (uint, bool) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return 0, false
	}

	if !policy.CanModerateGroup(h.db, uint(groupID), userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not allowed to moderate this group"})
		return 0, false
	}
	return uint(groupID), true
}

// ListMembers returns all members of a group (moderator only)
// @Summary List group members
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} MemberResponse
// @Failure 401 {object} map[string]string "Not a moderator"
// @Security BearerAuth
// @Router /groups/{id}/members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var memberships []models.GroupMembership
	if err := h.db.Preload("User").Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = MemberResponse{
			ID:        m.ID,
			UserID:    m.UserID,
			Username:  m.User.Username,
			ImageURL:  m.User.ProfileImageURL,
			Role:      string(m.Role),
			JoinedAt:  m.CreatedAt,
			IsCreator: m.UserID == group.CreatorUserID,
		}
	}

	c.JSON(http.StatusOK, members)
}

// KickMember removes a member from the group (moderator only).
// The creator can never be kicked.
// @Summary Kick a group member
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param userId path int true "User ID"
// @Success 200 {object} map[string]string "Member removed"
// @Failure 400 {object} map[string]string "Cannot kick the creator"
// @Failure 401 {object} map[string]string "Not a moderator"
// @Security BearerAuth
// @Router /groups/{id}/members/{userId} [delete]
func (h *Handler) KickMember(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}
	memberID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	if group.CreatorUserID == uint(memberID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "The group creator cannot be kicked"})
		return
	}

	result := h.db.Where("group_id = ? AND user_id = ?", groupID, memberID).
		Delete(&models.GroupMembership{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User is not a member of this group"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed from the group"})
}

// ListGroupPosts returns the group's posts for moderation
// @Summary List group posts
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} GroupPostResponse
// @Failure 401 {object} map[string]string "Not a moderator"
// @Security BearerAuth
// @Router /groups/{id}/posts [get]
func (h *Handler) ListGroupPosts(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}

	var posts []models.Post
	if err := h.db.Preload("User").Where("group_id = ?", groupID).
		Order("created_at DESC").Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	responses := make([]GroupPostResponse, len(posts))
	for i, post := range posts {
		var commentsCount int64
		h.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentsCount)
		responses[i] = GroupPostResponse{
			ID:             post.ID,
			Content:        post.Content,
			ImageURL:       post.ImageURL,
			AuthorID:       post.UserID,
			AuthorUsername: post.User.Username,
			CommentsCount:  commentsCount,
			CreatedAt:      post.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// DeleteGroupPost removes a post from the group (moderator only)
// @Summary Delete a group post
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param postId path int true "Post ID"
// @Success 200 {object} map[string]string "Post deleted"
// @Failure 401 {object} map[string]string "Not a moderator"
// @Security BearerAuth
// @Router /groups/{id}/posts/{postId} [delete]
func (h *Handler) DeleteGroupPost(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}
	postID, err := strconv.ParseUint(c.Param("postId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := h.db.Where("id = ? AND group_id = ?", postID, groupID).First(&post).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found in this group"})
		return
	}

	if err := policy.DeletePost(h.db, post.ID); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted from the group"})
}

// DeleteGroupComment removes a comment on a group post (moderator only)
// @Summary Delete a group comment
// @Tags groups
// @Produce json
// @Param id path int true "Group ID"
// @Param commentId path int true "Comment ID"
// @Success 200 {object} map[string]string "Comment deleted"
// @Failure 401 {object} map[string]string "Not a moderator"
// @Security BearerAuth
// @Router /groups/{id}/comments/{commentId} [delete]
func (h *Handler) DeleteGroupComment(c *gin.Context) {
	groupID, ok := h.requireModerator(c)
	if !ok {
		return
	}
	commentID, err := strconv.ParseUint(c.Param("commentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	var comment models.Comment
	if err := h.db.First(&comment, commentID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, comment.PostID).Error; err != nil ||
		post.GroupID == nil || *post.GroupID != groupID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found in this group"})
		return
	}

	if err := policy.DeleteComment(h.db, comment.ID); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// RegisterModerationRoutes registers group moderation routes
func (h *Handler) RegisterModerationRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.DELETE("/:id/members/:userId", h.KickMember)
	rg.GET("/:id/posts", h.ListGroupPosts)
	rg.DELETE("/:id/posts/:postId", h.DeleteGroupPost)
	rg.DELETE("/:id/comments/:commentId", h.DeleteGroupComment)
}
