package posts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
)

// CreateCommentRequest represents a request to comment on a post
type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

// CommentResponse represents a comment and its replies in API responses
type CommentResponse struct {
	ID        uint              `json:"id"`
	Content   string            `json:"content"`
	AuthorID  uint              `json:"author_id"`
	Username  string            `json:"username"`
	CreatedAt time.Time         `json:"created_at"`
	Replies   []CommentResponse `json:"replies"`
}

// AddComment adds a comment (optionally a reply) to a post
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param request body CreateCommentRequest true "Comment details"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} map[string]string "Comments disabled on this post"
// @Failure 404 {object} map[string]string "Post or parent comment not found"
// @Security BearerAuth
// @Router /posts/{id}/comments [post]
func (h *Handler) AddComment(c *gin.Context) {
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

	if !post.CommentsEnabled {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comments are disabled on this post"})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ParentCommentID != nil {
		var parent models.Comment
		if err := h.db.First(&parent, *req.ParentCommentID).Error; err != nil || parent.PostID != post.ID {
			c.JSON(http.StatusNotFound, gin.H{"error": "Parent comment not found"})
			return
		}
	}

	comment := models.Comment{
		PostID:          post.ID,
		UserID:          userID,
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	}
	if err := h.db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	username, _ := auth.GetUsername(c)
	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID,
		Content:   comment.Content,
		AuthorID:  comment.UserID,
		Username:  username,
		CreatedAt: comment.CreatedAt,
		Replies:   []CommentResponse{},
	})
}

// DeleteComment removes a comment and all of its replies (owner or admin)
// @Summary Delete a comment
// @Tags posts
// @Produce json
// @Param commentId path int true "Comment ID"
// @Success 200 {object} map[string]string "Comment deleted"
// @Failure 401 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Comment not found"
// @Security BearerAuth
// @Router /posts/comments/{commentId} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
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

	if !policy.IsContentOwner(userID, comment.UserID) && !policy.IsAdmin(h.db, userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You can only delete your own comments"})
		return
	}

	if err := policy.DeleteComment(h.db, comment.ID); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}

// buildCommentTree assembles the reply tree from the flat adjacency list.
// Comments are expected in creation order, so replies stay chronological.
func buildCommentTree(comments []models.Comment) []CommentResponse {
	var roots []CommentResponse
	for _, comment := range comments {
		if comment.ParentCommentID == nil {
			roots = append(roots, CommentResponse{
				ID:        comment.ID,
				Content:   comment.Content,
				AuthorID:  comment.UserID,
				Username:  comment.User.Username,
				CreatedAt: comment.CreatedAt,
				Replies:   collectReplies(comment.ID, comments),
			})
		}
	}
	if roots == nil {
		roots = []CommentResponse{}
	}
	return roots
}

func collectReplies(parentID uint, comments []models.Comment) []CommentResponse {
	replies := []CommentResponse{}
	for _, comment := range comments {
		if comment.ParentCommentID != nil && *comment.ParentCommentID == parentID {
			replies = append(replies, CommentResponse{
				ID:        comment.ID,
				Content:   comment.Content,
				AuthorID:  comment.UserID,
				Username:  comment.User.Username,
				CreatedAt: comment.CreatedAt,
				Replies:   collectReplies(comment.ID, comments),
			})
		}
	}
	return replies
}

// RegisterCommentRoutes registers comment routes
func (h *Handler) RegisterCommentRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/comments", h.AddComment)
	rg.DELETE("/comments/:commentId", h.DeleteComment)
}
