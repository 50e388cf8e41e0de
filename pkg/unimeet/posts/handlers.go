package posts

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unimeet/unimeet/pkg/unimeet/auth"
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"github.com/unimeet/unimeet/pkg/unimeet/policy"
	"gorm.io/gorm"
)

// Handler handles post-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new posts handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreatePostRequest represents the request to create a post
type CreatePostRequest struct {
	Content         string `json:"content" binding:"required"`
	ImageURL        string `json:"image_url"`
	CommentsEnabled *bool  `json:"comments_enabled"`
	InterestEnabled *bool  `json:"interest_enabled"`
	GroupID         *uint  `json:"group_id"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID              uint              `json:"id"`
	Content         string            `json:"content"`
	ImageURL        string            `json:"image_url,omitempty"`
	AuthorID        uint              `json:"author_id"`
	AuthorUsername  string            `json:"author_username"`
	AuthorImageURL  string            `json:"author_image_url,omitempty"`
	GroupID         *uint             `json:"group_id,omitempty"`
	GroupName       string            `json:"group_name,omitempty"`
	CommentsEnabled bool              `json:"comments_enabled"`
	InterestEnabled bool              `json:"interest_enabled"`
	InterestedCount int64             `json:"interested_count"`
	CommentsCount   int64             `json:"comments_count"`
	CreatedAt       time.Time         `json:"created_at"`
	Comments        []CommentResponse `json:"comments,omitempty"`
}

// Create creates a new post
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post details"
// @Success 201 {object} PostResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /posts [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.GroupID != nil {
		if err := h.db.First(&models.Group{}, *req.GroupID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
	}

	post := models.Post{
		UserID:          userID,
		Content:         req.Content,
		ImageURL:        req.ImageURL,
		CommentsEnabled: true,
		InterestEnabled: true,
		GroupID:         req.GroupID,
	}
	if req.CommentsEnabled != nil {
		post.CommentsEnabled = *req.CommentsEnabled
	}
	if req.InterestEnabled != nil {
		post.InterestEnabled = *req.InterestEnabled
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	username, _ := auth.GetUsername(c)
	c.JSON(http.StatusCreated, PostResponse{
		ID:              post.ID,
		Content:         post.Content,
		ImageURL:        post.ImageURL,
		AuthorID:        post.UserID,
		AuthorUsername:  username,
		GroupID:         post.GroupID,
		CommentsEnabled: post.CommentsEnabled,
		InterestEnabled: post.InterestEnabled,
		CreatedAt:       post.CreatedAt,
	})
}

// Feed returns public posts plus posts of groups the caller belongs to
// @Summary Get the feed
// @Tags posts
// @Produce json
// @Success 200 {array} PostResponse
// @Security BearerAuth
// @Router /posts/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var groupIDs []uint
	if err := h.db.Model(&models.GroupMembership{}).Where("user_id = ?", userID).
		Pluck("group_id", &groupIDs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	query := h.db.Preload("User").Preload("Group").Order("created_at DESC")
	if len(groupIDs) > 0 {
		query = query.Where("group_id IS NULL OR group_id IN ?", groupIDs)
	} else {
		query = query.Where("group_id IS NULL")
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	responses := make([]PostResponse, len(posts))
	for i, post := range posts {
		responses[i] = h.toResponse(&post)
	}
	c.JSON(http.StatusOK, responses)
}

// Get returns a post with its threaded comment tree
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var post models.Post
	if err := h.db.Preload("User").Preload("Group").First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	var comments []models.Comment
	if err := h.db.Preload("User").Where("post_id = ?", post.ID).
		Order("created_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	response := h.toResponse(&post)
	response.Comments = buildCommentTree(comments)
	c.JSON(http.StatusOK, response)
}

// Delete removes a post with its comments and interests (owner or admin)
// @Summary Delete a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} map[string]string "Post deleted"
// @Failure 401 {object} map[string]string "Not the author"
// @Failure 404 {object} map[string]string "Post not found"
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
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

	if !policy.IsContentOwner(userID, post.UserID) && !policy.IsAdmin(h.db, userID) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You can only delete your own posts"})
		return
	}

	if err := policy.DeletePost(h.db, post.ID); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func (h *Handler) toResponse(post *models.Post) PostResponse {
	var interestedCount, commentsCount int64
	h.db.Model(&models.PostInterest{}).Where("post_id = ?", post.ID).Count(&interestedCount)
	h.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentsCount)

	response := PostResponse{
		ID:              post.ID,
		Content:         post.Content,
		ImageURL:        post.ImageURL,
		AuthorID:        post.UserID,
		AuthorUsername:  post.User.Username,
		AuthorImageURL:  post.User.ProfileImageURL,
		GroupID:         post.GroupID,
		CommentsEnabled: post.CommentsEnabled,
		InterestEnabled: post.InterestEnabled,
		InterestedCount: interestedCount,
		CommentsCount:   commentsCount,
		CreatedAt:       post.CreatedAt,
	}
	if post.Group != nil {
		response.GroupName = post.Group.Name
	}
	return response
}

// RegisterRoutes registers post routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("/feed", h.Feed)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Delete)
}
