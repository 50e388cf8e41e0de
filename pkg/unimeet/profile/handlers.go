package profile

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

// Handler handles profile requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new profile handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ProfileResponse represents a user profile in API responses
type ProfileResponse struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ImageURL     string    `json:"image_url,omitempty"`
	Faculty      string    `json:"faculty,omitempty"`
	Major        string    `json:"major,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	PostsCount   int64     `json:"posts_count"`
	IsOwnProfile bool      `json:"is_own_profile"`
	CreatedAt    time.Time `json:"created_at"`
}

// UpdateProfileRequest represents a partial profile update.
// Only the provided fields are changed.
type UpdateProfileRequest struct {
	ImageURL *string `json:"image_url"`
	Faculty  *string `json:"faculty"`
	Major    *string `json:"major"`
	Bio      *string `json:"bio"`
}

// ChangeUsernameRequest represents a username change
type ChangeUsernameRequest struct {
	Username string `json:"username" binding:"required,min=3"`
}

func (h *Handler) toResponse(user *models.User, callerID uint) ProfileResponse {
	var postsCount int64
	h.db.Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&postsCount)

	return ProfileResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		ImageURL:     user.ProfileImageURL,
		Faculty:      user.Faculty,
		Major:        user.Major,
		Bio:          user.Bio,
		PostsCount:   postsCount,
		IsOwnProfile: user.ID == callerID,
		CreatedAt:    user.CreatedAt,
	}
}

// Get returns a user profile by ID
// @Summary Get a profile
// @Tags profile
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /profile/{userId} [get]
func (h *Handler) Get(c *gin.Context) {
	callerID, _ := auth.GetUserID(c)
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(&user, callerID))
}

// GetByUsername returns a user profile by username
// @Summary Get a profile by username
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} map[string]string "User not found"
// @Security BearerAuth
// @Router /profile/by-username/{username} [get]
func (h *Handler) GetByUsername(c *gin.Context) {
	callerID, _ := auth.GetUserID(c)

	var user models.User
	if err := h.db.Where("username = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(&user, callerID))
}

// Update updates the caller's own profile fields
// @Summary Update own profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Fields to update"
// @Success 200 {object} ProfileResponse
// @Security BearerAuth
// @Router /profile [put]
func (h *Handler) Update(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	updates := make(map[string]interface{})
	if req.ImageURL != nil {
		updates["profile_image_url"] = *req.ImageURL
	}
	if req.Faculty != nil {
		updates["faculty"] = *req.Faculty
	}
	if req.Major != nil {
		updates["major"] = *req.Major
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
			return
		}
	}

	h.db.First(&user, userID)
	c.JSON(http.StatusOK, h.toResponse(&user, userID))
}

// ChangeUsername changes the caller's username
// @Summary Change own username
// @Tags profile
// @Accept json
// @Produce json
// @Param request body ChangeUsernameRequest true "New username"
// @Success 200 {object} map[string]interface{} "Username changed"
// @Failure 409 {object} map[string]string "Username already taken"
// @Security BearerAuth
// @Router /profile/username [put]
func (h *Handler) ChangeUsername(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := h.db.Where("username = ? AND id != ?", req.Username, userID).
		First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user.Username = req.Username
	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change username"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
}

// Delete removes the caller's own account through the same orchestrated
// sweep as admin-initiated deletion. Admin accounts cannot be deleted.
// @Summary Delete own account
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]string "Account deleted"
// @Failure 400 {object} map[string]string "Admin accounts cannot be deleted"
// @Security BearerAuth
// @Router /profile [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	if err := policy.DeleteUser(h.db, userID); err != nil {
		c.JSON(policy.StatusCode(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// RegisterRoutes registers profile routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/by-username/:username", h.GetByUsername)
	rg.GET("/:userId", h.Get)
	rg.PUT("/username", h.ChangeUsername)
	rg.PUT("", h.Update)
	rg.DELETE("", h.Delete)
}
