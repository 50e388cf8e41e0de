package policy

import (
	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"gorm.io/gorm"
)

// IsAdmin reports whether the user exists and is a global admin.
// Privilege is always re-read from the store; nothing is cached between
// calls, so a revoked admin loses access on their next request.
func IsAdmin(db *gorm.DB, userID uint) bool {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return false
	}
	return user.IsAdmin
}

// CanModerateGroup reports whether the user may moderate the group:
// global admins and the group's creator only. Membership role does not
// grant moderation rights.
func CanModerateGroup(db *gorm.DB, groupID, userID uint) bool {
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return false
	}
	if user.IsAdmin {
		return true
	}

	var group models.Group
	if err := db.First(&group, groupID).Error; err != nil {
		return false
	}
	return group.CreatorUserID == userID
}

// IsContentOwner reports whether the actor authored the content.
// Ownership is a direct author-id match; there is no delegation.
func IsContentOwner(actorID, authorID uint) bool {
	return actorID == authorID
}
