package models

import "time"

// Group represents a community group. The creator is the permanent owner:
// ownership is never transferable and the creator cannot be kicked.
type Group struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Name          string    `gorm:"not null" json:"name"`
	Description   string    `json:"description"`
	ImageURL      string    `json:"image_url,omitempty"`
	IsPrivate     bool      `gorm:"default:false" json:"is_private"`
	CreatorUserID uint      `gorm:"not null;index" json:"creator_user_id"`

	// Relationships
	Members      []GroupMembership  `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	JoinRequests []GroupJoinRequest `gorm:"foreignKey:GroupID" json:"join_requests,omitempty"`
	Posts        []Post             `gorm:"foreignKey:GroupID" json:"posts,omitempty"`
}
