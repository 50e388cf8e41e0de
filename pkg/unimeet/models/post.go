package models

import "time"

// Post represents a piece of content, either public (GroupID == nil)
// or posted into a group.
type Post struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Content         string    `gorm:"not null" json:"content"`
	ImageURL        string    `json:"image_url,omitempty"`
	CommentsEnabled bool      `gorm:"default:true" json:"comments_enabled"`
	InterestEnabled bool      `gorm:"default:true" json:"interest_enabled"`
	GroupID         *uint     `gorm:"index" json:"group_id,omitempty"`

	// Relationships
	User      User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Group     *Group         `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Interests []PostInterest `gorm:"foreignKey:PostID" json:"interests,omitempty"`
}
