package models

import "time"

// Comment represents a comment on a post. Replies form a tree via
// ParentCommentID (adjacency list, unbounded depth). There is no cascade on
// the self-reference: deleting a comment removes its descendants explicitly
// through the policy package.
type Comment struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	PostID          uint      `gorm:"not null;index" json:"post_id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	Content         string    `gorm:"not null" json:"content"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`

	// Relationships
	Post    Post      `gorm:"foreignKey:PostID" json:"post,omitempty"`
	User    User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []Comment `gorm:"foreignKey:ParentCommentID" json:"replies,omitempty"`
}
