package models

import "time"

// JoinRequestStatus represents the state of a join request.
// Approved and Rejected are terminal; a handled request is never reopened.
type JoinRequestStatus string

const (
	JoinRequestPending  JoinRequestStatus = "pending"
	JoinRequestApproved JoinRequestStatus = "approved"
	JoinRequestRejected JoinRequestStatus = "rejected"
)

// GroupJoinRequest represents a user's request to join a private group
type GroupJoinRequest struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	GroupID     uint              `gorm:"not null;index" json:"group_id"`
	UserID      uint              `gorm:"not null;index" json:"user_id"`
	Status      JoinRequestStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	RespondedAt *time.Time        `json:"responded_at,omitempty"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
