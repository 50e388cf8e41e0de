package models

import "time"

// ReportType is the reason category for a report
type ReportType string

const (
	ReportTypeSpam                 ReportType = "spam"
	ReportTypeHarassment           ReportType = "harassment"
	ReportTypeInappropriateContent ReportType = "inappropriate_content"
	ReportTypeHateSpeech           ReportType = "hate_speech"
	ReportTypeViolence             ReportType = "violence"
	ReportTypeOther                ReportType = "other"
)

// ReportTypes lists all report reason categories
func ReportTypes() []ReportType {
	return []ReportType{
		ReportTypeSpam,
		ReportTypeHarassment,
		ReportTypeInappropriateContent,
		ReportTypeHateSpeech,
		ReportTypeViolence,
		ReportTypeOther,
	}
}

// ReportStatus is the state of a report. Pending is initial;
// the other three are terminal.
type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusReviewed    ReportStatus = "reviewed"
	ReportStatusActionTaken ReportStatus = "action_taken"
	ReportStatusDismissed   ReportStatus = "dismissed"
)

// Report is a user's complaint about exactly one target: a post, a comment,
// a group, or another user. Target references are intentionally not
// cascade-deleted with their entities: reports survive as audit history and
// a missing target reads as "no longer exists".
type Report struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReporterUserID uint `gorm:"not null;index" json:"reporter_user_id"`

	// Exactly one of the four is set; enforced by policy.NewTarget.
	ReportedPostID    *uint `gorm:"index" json:"reported_post_id,omitempty"`
	ReportedCommentID *uint `gorm:"index" json:"reported_comment_id,omitempty"`
	ReportedGroupID   *uint `gorm:"index" json:"reported_group_id,omitempty"`
	ReportedUserID    *uint `gorm:"index" json:"reported_user_id,omitempty"`

	Type       ReportType   `gorm:"type:varchar(30);not null" json:"type"`
	Reason     string       `gorm:"not null" json:"reason"`
	Status     ReportStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	AdminNote  string       `json:"admin_note,omitempty"`
	ResolvedAt *time.Time   `json:"resolved_at,omitempty"`
}
