package models

import "time"

// User represents a registered member of the platform.
// Rows are hard-deleted: account removal is handled by an explicit
// multi-step sweep in the policy package, never by a soft-delete flag.
type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `json:"-"`

	// Profile fields
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Faculty         string `json:"faculty,omitempty"`
	Major           string `json:"major,omitempty"`
	Bio             string `json:"bio,omitempty"`

	// Moderation state. IsAdmin is never writable through normal flows;
	// BannedUntil == nil with IsBanned == true means a permanent ban.
	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`
	IsBanned    bool       `gorm:"default:false" json:"is_banned"`
	BanReason   string     `json:"ban_reason,omitempty"`
	BannedUntil *time.Time `json:"banned_until,omitempty"`

	// Relationships
	Posts            []Post            `gorm:"foreignKey:UserID" json:"posts,omitempty"`
	Comments         []Comment         `gorm:"foreignKey:UserID" json:"comments,omitempty"`
	Interests        []PostInterest    `gorm:"foreignKey:UserID" json:"interests,omitempty"`
	GroupMemberships []GroupMembership `gorm:"foreignKey:UserID" json:"group_memberships,omitempty"`
	SentReports      []Report          `gorm:"foreignKey:ReporterUserID" json:"sent_reports,omitempty"`
	ReceivedReports  []Report          `gorm:"foreignKey:ReportedUserID" json:"received_reports,omitempty"`
}

// AllowedEmailDomain restricts registration to institution addresses.
type AllowedEmailDomain struct {
	ID     uint   `gorm:"primarykey" json:"id"`
	Domain string `gorm:"uniqueIndex;not null" json:"domain"`
}
