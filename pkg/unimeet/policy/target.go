package policy

import (
	"fmt"

	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"gorm.io/gorm"
)

// TargetKind identifies what kind of entity a report points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetGroup   TargetKind = "group"
	TargetUser    TargetKind = "user"
)

// Target is the tagged union of the four reportable entity kinds.
// A Target is only obtainable through NewTarget, so holding one guarantees
// the exactly-one-target invariant.
type Target struct {
	Kind TargetKind
	ID   uint
}

// NewTarget builds a Target from the four optional ids of a report request.
// Zero or more than one set id is rejected.
func NewTarget(postID, commentID, groupID, userID *uint) (Target, error) {
	var targets []Target
	if postID != nil {
		targets = append(targets, Target{Kind: TargetPost, ID: *postID})
	}
	if commentID != nil {
		targets = append(targets, Target{Kind: TargetComment, ID: *commentID})
	}
	if groupID != nil {
		targets = append(targets, Target{Kind: TargetGroup, ID: *groupID})
	}
	if userID != nil {
		targets = append(targets, Target{Kind: TargetUser, ID: *userID})
	}

	if len(targets) != 1 {
		return Target{}, fmt.Errorf("%w: a report must reference exactly one target", ErrConflict)
	}
	return targets[0], nil
}

// TargetOf reconstructs the Target of a stored report.
func TargetOf(report *models.Report) (Target, error) {
	return NewTarget(report.ReportedPostID, report.ReportedCommentID,
		report.ReportedGroupID, report.ReportedUserID)
}

// Exists checks that the targeted entity is present in the store.
func (t Target) Exists(db *gorm.DB) error {
	var err error
	switch t.Kind {
	case TargetPost:
		err = db.First(&models.Post{}, t.ID).Error
	case TargetComment:
		err = db.First(&models.Comment{}, t.ID).Error
	case TargetGroup:
		err = db.First(&models.Group{}, t.ID).Error
	case TargetUser:
		err = db.First(&models.User{}, t.ID).Error
	}
	if err != nil {
		return fmt.Errorf("%w: reported %s does not exist", ErrNotFound, t.Kind)
	}
	return nil
}
