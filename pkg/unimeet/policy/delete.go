package policy

import (
	"fmt"

	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"gorm.io/gorm"
)

// Deletion orchestration. The entity graph has multiple delete paths into
// comments and interests (via the post and via the author), which rules out
// declarative cascades: the store would either refuse the schema or delete
// through conflicting paths. Instead every aggregate root gets one function
// that removes dependents in a fixed order inside a single transaction.
// Reports are never deleted here; they survive as audit history with
// dangling target references.

// DeletePost removes a post together with its comments and interest marks.
func DeletePost(db *gorm.DB, postID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Post{}, postID).Error; err != nil {
			return fmt.Errorf("%w: post does not exist", ErrNotFound)
		}
		return deletePostTx(tx, postID)
	})
}

func deletePostTx(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.PostInterest{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Post{}, postID).Error
}

// DeleteComment removes a comment and all of its descendant replies.
// The reply tree is an adjacency list, so descendants are collected level
// by level before a single delete; no orphaned reply may remain.
func DeleteComment(db *gorm.DB, commentID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Comment{}, commentID).Error; err != nil {
			return fmt.Errorf("%w: comment does not exist", ErrNotFound)
		}
		return deleteCommentTx(tx, commentID)
	})
}

func deleteCommentTx(tx *gorm.DB, commentID uint) error {
	toDelete := []uint{commentID}
	frontier := []uint{commentID}

	for len(frontier) > 0 {
		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("parent_comment_id IN ?", frontier).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}
		toDelete = append(toDelete, replyIDs...)
		frontier = replyIDs
	}

	return tx.Delete(&models.Comment{}, toDelete).Error
}

// DeleteGroup removes a group with its memberships, join requests, and all
// posts made into it (each through the post path).
func DeleteGroup(db *gorm.DB, groupID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.Group{}, groupID).Error; err != nil {
			return fmt.Errorf("%w: group does not exist", ErrNotFound)
		}
		return deleteGroupTx(tx, groupID)
	})
}

func deleteGroupTx(tx *gorm.DB, groupID uint) error {
	if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMembership{}).Error; err != nil {
		return err
	}
	if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupJoinRequest{}).Error; err != nil {
		return err
	}

	var postIDs []uint
	if err := tx.Model(&models.Post{}).Where("group_id = ?", groupID).
		Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	for _, postID := range postIDs {
		if err := deletePostTx(tx, postID); err != nil {
			return err
		}
	}

	return tx.Delete(&models.Group{}, groupID).Error
}

// DeleteUser removes a user and everything they own. Admin accounts are
// structurally exempt. Order matters: the user's comments and interests on
// other users' posts must be swept explicitly before the owned posts go
// through the post path, so no row is reached through two delete paths.
// Groups the user created stay behind (ownership is not transferable);
// global admins remain able to moderate or delete them.
func DeleteUser(db *gorm.DB, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return fmt.Errorf("%w: user does not exist", ErrNotFound)
		}
		if user.IsAdmin {
			return fmt.Errorf("%w: admin users cannot be deleted", ErrPolicyViolation)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.PostInterest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.GroupMembership{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.GroupJoinRequest{}).Error; err != nil {
			return err
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		for _, postID := range postIDs {
			if err := deletePostTx(tx, postID); err != nil {
				return err
			}
		}

		return tx.Delete(&models.User{}, userID).Error
	})
}
