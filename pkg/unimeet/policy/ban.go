package policy

import (
	"fmt"
	"time"

	"github.com/unimeet/unimeet/pkg/unimeet/models"
	"gorm.io/gorm"
)

// EvaluateBan resolves the user's ban state at identity-check time.
// An expired temporary ban is cleared in the store before any authorization
// decision is made, as if the user had never been banned. An active ban
// returns ErrUnauthorized with the reason and, if temporary, the expiry.
func EvaluateBan(db *gorm.DB, user *models.User) error {
	if !user.IsBanned {
		return nil
	}

	if user.BannedUntil != nil && user.BannedUntil.Before(time.Now()) {
		user.IsBanned = false
		user.BanReason = ""
		user.BannedUntil = nil
		return db.Model(user).Select("is_banned", "ban_reason", "banned_until").
			Updates(map[string]interface{}{
				"is_banned":    false,
				"ban_reason":   "",
				"banned_until": nil,
			}).Error
	}

	if user.BannedUntil != nil {
		return fmt.Errorf("%w: account banned until %s: %s",
			ErrUnauthorized, user.BannedUntil.Format("2006-01-02 15:04"), user.BanReason)
	}
	return fmt.Errorf("%w: account permanently banned: %s", ErrUnauthorized, user.BanReason)
}

// ApplyBan bans the user with the given reason. A nil day count means the
// ban is permanent. Admins are structurally immune.
func ApplyBan(db *gorm.DB, user *models.User, reason string, days *int) error {
	if user.IsAdmin {
		return fmt.Errorf("%w: admin users cannot be banned", ErrPolicyViolation)
	}

	user.IsBanned = true
	user.BanReason = reason
	if days != nil {
		until := time.Now().AddDate(0, 0, *days)
		user.BannedUntil = &until
	} else {
		user.BannedUntil = nil
	}

	return db.Model(user).Select("is_banned", "ban_reason", "banned_until").
		Updates(map[string]interface{}{
			"is_banned":    true,
			"ban_reason":   user.BanReason,
			"banned_until": user.BannedUntil,
		}).Error
}

// LiftBan explicitly clears the user's ban state.
func LiftBan(db *gorm.DB, user *models.User) error {
	user.IsBanned = false
	user.BanReason = ""
	user.BannedUntil = nil
	return db.Model(user).Select("is_banned", "ban_reason", "banned_until").
		Updates(map[string]interface{}{
			"is_banned":    false,
			"ban_reason":   "",
			"banned_until": nil,
		}).Error
}
