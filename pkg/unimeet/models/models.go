package models

import "gorm.io/gorm"

// AllModels returns all models for migration.
// Note: User and Group must be migrated before the tables referencing them.
func AllModels() []interface{} {
	return []interface{}{
		&AllowedEmailDomain{},
		&User{},
		&Group{},
		&GroupMembership{},
		&GroupJoinRequest{},
		&Post{},
		&Comment{},
		&PostInterest{},
		&Report{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
