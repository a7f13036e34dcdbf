package model

import (
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every entity. The server runs
// it at startup; tests run it against in-memory databases.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Team{},
		&TeamMember{},
		&Board{},
		&BoardMember{},
		&Task{},
		&Label{},
		&Comment{},
		&Attachment{},
	)
}
