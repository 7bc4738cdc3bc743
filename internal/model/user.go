package model

import "time"

// User is a registered MusicWebsite account. Username and email each carry a
// unique index; uniqueness is enforced by the database, not just the
// registration pre-check.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;not null;uniqueIndex"`
	Email        string `gorm:"size:128;not null;uniqueIndex"`
	PasswordHash string `gorm:"size:255;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
