package models

import "time"

// User represents an authenticated actor of the POS.
type User struct {
	ID           uint       `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string     `gorm:"column:username;type:text;not null;uniqueIndex"`
	FullName     string     `gorm:"column:full_name;not null"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	LastAccessAt *time.Time `gorm:"column:last_access_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
