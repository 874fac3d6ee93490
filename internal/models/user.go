// Package models contains data structures for the application's domain models.
package models

// User is a registered author. Password holds a bcrypt hash, never plaintext.
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Username string `gorm:"size:20;uniqueIndex;not null"`
	Password string `gorm:"size:60;not null"`
	Posts    []Post `gorm:"foreignKey:UserID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}
