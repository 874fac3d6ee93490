package models

// Post is a blog entry owned by exactly one User.
type Post struct {
	ID      uint   `gorm:"primaryKey"`
	Title   string `gorm:"size:100;not null"`
	Content string `gorm:"type:text;not null"`
	UserID  uint   `gorm:"not null;index"`
}
