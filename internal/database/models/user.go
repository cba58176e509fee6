package models

import (
	"time"
)

// User represents an account that owns stock entries
type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	EmailID   string    `gorm:"column:email_id;uniqueIndex;not null" json:"emailId"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Stocks []Stock `gorm:"foreignKey:OwnerID" json:"stocks,omitempty"`
}

// TableName overrides the table name
func (User) TableName() string {
	return "users"
}
