package models

import (
	"time"
)

// Stock is a named price entry created by a user
type Stock struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	Price      float64   `gorm:"not null" json:"price"`
	CreateDate time.Time `gorm:"column:create_date;type:date;not null" json:"createDate"`
	LastUpdate time.Time `gorm:"column:last_update;type:date;not null" json:"lastUpdate"`
	OwnerID    uint      `gorm:"not null;index" json:"owner_id"`
	Owner      User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"owner,omitempty"`
}

// TableName overrides the table name
func (Stock) TableName() string {
	return "stocks"
}

// OwnedBy reports whether userID owns the stock
func (s *Stock) OwnedBy(userID uint) bool {
	return s.OwnerID == userID
}
