package models

import "time"

// StudentProfile holds the student-specific attributes of an account,
// including the materialized point and SOM balances.
//
// TotalPoints must always equal the zero-floored running sum of the
// student's transaction deltas; TotalSom the sum of SOM credits. Both are
// maintained in the same database transaction that inserts a ledger row.
type StudentProfile struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	UserID    uint   `gorm:"uniqueIndex;not null" json:"user_id"`
	FirstName string `gorm:"size:120" json:"first_name"`
	LastName  string `gorm:"size:120" json:"last_name"`
	GroupName string `gorm:"size:120" json:"group_name"`

	TotalPoints int `gorm:"not null;default:0" json:"total_points"`
	TotalSom    int `gorm:"not null;default:0" json:"total_som"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
