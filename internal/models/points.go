package models

import "time"

// PointCategory is a reward or penalty template. Exactly one category is
// expected to carry IsCustom, meaning the point value is supplied
// per-transaction instead of taken from the template.
type PointCategory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Points    int       `gorm:"not null" json:"points"`
	IsPenalty bool      `gorm:"not null;default:false" json:"is_penalty"`
	IsCustom  bool      `gorm:"not null;default:false" json:"is_custom"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// PointTransaction is an immutable ledger entry. Rows are only ever
// inserted; the student's cached balances are updated in the same database
// transaction.
type PointTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentID   uint      `gorm:"index;not null" json:"student_id"`
	CategoryID  uint      `gorm:"not null" json:"category_id"`
	Points      int       `gorm:"not null" json:"points"`
	SomEarned   int       `gorm:"not null;default:0" json:"som_earned"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`

	Student  StudentProfile `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category PointCategory  `gorm:"constraint:OnDelete:RESTRICT" json:"category"`
}
