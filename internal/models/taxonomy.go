package models

// SkillCategory groups skills. A category cannot be deleted while it still
// owns skills.
type SkillCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:150;uniqueIndex;not null" json:"name"`

	Skills []Skill `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"skills,omitempty"`
}

// Skill is a vocabulary entry a student can claim with a proficiency level.
type Skill struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:150;uniqueIndex;not null" json:"name"`
	CategoryID uint   `gorm:"not null" json:"category_id"`

	Category SkillCategory `json:"category"`
}

// Interest is a vocabulary entry a student can select.
type Interest struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:150;uniqueIndex;not null" json:"name"`
}

// Role is a team role a student can offer (backend, designer, ...).
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:100;uniqueIndex;not null" json:"code"`
	Name string `gorm:"size:150;not null" json:"name"`
}

// StudentSkill links a student to a skill with a proficiency level in 1..5.
// The composite primary key makes selections a set, never a multiset.
type StudentSkill struct {
	StudentID uint `gorm:"primaryKey" json:"student_id"`
	SkillID   uint `gorm:"primaryKey" json:"skill_id"`
	Level     int  `gorm:"not null" json:"level"`

	Skill Skill `gorm:"constraint:OnDelete:RESTRICT" json:"skill"`
}

// StudentInterest links a student to an interest.
type StudentInterest struct {
	StudentID  uint `gorm:"primaryKey" json:"student_id"`
	InterestID uint `gorm:"primaryKey" json:"interest_id"`

	Interest Interest `gorm:"constraint:OnDelete:RESTRICT" json:"interest"`
}

// StudentRole links a student to a team role.
type StudentRole struct {
	StudentID uint `gorm:"primaryKey" json:"student_id"`
	RoleID    uint `gorm:"primaryKey" json:"role_id"`

	Role Role `gorm:"constraint:OnDelete:RESTRICT" json:"role"`
}
