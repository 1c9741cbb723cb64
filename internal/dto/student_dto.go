package dto

import "github.com/nursultan-dev/campus-hub-api/internal/models"

// StudentProfileResponse serializes a student profile for display.
type StudentProfileResponse struct {
	ID          uint   `json:"id"`
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	GroupName   string `json:"group_name"`
	TotalPoints int    `json:"total_points"`
	TotalSom    int    `json:"total_som"`
}

// StudentProfileUpdateRequest enumerates the mutable profile fields.
type StudentProfileUpdateRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=120"`
	LastName  *string `json:"last_name" validate:"omitempty,max=120"`
	GroupName *string `json:"group_name" validate:"omitempty,max=120"`
}

// SkillSelectionRequest is one skill claim inside a replace-all payload.
type SkillSelectionRequest struct {
	SkillID uint `json:"skill_id" validate:"required"`
	Level   int  `json:"level" validate:"required,min=1,max=5"`
}

// SkillsReplaceRequest swaps the full skill selection set. An empty list
// clears every selection.
type SkillsReplaceRequest struct {
	Skills []SkillSelectionRequest `json:"skills"`
}

// InterestsReplaceRequest swaps the full interest selection set.
type InterestsReplaceRequest struct {
	InterestIDs []uint `json:"interest_ids"`
}

// RolesReplaceRequest swaps the full role selection set.
type RolesReplaceRequest struct {
	RoleIDs []uint `json:"role_ids"`
}

// SkillSelectionResponse resolves a stored skill selection for display.
type SkillSelectionResponse struct {
	ID       uint                  `json:"id"`
	Name     string                `json:"name"`
	Level    int                   `json:"level"`
	Category SkillCategoryResponse `json:"category"`
}

// SkillMapResponse aggregates a student's profile with every selection set.
type SkillMapResponse struct {
	Profile   StudentProfileResponse   `json:"profile"`
	Skills    []SkillSelectionResponse `json:"skills"`
	Interests []InterestResponse       `json:"interests"`
	Roles     []RoleResponse           `json:"roles"`
}

// NewStudentProfileResponse converts a profile and its owning user into a DTO.
func NewStudentProfileResponse(profile models.StudentProfile, user models.User) StudentProfileResponse {
	return StudentProfileResponse{
		ID:          profile.ID,
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		GroupName:   profile.GroupName,
		TotalPoints: profile.TotalPoints,
		TotalSom:    profile.TotalSom,
	}
}

// AdminProfileResponse serializes an admin profile.
type AdminProfileResponse struct {
	ID       uint   `json:"id"`
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Position string `json:"position"`
}

// AdminProfileUpdateRequest enumerates the mutable admin profile fields.
type AdminProfileUpdateRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=255"`
	Position *string `json:"position" validate:"omitempty,max=255"`
}

// NewAdminProfileResponse converts an admin profile into a DTO.
func NewAdminProfileResponse(profile models.AdminProfile, user models.User) AdminProfileResponse {
	return AdminProfileResponse{
		ID:       profile.ID,
		UserID:   user.ID,
		Email:    user.Email,
		FullName: profile.FullName,
		Position: profile.Position,
	}
}

// AdminStudentListRequest defines filters for the admin student listing.
type AdminStudentListRequest struct {
	Page    int
	PerPage int
	Search  string
}

// AdminStudentResponse serializes student data for the admin panel.
type AdminStudentResponse struct {
	StudentProfileResponse
	IsActive bool `json:"is_active"`
}

// AdminStudentListResponse wraps a paginated student listing.
type AdminStudentListResponse struct {
	Items      []AdminStudentResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}
