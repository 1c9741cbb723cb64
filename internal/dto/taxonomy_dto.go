package dto

import "github.com/nursultan-dev/campus-hub-api/internal/models"

// SkillCategoryResponse serializes a skill category.
type SkillCategoryResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// SkillResponse serializes a skill joined with its category.
type SkillResponse struct {
	ID       uint                  `json:"id"`
	Name     string                `json:"name"`
	Category SkillCategoryResponse `json:"category"`
}

// InterestResponse serializes an interest.
type InterestResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RoleResponse serializes a team role.
type RoleResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// SkillCategoryCreateRequest captures new skill categories.
type SkillCategoryCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

// SkillCreateRequest captures new skills.
type SkillCreateRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=150"`
	CategoryID uint   `json:"category_id" validate:"required"`
}

// InterestCreateRequest captures new interests.
type InterestCreateRequest struct {
	Name string `json:"name" validate:"required,min=1,max=150"`
}

// RoleCreateRequest captures new team roles.
type RoleCreateRequest struct {
	Code string `json:"code" validate:"required,min=1,max=100"`
	Name string `json:"name" validate:"required,min=1,max=150"`
}

// NewSkillResponse converts a skill model into a DTO.
func NewSkillResponse(skill models.Skill) SkillResponse {
	return SkillResponse{
		ID:   skill.ID,
		Name: skill.Name,
		Category: SkillCategoryResponse{
			ID:   skill.Category.ID,
			Name: skill.Category.Name,
		},
	}
}

// NewInterestResponse converts an interest model into a DTO.
func NewInterestResponse(interest models.Interest) InterestResponse {
	return InterestResponse{ID: interest.ID, Name: interest.Name}
}

// NewRoleResponse converts a role model into a DTO.
func NewRoleResponse(role models.Role) RoleResponse {
	return RoleResponse{ID: role.ID, Code: role.Code, Name: role.Name}
}

// NewRoleResponseSlice converts a slice of role models.
func NewRoleResponseSlice(roles []models.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, NewRoleResponse(role))
	}
	return out
}
