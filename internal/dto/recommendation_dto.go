package dto

// InterestRecommendation is a candidate ranked by shared interests.
type InterestRecommendation struct {
	StudentID            uint     `json:"student_id"`
	UserID               uint     `json:"user_id"`
	Email                string   `json:"email"`
	FirstName            string   `json:"first_name"`
	LastName             string   `json:"last_name"`
	GroupName            string   `json:"group_name"`
	CommonInterestsCount int      `json:"common_interests_count"`
	CommonInterests      []string `json:"common_interests"`
	MatchType            string   `json:"match_type"`
}

// RoleRecommendation is a candidate ranked by complementary team roles.
type RoleRecommendation struct {
	StudentID  uint           `json:"student_id"`
	UserID     uint           `json:"user_id"`
	Email      string         `json:"email"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	GroupName  string         `json:"group_name"`
	RolesCount int            `json:"roles_count"`
	Roles      []RoleResponse `json:"roles"`
	MatchType  string         `json:"match_type"`
}

// RecommendationsRequest carries the two independent pagination pairs.
type RecommendationsRequest struct {
	InterestsPage    int
	InterestsPerPage int
	RolesPage        int
	RolesPerPage     int
}

// RecommendationsResponse bundles the two independently paginated lists.
type RecommendationsResponse struct {
	ByInterests           []InterestRecommendation `json:"recommendations_by_interests"`
	ByInterestsPagination PaginationMeta           `json:"recommendations_by_interests_pagination"`
	ByRoles               []RoleRecommendation     `json:"recommendations_by_roles"`
	ByRolesPagination     PaginationMeta           `json:"recommendations_by_roles_pagination"`
}
