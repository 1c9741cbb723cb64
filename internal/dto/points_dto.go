package dto

import (
	"time"

	"github.com/nursultan-dev/campus-hub-api/internal/models"
)

// PointCategoryResponse serializes a reward/penalty category.
type PointCategoryResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Points    int    `json:"points"`
	IsPenalty bool   `json:"is_penalty"`
	IsCustom  bool   `json:"is_custom"`
	IsActive  bool   `json:"is_active"`
}

// PointCategoryCreateRequest captures new reward/penalty categories.
type PointCategoryCreateRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Points    int    `json:"points"`
	IsPenalty bool   `json:"is_penalty"`
	IsCustom  bool   `json:"is_custom"`
}

// PointCategoryUpdateRequest allows patching category metadata.
type PointCategoryUpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Points   *int    `json:"points"`
	IsActive *bool   `json:"is_active"`
}

// PointTransactionCreateRequest captures a reward or penalty grant.
// Points is required only when the category is custom.
type PointTransactionCreateRequest struct {
	CategoryID  uint   `json:"category_id" validate:"required"`
	Points      *int   `json:"points"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

// PointTransactionResponse serializes a ledger entry.
type PointTransactionResponse struct {
	ID          uint      `json:"id"`
	StudentID   uint      `json:"student_id"`
	CategoryID  uint      `json:"category_id"`
	Points      int       `json:"points"`
	SomEarned   int       `json:"som_earned"`
	Description string    `json:"description"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// BalanceResponse carries a student's materialized balances.
type BalanceResponse struct {
	TotalPoints int `json:"total_points"`
	TotalSom    int `json:"total_som"`
}

// PointGrantResponse is returned after a transaction is applied.
type PointGrantResponse struct {
	Transaction PointTransactionResponse `json:"transaction"`
	Balance     BalanceResponse          `json:"balance"`
}

// LedgerResponse wraps a student's paginated transaction history.
type LedgerResponse struct {
	Transactions []PointTransactionResponse `json:"transactions"`
	Pagination   PaginationMeta             `json:"pagination"`
	Balance      BalanceResponse            `json:"balance"`
}

// NewPointCategoryResponse converts a category model into a DTO.
func NewPointCategoryResponse(category models.PointCategory) PointCategoryResponse {
	return PointCategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Points:    category.Points,
		IsPenalty: category.IsPenalty,
		IsCustom:  category.IsCustom,
		IsActive:  category.IsActive,
	}
}

// NewPointTransactionResponse converts a ledger entry into a DTO.
func NewPointTransactionResponse(tx models.PointTransaction) PointTransactionResponse {
	return PointTransactionResponse{
		ID:          tx.ID,
		StudentID:   tx.StudentID,
		CategoryID:  tx.CategoryID,
		Points:      tx.Points,
		SomEarned:   tx.SomEarned,
		Description: tx.Description,
		CreatedBy:   tx.CreatedBy,
		CreatedAt:   tx.CreatedAt,
	}
}
