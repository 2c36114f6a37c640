package dto

import "time"

// CreateTransactionRequest creates one ledger entry.
type CreateTransactionRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"required"` // 2006-01-02
}

// UpdateTransactionRequest rewrites an entry. Category and type changes
// are allowed and re-settle the affected budgets.
type UpdateTransactionRequest struct {
	CategoryID  uint    `json:"category_id" binding:"required"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required"`
	Description string  `json:"description"`
	Date        string  `json:"date" binding:"required"`
}

// TransactionResponse is an entry enriched with its category.
type TransactionResponse struct {
	ID           uint      `json:"id"`
	CategoryID   uint      `json:"category_id"`
	CategoryName string    `json:"category_name"`
	CategoryIcon string    `json:"category_icon"`
	Amount       float64   `json:"amount"`
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Date         string    `json:"date"`
	ProjectionID *uint     `json:"projection_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// SummaryResponse aggregates a user's ledger.
type SummaryResponse struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Balance      float64 `json:"balance"`
	Count        int64   `json:"count"`
}

// BalanceResponse carries the running balance.
type BalanceResponse struct {
	Balance float64 `json:"balance"`
}
