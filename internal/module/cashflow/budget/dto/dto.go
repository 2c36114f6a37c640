package dto

// CreateBudgetRequest creates a budget window for one category.
type CreateBudgetRequest struct {
	CategoryID uint    `json:"category_id" binding:"required"`
	CapAmount  float64 `json:"cap_amount" binding:"required,gt=0"`
	StartDate  string  `json:"start_date" binding:"required"` // 2006-01-02
	EndDate    string  `json:"end_date" binding:"required"`   // 2006-01-02
	Frequency  string  `json:"frequency" binding:"required"`
	AutoRenew  bool    `json:"auto_renew"`
}

// UpdateBudgetRequest mutates cap, window, frequency and auto-renew.
type UpdateBudgetRequest struct {
	CapAmount float64 `json:"cap_amount" binding:"required,gt=0"`
	StartDate string  `json:"start_date" binding:"required"`
	EndDate   string  `json:"end_date" binding:"required"`
	Frequency string  `json:"frequency" binding:"required"`
	AutoRenew *bool   `json:"auto_renew"`
}
