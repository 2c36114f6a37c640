package dto

// CreateProjectionRequest stores a recurring income/expense template.
type CreateProjectionRequest struct {
	Name       string  `json:"name" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Type       string  `json:"type" binding:"required"`
	CategoryID uint    `json:"category_id" binding:"required"`
	Frequency  string  `json:"frequency" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"` // 2006-01-02
}

// UpdateProjectionRequest rewrites a template.
type UpdateProjectionRequest struct {
	Name       string  `json:"name" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Type       string  `json:"type" binding:"required"`
	CategoryID uint    `json:"category_id" binding:"required"`
	Frequency  string  `json:"frequency" binding:"required"`
	StartDate  string  `json:"start_date" binding:"required"`
	Active     *bool   `json:"active"`
}
