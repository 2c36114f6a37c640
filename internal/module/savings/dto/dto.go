package dto

// CreateGoalRequest creates a savings goal; frequency plus deadline also
// generates the installment plan.
type CreateGoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0"`
	StartDate    string  `json:"start_date" binding:"required"` // 2006-01-02
	Deadline     string  `json:"deadline"`
	Frequency    string  `json:"frequency"`
	Icon         string  `json:"icon"`
	Color        string  `json:"color"`
}

// UpdateGoalRequest mutates goal presentation and lifecycle fields.
type UpdateGoalRequest struct {
	Name         string  `json:"name" binding:"required"`
	TargetAmount float64 `json:"target_amount" binding:"required,gt=0"`
	Icon         string  `json:"icon"`
	Color        string  `json:"color"`
	State        string  `json:"state"`
}

// ContributeRequest adds money to a goal, optionally settling one
// installment.
type ContributeRequest struct {
	GoalID        uint    `json:"goal_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Description   string  `json:"description"`
	InstallmentID *uint   `json:"installment_id"`
}

// UpdateContributionRequest changes amount and description only.
type UpdateContributionRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}
