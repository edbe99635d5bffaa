package dto

import "github.com/villageflow/villageflow-api/internal/models"

// CreateWelfareRequest enrolls a household in an allowance scheme.
type CreateWelfareRequest struct {
	FullName      string               `json:"fullName" validate:"required"`
	NIC           string               `json:"nic" validate:"required"`
	HouseholdNo   string               `json:"householdNo" validate:"required"`
	Scheme        models.WelfareScheme `json:"scheme" validate:"required"`
	Amount        int64                `json:"amount" validate:"omitempty,min=0"`
	MonthlyIncome int64                `json:"monthlyIncome" validate:"omitempty,min=0"`
}

// UpdateWelfareRequest adjusts an existing enrollment. Zero values are
// treated as "leave unchanged" except Status which is explicit.
type UpdateWelfareRequest struct {
	Amount        *int64                `json:"amount" validate:"omitempty,min=0"`
	MonthlyIncome *int64                `json:"monthlyIncome" validate:"omitempty,min=0"`
	Status        *models.WelfareStatus `json:"status"`
}

// WelfareQuery mirrors supported listing filters.
type WelfareQuery struct {
	Scheme    models.WelfareScheme
	Status    models.WelfareStatus
	MaxIncome int64
	Limit     int
	Offset    int
}
