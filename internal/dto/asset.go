package dto

import (
	"time"

	"github.com/villageflow/villageflow-api/internal/models"
)

// CreateAssetRequest registers a village asset.
type CreateAssetRequest struct {
	ItemName        string                `json:"itemName" validate:"required"`
	Quantity        int                   `json:"quantity" validate:"required,min=1"`
	Condition       models.AssetCondition `json:"condition" validate:"required"`
	LastServiceDate time.Time             `json:"lastServiceDate" validate:"required"`
}

// UpdateAssetRequest edits an asset record.
type UpdateAssetRequest struct {
	ItemName        string                `json:"itemName"`
	Quantity        *int                  `json:"quantity" validate:"omitempty,min=1"`
	Condition       models.AssetCondition `json:"condition"`
	LastServiceDate *time.Time            `json:"lastServiceDate"`
}
