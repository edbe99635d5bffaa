package models

import "time"

// AssetCondition reflects the last recorded physical state of an asset.
type AssetCondition string

const (
	ConditionGood       AssetCondition = "GOOD"
	ConditionNeedRepair AssetCondition = "NEED_REPAIR"
	ConditionDamaged    AssetCondition = "DAMAGED"
)

// Asset is a village-owned item tracked by the Grama Niladhari office.
// HealthScore is derived, never stored.
type Asset struct {
	ID              string         `db:"id" json:"id"`
	ItemName        string         `db:"item_name" json:"item_name"`
	Quantity        int            `db:"quantity" json:"quantity"`
	Condition       AssetCondition `db:"condition" json:"condition"`
	LastServiceDate time.Time      `db:"last_service_date" json:"last_service_date"`
	CreatedBy       string         `db:"created_by" json:"created_by"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
	HealthScore     int            `db:"-" json:"health_score"`
}
