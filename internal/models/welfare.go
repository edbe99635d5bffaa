package models

import "time"

// WelfareScheme enumerates government allowance programmes.
type WelfareScheme string

const (
	SchemeAswasuma         WelfareScheme = "ASWASUMA"
	SchemeSamurdhi         WelfareScheme = "SAMURDHI"
	SchemeElderlyAllowance WelfareScheme = "ELDERLY_ALLOWANCE"
)

// WelfareStatus marks whether a beneficiary currently receives payments.
type WelfareStatus string

const (
	WelfareActive   WelfareStatus = "ACTIVE"
	WelfareInactive WelfareStatus = "INACTIVE"
)

// WelfareBeneficiary is a household enrolled in an allowance scheme.
// Citizens apply with name, NIC and household number; officers fill in
// the granted amount and recorded monthly income.
type WelfareBeneficiary struct {
	ID            string        `db:"id" json:"id"`
	FullName      string        `db:"full_name" json:"full_name"`
	NIC           string        `db:"nic" json:"nic"`
	HouseholdNo   string        `db:"household_no" json:"household_no"`
	Scheme        WelfareScheme `db:"scheme" json:"scheme"`
	Amount        int64         `db:"amount" json:"amount"`
	MonthlyIncome int64         `db:"monthly_income" json:"monthly_income"`
	Status        WelfareStatus `db:"status" json:"status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

// WelfareFilter constrains beneficiary listings.
type WelfareFilter struct {
	Scheme    WelfareScheme
	Status    WelfareStatus
	MaxIncome int64
	Limit     int
	Offset    int
}
