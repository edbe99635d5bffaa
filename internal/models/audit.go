package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin              = "LOGIN"
	AuditActionLogout             = "LOGOUT"
	AuditActionProxyRegister      = "PROXY_REGISTER"
	AuditActionApplicationSubmit  = "APPLICATION_SUBMIT"
	AuditActionApplicationEdit    = "APPLICATION_EDIT"
	AuditActionApplicationDelete  = "APPLICATION_DELETE"
	AuditActionApplicationApprove = "APPLICATION_APPROVED"
	AuditActionApplicationReject  = "APPLICATION_REJECTED"
	AuditActionWelfareChange      = "WELFARE_CHANGE"
	AuditActionAssetChange        = "ASSET_CHANGE"
)

// AuditEntry is an append-only audit trail record. Entries are never
// updated or deleted once written.
type AuditEntry struct {
	ID         string    `db:"id" json:"id"`
	ActorID    *string   `db:"actor_id" json:"actor_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	SubjectNIC string    `db:"subject_nic" json:"subject_nic"`
	Detail     []byte    `db:"detail" json:"detail,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter constrains audit log listing.
type AuditFilter struct {
	Action   string
	ActorID  string
	Resource string
	Limit    int
	Offset   int
}
