package domain

import (
	"time"
)

// AuditAction enumerates recorded workflow actions.
type AuditAction string

const (
	AuditActionCreate  AuditAction = "create"
	AuditActionSubmit  AuditAction = "submit"
	AuditActionApprove AuditAction = "approve"
	AuditActionReject  AuditAction = "reject"
	AuditActionPost    AuditAction = "post"
	AuditActionVoid    AuditAction = "void"
)

// AuditLog records one workflow action against a transaction. The audit
// trail is append-only; voided transactions keep their full history.
type AuditLog struct {
	ID            string
	OrgID         string
	TransactionID string
	Action        AuditAction
	FromStatus    TransactionStatus
	ToStatus      TransactionStatus
	Note          string
	CreatedAt     time.Time
}

// AuditFilter narrows audit log queries.
type AuditFilter struct {
	OrgID         string
	TransactionID string
	Action        AuditAction
	Limit         int
	Offset        int
}
