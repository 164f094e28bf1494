package models

import (
	"encoding/json"
	"time"
)

// AuditLog records one moderation or administrative action.
type AuditLog struct {
	ID         string          `json:"id" db:"id"`
	ActorID    string          `json:"actorId" db:"actor_id"`
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entityType" db:"entity_type"`
	EntityID   string          `json:"entityId" db:"entity_id"`
	Details    json.RawMessage `json:"details,omitempty" db:"details"`
	IPAddress  *string         `json:"ipAddress,omitempty" db:"ip_address"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Audit actions
const (
	AuditActionApprove = "approve"
	AuditActionReject  = "reject"
	AuditActionRestore = "restore_head"
)
