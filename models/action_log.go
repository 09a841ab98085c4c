package models

import (
	"encoding/json"
	"time"
)

// Common audit action names. Actions are free-form but convention-cased.
const (
	ActionLogin        = "LOGIN"
	ActionLogout       = "LOGOUT"
	ActionEditPatent   = "EDIT_PATENT"
	ActionDeletePatent = "DELETE_PATENT"
	ActionSendEmail    = "SEND_EMAIL"
	ActionImportData   = "IMPORT_DATA"
	ActionExportData   = "EXPORT_DATA"
	ActionManageAccess = "MANAGE_ACCESS"
	ActionAIChat       = "AI_CHAT"
)

// ActionLogEntry is an append-only audit record. Entries are never mutated
// after insertion; retention is handled by the backing store, not here.
type ActionLogEntry struct {
	ID        string          `gorm:"column:id;primaryKey" json:"id"`
	Actor     string          `gorm:"column:actor;index" json:"actor"`
	Action    string          `gorm:"column:action;index" json:"action"`
	Target    string          `gorm:"column:target" json:"target,omitempty"`
	Details   json.RawMessage `gorm:"column:details" json:"details,omitempty"`
	IP        string          `gorm:"column:ip" json:"ip"`
	Country   string          `gorm:"column:country" json:"country,omitempty"`
	Browser   string          `gorm:"column:browser" json:"browser,omitempty"`
	OS        string          `gorm:"column:os" json:"os,omitempty"`
	CreatedAt time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (ActionLogEntry) TableName() string { return "action_logs" }
