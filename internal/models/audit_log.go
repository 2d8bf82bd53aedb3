package models

// AuditLog records a mutating API action for traceability. Changes holds a
// small JSON map of the fields involved; writes are best-effort and never
// block the request that triggered them.
type AuditLog struct {
	Base
	UserID       uint                   `gorm:"index" json:"user_id"`
	Action       string                 `gorm:"size:50;not null" json:"action"`
	ResourceType string                 `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   uint                   `json:"resource_id"`
	IPAddress    string                 `gorm:"size:45" json:"ip_address"`
	Changes      map[string]interface{} `gorm:"serializer:json" json:"changes,omitempty"`
}
