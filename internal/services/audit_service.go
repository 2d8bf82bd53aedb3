package services

import (
	"gorm.io/gorm"

	"pocketplan/internal/logger"
	"pocketplan/internal/models"
)

// auditService records who changed what. Logging is best-effort: a failed
// audit write never fails the operation it describes.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an action against a resource.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{}) {
	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      changes,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Warnw("failed to write audit log",
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
			"error", err,
		)
	}
}
