package services

import (
	"fmt"
	"log"

	"seenaf/database"
	"seenaf/models"
	"seenaf/utils/permissions"
)

// RecordAudit appends an entry to the audit trail. Failures are logged, not
// propagated: the audited action itself has already happened.
func RecordAudit(actorID, action, targetID, detail string) {
	entry := models.AuditEntry{
		ActorID:  actorID,
		Action:   action,
		TargetID: targetID,
		Detail:   detail,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		log.Printf("Failed to record audit entry (%s by %s): %v", action, actorID, err)
	}
}

// ListAuditEntries returns the audit trail, newest first (admin only)
func ListAuditEntries(actor permissions.Actor, limit int) ([]models.AuditEntry, error) {
	if !permissions.IsAdmin(actor) {
		return nil, fmt.Errorf("%w: admin capability required", ErrForbidden)
	}
	if limit <= 0 || limit > 1000 {
		limit = 200
	}

	var entries []models.AuditEntry
	if err := database.DB.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch audit entries: %w", err)
	}
	return entries, nil
}
