// Package db - persistence layer
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/docvault/docvault/models"
	"github.com/oklog/ulid/v2"
	"gorm.io/datatypes"
)

// defineNewDocumentEvent record a new document lifecycle event
func (d *databaseImpl) defineNewDocumentEvent(
	eventType models.DocumentEventTypeENUMType, metadata interface{},
) (models.DocumentEventAudit, error) {

	newEntry := DocumentEventAuditDBEntry{
		DocumentEventAudit: models.DocumentEventAudit{ID: ulid.Make().String(), EventType: eventType},
	}

	if metadata != nil {
		if err := d.validator.Struct(metadata); err != nil {
			return models.DocumentEventAudit{}, fmt.Errorf(
				"new document event '%s' metadata entry is not valid [%w]", eventType, err,
			)
		}

		metadataStr, _ := json.Marshal(&metadata)
		newEntry.Metadata = datatypes.JSON(metadataStr)
	}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.DocumentEventAudit{}, fmt.Errorf(
			"new document event '%s' entry is not valid [%w]", eventType, err,
		)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.DocumentEventAudit{}, fmt.Errorf(
			"new document event '%s' insert failed [%w]", eventType, tmp.Error,
		)
	}

	return newEntry.DocumentEventAudit, nil
}

/*
ListDocumentEvents list captured document lifecycle events

	@param ctx context.Context - execution context
	@param filters DocumentEventQueryFilter - entry listing filter
	@return list of document events
*/
func (d *databaseImpl) ListDocumentEvents(
	_ context.Context, filters DocumentEventQueryFilter,
) ([]models.DocumentEventAudit, error) {
	query := d.db.Model(&DocumentEventAuditDBEntry{})

	if len(filters.EventTypes) > 0 {
		query = query.Where("type in ?", filters.EventTypes)
	}

	if filters.EventsAfter != nil {
		query = query.Where("created_at >= ?", *filters.EventsAfter)
	}
	if filters.EventsBefore != nil {
		query = query.Where("created_at <= ?", *filters.EventsBefore)
	}

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	}
	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	query = query.Order("created_at")

	var entries []DocumentEventAuditDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf("failed to list captured document events [%w]", tmp.Error)
	}

	result := []models.DocumentEventAudit{}
	for _, entry := range entries {
		result = append(result, entry.DocumentEventAudit)
	}

	return result, nil
}
