package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docvault/docvault/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentSortColumns sortable column allow-list
var documentSortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"name":       "name",
	"file_size":  "file_size",
}

// newDocumentEntry build a document record entry from a definition
func (d *databaseImpl) newDocumentEntry(
	params DocumentDefinition, versionNumber int,
) (DocumentRecordDBEntry, error) {
	tags, err := encodeTags(params.Tags)
	if err != nil {
		return DocumentRecordDBEntry{}, err
	}

	return DocumentRecordDBEntry{
		DocumentRecord: models.DocumentRecord{
			ID:               uuid.NewString(),
			OwnerID:          params.OwnerID,
			Name:             params.Name,
			Type:             params.Type,
			Category:         params.Category,
			Status:           models.DocumentStatusUploaded,
			BlobRef:          params.BlobRef,
			FileSize:         params.FileSize,
			MimeType:         params.MimeType,
			VersionNumber:    versionNumber,
			UploadedByClient: params.UploadedByClient,
			IsActive:         true,
			ExpiryDate:       params.ExpiryDate,
			Tags:             tags,
			Description:      params.Description,
		},
	}, nil
}

/*
DefineNewDocument insert a new document record

The record starts at version 1, status UPLOADED, active.

	@param ctx context.Context - execution context
	@param params DocumentDefinition - the new document parameters
	@returns document record entry
*/
func (d *databaseImpl) DefineNewDocument(
	_ context.Context, params DocumentDefinition,
) (models.DocumentRecord, error) {
	if err := d.validator.Struct(&params); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"new document '%s' definition is not valid [%w]", params.Name, err,
		)
	}

	newEntry, err := d.newDocumentEntry(params, 1)
	if err != nil {
		return models.DocumentRecord{}, err
	}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"new document '%s' is not valid [%w]", params.Name, err,
		)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"new document '%s' failed insert [%w]", params.Name, tmp.Error,
		)
	}

	// Record this event
	if _, err := d.defineNewDocumentEvent(
		models.DocumentEventTypeUploaded,
		models.DocumentEventDocumentRelated{
			DocumentID: newEntry.ID, OwnerID: params.OwnerID, DocumentName: params.Name,
		},
	); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to log upload of document '%s' audit event [%w]", params.Name, err,
		)
	}

	return newEntry.DocumentRecord, nil
}

// getDocumentEntry find a document record scoped by (ID, owner)
func (d *databaseImpl) getDocumentEntry(
	ownerID string, documentID string,
) (DocumentRecordDBEntry, error) {
	var entry DocumentRecordDBEntry
	err := d.db.Where("id = ? AND owner_id = ?", documentID, ownerID).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entry, models.NewNotFoundError(
			"document %s not found for owner %s", documentID, ownerID,
		)
	}
	return entry, err
}

/*
GetDocument fetch a document record scoped by (ID, owner)

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@returns document record entry
*/
func (d *databaseImpl) GetDocument(
	_ context.Context, ownerID string, documentID string,
) (models.DocumentRecord, error) {
	entry, err := d.getDocumentEntry(ownerID, documentID)
	if err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to fetch document %s [%w]", documentID, err,
		)
	}

	return entry.DocumentRecord, nil
}

/*
ListDocuments list an owner's document records with structured filters

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param filters DocumentQueryFilter - entry listing filter
	@return page of records, and the total match count before pagination
*/
func (d *databaseImpl) ListDocuments(
	_ context.Context, ownerID string, filters DocumentQueryFilter,
) ([]models.DocumentRecord, int64, error) {
	query := d.db.Model(&DocumentRecordDBEntry{}).Where("owner_id = ?", ownerID)

	if !filters.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if len(filters.Types) > 0 {
		query = query.Where("type in ?", filters.Types)
	}
	if len(filters.Categories) > 0 {
		query = query.Where("category in ?", filters.Categories)
	}
	if len(filters.Statuses) > 0 {
		query = query.Where("status in ?", filters.Statuses)
	}
	if filters.UploadedByClient != nil {
		query = query.Where("uploaded_by_client = ?", *filters.UploadedByClient)
	}

	var total int64
	if tmp := query.Count(&total); tmp.Error != nil {
		return nil, 0, fmt.Errorf("failed to count matching documents [%w]", tmp.Error)
	}

	if filters.Limit != nil {
		query = query.Limit(*filters.Limit)
	}
	if filters.Offset != nil {
		query = query.Offset(*filters.Offset)
	}

	column, ok := documentSortColumns[filters.SortField]
	if !ok {
		column = "created_at"
	}
	direction := "desc"
	if filters.SortAscending {
		direction = "asc"
	}
	query = query.Order(fmt.Sprintf("%s %s", column, direction))

	var entries []DocumentRecordDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, 0, fmt.Errorf("failed to list documents [%w]", tmp.Error)
	}

	result := []models.DocumentRecord{}
	for _, entry := range entries {
		result = append(result, entry.DocumentRecord)
	}

	return result, total, nil
}

/*
SearchDocuments fetch all of an owner's records matching a free-text term

The term is matched case-insensitively as a substring of the document name,
description, and tag membership.

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param term string - free-text search term
	@param includeInactive bool - also search replaced / archived records
	@return all matching records
*/
func (d *databaseImpl) SearchDocuments(
	_ context.Context, ownerID string, term string, includeInactive bool,
) ([]models.DocumentRecord, error) {
	query := d.db.Model(&DocumentRecordDBEntry{}).Where("owner_id = ?", ownerID)
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	query = query.Order("created_at desc")

	var entries []DocumentRecordDBEntry
	if tmp := query.Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf("failed to search documents [%w]", tmp.Error)
	}

	// Tag membership can't be matched in SQL against the JSON column, so the
	// candidate set is filtered here.
	needle := strings.ToLower(term)
	result := []models.DocumentRecord{}
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), needle) ||
			strings.Contains(strings.ToLower(entry.Description), needle) {
			result = append(result, entry.DocumentRecord)
			continue
		}

		tags, err := entry.TagList()
		if err != nil {
			return nil, fmt.Errorf("failed to search documents [%w]", err)
		}
		for _, tag := range tags {
			if strings.Contains(strings.ToLower(tag), needle) {
				result = append(result, entry.DocumentRecord)
				break
			}
		}
	}

	return result, nil
}

/*
ReplaceDocument supersede a document record with a new version

Deactivates the predecessor via a guarded update (active records only) and
inserts the successor at version predecessor+1. Run this within a transaction
so both mutations apply as one unit.

	@param ctx context.Context - execution context
	@param predecessor models.DocumentRecord - the record being replaced
	@param params DocumentDefinition - the replacement document parameters
	@returns the successor record entry
*/
func (d *databaseImpl) ReplaceDocument(
	_ context.Context, predecessor models.DocumentRecord, params DocumentDefinition,
) (models.DocumentRecord, error) {
	if err := d.validator.Struct(&params); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"replacement document '%s' definition is not valid [%w]", params.Name, err,
		)
	}

	// Deactivate the predecessor. The is_active guard doubles as the
	// compare-and-swap against a concurrent replacement of the same record.
	tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where(
			"id = ? AND owner_id = ? AND is_active = ?",
			predecessor.ID, predecessor.OwnerID, true,
		).
		Updates(map[string]interface{}{
			"is_active":  false,
			"status":     models.DocumentStatusReplaced,
			"updated_at": time.Now().UTC(),
		})
	if tmp.Error != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to deactivate document %s [%w]", predecessor.ID, tmp.Error,
		)
	}
	if tmp.RowsAffected == 0 {
		return models.DocumentRecord{}, models.NewConflictError(
			"document %s is no longer the active version", predecessor.ID,
		)
	}

	newEntry, err := d.newDocumentEntry(params, predecessor.VersionNumber+1)
	if err != nil {
		return models.DocumentRecord{}, err
	}

	if err := d.validator.Struct(&newEntry); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"replacement for document %s is not valid [%w]", predecessor.ID, err,
		)
	}

	if tmp := d.db.Create(&newEntry); tmp.Error != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"replacement for document %s failed insert [%w]", predecessor.ID, tmp.Error,
		)
	}

	// Record this event
	if _, err := d.defineNewDocumentEvent(
		models.DocumentEventTypeReplaced,
		models.DocumentEventReplaceRelated{
			PredecessorID: predecessor.ID,
			SuccessorID:   newEntry.ID,
			OwnerID:       predecessor.OwnerID,
			VersionNumber: newEntry.VersionNumber,
		},
	); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to log replacement of document %s audit event [%w]", predecessor.ID, err,
		)
	}

	return newEntry.DocumentRecord, nil
}

/*
ArchiveDocument soft delete a document record

Idempotent: archiving an already archived record is a no-op success.

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@returns the archived record entry
*/
func (d *databaseImpl) ArchiveDocument(
	_ context.Context, ownerID string, documentID string,
) (models.DocumentRecord, error) {
	entry, err := d.getDocumentEntry(ownerID, documentID)
	if err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to fetch document %s [%w]", documentID, err,
		)
	}

	if entry.Status == models.DocumentStatusArchived {
		return entry.DocumentRecord, nil
	}

	if err := entry.ValidateNextState(models.DocumentStatusArchived); err != nil {
		return models.DocumentRecord{}, models.NewConflictError(
			"document %s cannot be archived from state %s", documentID, entry.Status,
		)
	}

	tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where("id = ? AND owner_id = ?", documentID, ownerID).
		Updates(map[string]interface{}{
			"is_active":  false,
			"status":     models.DocumentStatusArchived,
			"updated_at": time.Now().UTC(),
		})
	if tmp.Error != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to archive document %s [%w]", documentID, tmp.Error,
		)
	}

	// Record this event
	if _, err := d.defineNewDocumentEvent(
		models.DocumentEventTypeArchived,
		models.DocumentEventDocumentRelated{
			DocumentID: entry.ID, OwnerID: ownerID, DocumentName: entry.Name,
		},
	); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to log archive of document %s audit event [%w]", documentID, err,
		)
	}

	entry.Status = models.DocumentStatusArchived
	entry.IsActive = false
	return entry.DocumentRecord, nil
}

/*
SetDocumentStatus transition a document along the review path

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@param newStatus models.DocumentStatusENUMType - the target status
	@returns the updated record entry
*/
func (d *databaseImpl) SetDocumentStatus(
	_ context.Context,
	ownerID string,
	documentID string,
	newStatus models.DocumentStatusENUMType,
) (models.DocumentRecord, error) {
	entry, err := d.getDocumentEntry(ownerID, documentID)
	if err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to fetch document %s [%w]", documentID, err,
		)
	}

	if entry.Status == newStatus {
		// NOOP
		return entry.DocumentRecord, nil
	}

	if err := entry.ValidateNextState(newStatus); err != nil {
		return models.DocumentRecord{}, models.NewConflictError(
			"document %s cannot move from %s to %s", documentID, entry.Status, newStatus,
		)
	}

	oldStatus := entry.Status
	tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where("id = ? AND owner_id = ? AND status = ?", documentID, ownerID, oldStatus).
		Updates(map[string]interface{}{
			"status":     newStatus,
			"updated_at": time.Now().UTC(),
		})
	if tmp.Error != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to update document %s status [%w]", documentID, tmp.Error,
		)
	}
	if tmp.RowsAffected == 0 {
		return models.DocumentRecord{}, models.NewConflictError(
			"document %s status changed concurrently", documentID,
		)
	}

	// Record this event
	if _, err := d.defineNewDocumentEvent(
		models.DocumentEventTypeStatusChange,
		models.DocumentEventStatusRelated{
			DocumentID: entry.ID, OwnerID: ownerID, FromStatus: oldStatus, ToStatus: newStatus,
		},
	); err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to log status change of document %s audit event [%w]", documentID, err,
		)
	}

	entry.Status = newStatus
	return entry.DocumentRecord, nil
}

/*
RecordDocumentAccess note a read / download against a document record

Increments the access count by one and advances the last-accessed timestamp.
The increment is applied as a SQL expression so concurrent reads do not lose
updates.

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
*/
func (d *databaseImpl) RecordDocumentAccess(
	_ context.Context, ownerID string, documentID string,
) error {
	tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where("id = ? AND owner_id = ?", documentID, ownerID).
		Updates(map[string]interface{}{
			"access_count":     gorm.Expr("access_count + 1"),
			"last_accessed_at": time.Now().UTC(),
		})
	if tmp.Error != nil {
		return fmt.Errorf(
			"failed to record access of document %s [%w]", documentID, tmp.Error,
		)
	}
	if tmp.RowsAffected == 0 {
		return models.NewNotFoundError("document %s not found for owner %s", documentID, ownerID)
	}
	return nil
}
