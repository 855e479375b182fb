// Package store - document repository controllers
package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/docvault/docvault/blob"
	"github.com/docvault/docvault/db"
	"github.com/docvault/docvault/models"
)

// DefaultHistoryLookbackDays default lookback window for GetHistory
const DefaultHistoryLookbackDays = 30

// DefaultPageSize default listing page size
const DefaultPageSize = 20

// ListRequest document listing parameters
type ListRequest struct {
	// Types restrict to these document types
	Types []models.DocumentTypeENUMType
	// Categories restrict to these document categories
	Categories []models.DocumentCategoryENUMType
	// Statuses restrict to these document statuses
	Statuses []models.DocumentStatusENUMType
	// UploadedByClient filter on client-uploaded vs system-issued documents
	UploadedByClient *bool
	// IncludeInactive also return replaced / archived records
	IncludeInactive bool
	// SearchTerm free-text search over name, description, and tag membership.
	// A non-empty term bypasses the structured filters above.
	SearchTerm string
	// Page 1-based page number
	Page int
	// PageSize entries per page
	PageSize int
	// SortField sort column for structured listings. One of created_at,
	// updated_at, name, file_size.
	SortField string
	// SortAscending sort direction. Defaults to descending.
	SortAscending bool
}

// DocumentPage one page of listed documents plus the owner's aggregates
type DocumentPage struct {
	// Documents the page of matching records
	Documents []models.DocumentRecord `json:"documents"`
	// Total match count before pagination
	Total int64 `json:"total"`
	// Page 1-based page number
	Page int `json:"page"`
	// PageSize entries per page
	PageSize int `json:"page_size"`
	// Statistics the owner's aggregate statistics
	Statistics models.DocumentStatistics `json:"statistics"`
	// TypeBreakdown active document counts keyed by type display label
	TypeBreakdown map[string]int64 `json:"type_breakdown"`
	// CategoryBreakdown active document counts keyed by category display label
	CategoryBreakdown map[string]int64 `json:"category_breakdown"`
	// StatusBreakdown active document counts keyed by status display label
	StatusBreakdown map[string]int64 `json:"status_breakdown"`
}

// DocumentDownload a downloaded document artifact
type DocumentDownload struct {
	// Content the artifact bytes. Caller closes.
	Content io.ReadCloser
	// MimeType artifact MIME type captured at upload
	MimeType string
	// FileName the document display name
	FileName string
	// Record the underlying document record
	Record models.DocumentRecord
}

/*
DocumentRepository the per-client document repository.

Every operation is scoped by the caller-supplied owner (client) identity;
there is no cross-owner visibility. Reads by ID count as document accesses and
are persisted before the result is returned.
*/
type DocumentRepository interface {
	/*
		ListDocuments list an owner's documents with filters and pagination

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param request ListRequest - filters, pagination, and sorting
			@param activeDBClient db.Database - existing database transaction
			@returns page of records plus statistics and breakdowns
	*/
	ListDocuments(
		ctx context.Context, ownerID string, request ListRequest, activeDBClient db.Database,
	) (DocumentPage, error)

	/*
		GetDocument fetch one document record. Counts as an access.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@param activeDBClient db.Database - existing database transaction
			@returns the record
	*/
	GetDocument(
		ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		DownloadDocument fetch a document's artifact bytes. Counts as an access.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@param activeDBClient db.Database - existing database transaction
			@returns artifact content, MIME type, and file name
	*/
	DownloadDocument(
		ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
	) (DocumentDownload, error)

	/*
		UploadDocument accept a new client-uploaded document

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param request UploadRequest - the proposed upload
			@param activeDBClient db.Database - existing database transaction
			@returns the new record at version 1
	*/
	UploadDocument(
		ctx context.Context, ownerID string, request UploadRequest, activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		UploadSystemDocument accept a system-issued document for an owner

		The resulting record rejects client delete and replace requests.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param request UploadRequest - the proposed upload
			@param activeDBClient db.Database - existing database transaction
			@returns the new record at version 1
	*/
	UploadSystemDocument(
		ctx context.Context, ownerID string, request UploadRequest, activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		ReplaceDocument supersede an existing document with a new version

		The new record and the predecessor deactivation apply as one unit; at
		most one version of the chain is ever observable as active.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param predecessorID string - the record being replaced
			@param request UploadRequest - the replacement upload
			@param activeDBClient db.Database - existing database transaction
			@returns the new active record
	*/
	ReplaceDocument(
		ctx context.Context,
		ownerID string,
		predecessorID string,
		request UploadRequest,
		activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		DeleteDocument soft delete a document

		The record is archived and drops out of default listings and
		statistics, but stays retrievable by ID for audit purposes. Deleting
		an already archived document is a no-op success.

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@param activeDBClient db.Database - existing database transaction
			@returns the archived record
	*/
	DeleteDocument(
		ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		GetStatistics compute aggregate statistics over an owner's active
		documents

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param activeDBClient db.Database - existing database transaction
			@returns the aggregate statistics
	*/
	GetStatistics(
		ctx context.Context, ownerID string, activeDBClient db.Database,
	) (models.DocumentStatistics, error)

	/*
		GetCategories list every declared type and category value with the
		owner's current document counts, including zero-count values

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param activeDBClient db.Database - existing database transaction
			@returns the enumeration catalogue
	*/
	GetCategories(
		ctx context.Context, ownerID string, activeDBClient db.Database,
	) (models.DocumentCatalogue, error)

	/*
		GetHistory list an owner's documents uploaded within the lookback
		window

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param lookbackDays int - window size in days; defaults to 30 when <= 0
			@param activeDBClient db.Database - existing database transaction
			@returns recently uploaded records
	*/
	GetHistory(
		ctx context.Context, ownerID string, lookbackDays int, activeDBClient db.Database,
	) ([]models.DocumentRecord, error)

	/*
		MarkUnderReview move a document from UPLOADED to UNDER_REVIEW

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@param activeDBClient db.Database - existing database transaction
			@returns the updated record
	*/
	MarkUnderReview(
		ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		MarkApproved move a document from UNDER_REVIEW to APPROVED

			@param ctx context.Context - execution context
			@param ownerID string - the owning client
			@param documentID string - document record ID
			@param activeDBClient db.Database - existing database transaction
			@returns the updated record
	*/
	MarkApproved(
		ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
	) (models.DocumentRecord, error)

	/*
		ListAuditEvents list captured document lifecycle events

			@param ctx context.Context - execution context
			@param filters db.DocumentEventQueryFilter - entry listing filter
			@param activeDBClient db.Database - existing database transaction
			@returns list of document events
	*/
	ListAuditEvents(
		ctx context.Context, filters db.DocumentEventQueryFilter, activeDBClient db.Database,
	) ([]models.DocumentEventAudit, error)
}

// documentRepository implements DocumentRepository
type documentRepository struct {
	goutils.Component

	persistence db.Client

	blobs blob.Store

	validation ValidationEngine
}

/*
NewDocumentRepository define a new document repository

	@param ctx context.Context - execution context
	@param persistence db.Client - persistence layer client
	@param blobs blob.Store - artifact storage
	@param validation ValidationEngine - upload validation engine
	@returns repository instance
*/
func NewDocumentRepository(
	_ context.Context, persistence db.Client, blobs blob.Store, validation ValidationEngine,
) (DocumentRepository, error) {
	logTags := log.Fields{"package": "docvault", "module": "store", "component": "document-repository"}

	instance := &documentRepository{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		persistence: persistence,
		blobs:       blobs,
		validation:  validation,
	}

	return instance, nil
}

// uploadDocument shared core of UploadDocument and UploadSystemDocument
func (r *documentRepository) uploadDocument(
	ctx context.Context,
	ownerID string,
	request UploadRequest,
	uploadedByClient bool,
	activeDBClient db.Database,
) (models.DocumentRecord, error) {
	if ownerID == "" {
		return models.DocumentRecord{}, models.NewNotFoundError("no owner given")
	}
	if err := r.validation.ValidateUpload(request); err != nil {
		return models.DocumentRecord{}, err
	}

	// Blob first. The metadata record only commits after the artifact is
	// durable, so a storage failure here leaves no record behind.
	saved, err := r.blobs.Save(ctx, ownerID, request.FileName, bytes.NewReader(request.Content))
	if err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to store artifact of document '%s' [%w]", request.Name, err,
		)
	}

	var newRecord models.DocumentRecord
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			newRecord, err = dbClient.DefineNewDocument(dbCtx, db.DocumentDefinition{
				OwnerID:          ownerID,
				Name:             request.Name,
				Type:             request.Type,
				Category:         request.Category,
				BlobRef:          saved.Ref,
				FileSize:         saved.Size,
				MimeType:         request.MimeType,
				UploadedByClient: uploadedByClient,
				ExpiryDate:       request.ExpiryDate,
				Tags:             request.Tags,
				Description:      request.Description,
			})
			return err
		},
	); dbErr != nil {
		// The metadata never committed; reclaim the artifact now instead of
		// leaving it for out-of-band cleanup.
		if rmErr := r.blobs.Remove(ctx, saved.Ref); rmErr != nil {
			log.WithError(rmErr).WithFields(r.LogTags).
				WithField("blob_ref", saved.Ref).
				Warn("Orphaned artifact cleanup failed")
		}
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to record document '%s' [%w]", request.Name, dbErr,
		)
	}

	return newRecord, nil
}

/*
UploadDocument accept a new client-uploaded document

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param request UploadRequest - the proposed upload
	@param activeDBClient db.Database - existing database transaction
	@returns the new record at version 1
*/
func (r *documentRepository) UploadDocument(
	ctx context.Context, ownerID string, request UploadRequest, activeDBClient db.Database,
) (models.DocumentRecord, error) {
	return r.uploadDocument(ctx, ownerID, request, true, activeDBClient)
}

/*
UploadSystemDocument accept a system-issued document for an owner

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param request UploadRequest - the proposed upload
	@param activeDBClient db.Database - existing database transaction
	@returns the new record at version 1
*/
func (r *documentRepository) UploadSystemDocument(
	ctx context.Context, ownerID string, request UploadRequest, activeDBClient db.Database,
) (models.DocumentRecord, error) {
	return r.uploadDocument(ctx, ownerID, request, false, activeDBClient)
}

/*
ReplaceDocument supersede an existing document with a new version

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param predecessorID string - the record being replaced
	@param request UploadRequest - the replacement upload
	@param activeDBClient db.Database - existing database transaction
	@returns the new active record
*/
func (r *documentRepository) ReplaceDocument(
	ctx context.Context,
	ownerID string,
	predecessorID string,
	request UploadRequest,
	activeDBClient db.Database,
) (models.DocumentRecord, error) {
	// Validation is identical to a fresh upload
	if err := r.validation.ValidateUpload(request); err != nil {
		return models.DocumentRecord{}, err
	}

	// Authorization precheck before touching storage
	var predecessor models.DocumentRecord
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			predecessor, err = dbClient.GetDocument(dbCtx, ownerID, predecessorID)
			return err
		},
	); dbErr != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to find document %s to replace [%w]", predecessorID, dbErr,
		)
	}
	if !predecessor.UploadedByClient {
		return models.DocumentRecord{}, models.NewForbiddenError(
			"document %s is system issued and cannot be replaced", predecessorID,
		)
	}

	saved, err := r.blobs.Save(ctx, ownerID, request.FileName, bytes.NewReader(request.Content))
	if err != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to store replacement artifact of document %s [%w]", predecessorID, err,
		)
	}

	// Predecessor deactivation and successor insert apply as one unit
	var successor models.DocumentRecord
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			successor, err = dbClient.ReplaceDocument(dbCtx, predecessor, db.DocumentDefinition{
				OwnerID:          ownerID,
				Name:             request.Name,
				Type:             request.Type,
				Category:         request.Category,
				BlobRef:          saved.Ref,
				FileSize:         saved.Size,
				MimeType:         request.MimeType,
				UploadedByClient: true,
				ExpiryDate:       request.ExpiryDate,
				Tags:             request.Tags,
				Description:      request.Description,
			})
			return err
		},
	); dbErr != nil {
		if rmErr := r.blobs.Remove(ctx, saved.Ref); rmErr != nil {
			log.WithError(rmErr).WithFields(r.LogTags).
				WithField("blob_ref", saved.Ref).
				Warn("Orphaned artifact cleanup failed")
		}
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to replace document %s [%w]", predecessorID, dbErr,
		)
	}

	return successor, nil
}

/*
GetDocument fetch one document record. Counts as an access.

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@param activeDBClient db.Database - existing database transaction
	@returns the record
*/
func (r *documentRepository) GetDocument(
	ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
) (models.DocumentRecord, error) {
	var record models.DocumentRecord

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			// The access must be durable before the record is handed back
			if err := dbClient.RecordDocumentAccess(dbCtx, ownerID, documentID); err != nil {
				return err
			}

			var err error
			record, err = dbClient.GetDocument(dbCtx, ownerID, documentID)
			return err
		},
	); dbErr != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to fetch document %s [%w]", documentID, dbErr,
		)
	}

	return record, nil
}

/*
DownloadDocument fetch a document's artifact bytes. Counts as an access.

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@param activeDBClient db.Database - existing database transaction
	@returns artifact content, MIME type, and file name
*/
func (r *documentRepository) DownloadDocument(
	ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
) (DocumentDownload, error) {
	record, err := r.GetDocument(ctx, ownerID, documentID, activeDBClient)
	if err != nil {
		return DocumentDownload{}, err
	}

	content, err := r.blobs.Open(ctx, record.BlobRef)
	if err != nil {
		return DocumentDownload{}, fmt.Errorf(
			"failed to open artifact of document %s [%w]", documentID, err,
		)
	}

	return DocumentDownload{
		Content:  content,
		MimeType: record.MimeType,
		FileName: record.Name,
		Record:   record,
	}, nil
}

/*
DeleteDocument soft delete a document

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@param activeDBClient db.Database - existing database transaction
	@returns the archived record
*/
func (r *documentRepository) DeleteDocument(
	ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
) (models.DocumentRecord, error) {
	var archived models.DocumentRecord

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			record, err := dbClient.GetDocument(dbCtx, ownerID, documentID)
			if err != nil {
				return err
			}

			if !record.UploadedByClient {
				return models.NewForbiddenError(
					"document %s is system issued and cannot be deleted", documentID,
				)
			}

			archived, err = dbClient.ArchiveDocument(dbCtx, ownerID, documentID)
			return err
		},
	); dbErr != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to delete document %s [%w]", documentID, dbErr,
		)
	}

	return archived, nil
}

/*
ListDocuments list an owner's documents with filters and pagination

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param request ListRequest - filters, pagination, and sorting
	@param activeDBClient db.Database - existing database transaction
	@returns page of records plus statistics and breakdowns
*/
func (r *documentRepository) ListDocuments(
	ctx context.Context, ownerID string, request ListRequest, activeDBClient db.Database,
) (DocumentPage, error) {
	page := request.Page
	if page < 1 {
		page = 1
	}
	pageSize := request.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	result := DocumentPage{Page: page, PageSize: pageSize}

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error

			if request.SearchTerm != "" {
				// Search path: select everything matching first, then page the
				// result set in memory
				matched, err := dbClient.SearchDocuments(
					dbCtx, ownerID, request.SearchTerm, request.IncludeInactive,
				)
				if err != nil {
					return err
				}

				result.Total = int64(len(matched))
				start := (page - 1) * pageSize
				if start > len(matched) {
					start = len(matched)
				}
				end := start + pageSize
				if end > len(matched) {
					end = len(matched)
				}
				result.Documents = matched[start:end]
			} else {
				limit := pageSize
				offset := (page - 1) * pageSize
				result.Documents, result.Total, err = dbClient.ListDocuments(
					dbCtx, ownerID, db.DocumentQueryFilter{
						CommonListEntryQueryFilter: db.CommonListEntryQueryFilter{
							Limit: &limit, Offset: &offset,
						},
						Types:            request.Types,
						Categories:       request.Categories,
						Statuses:         request.Statuses,
						UploadedByClient: request.UploadedByClient,
						IncludeInactive:  request.IncludeInactive,
						SortField:        request.SortField,
						SortAscending:    request.SortAscending,
					},
				)
				if err != nil {
					return err
				}
			}

			result.Statistics, err = dbClient.GetDocumentStatistics(dbCtx, ownerID)
			if err != nil {
				return err
			}
			result.TypeBreakdown, err = dbClient.GetTypeBreakdown(dbCtx, ownerID)
			if err != nil {
				return err
			}
			result.CategoryBreakdown, err = dbClient.GetCategoryBreakdown(dbCtx, ownerID)
			if err != nil {
				return err
			}
			result.StatusBreakdown, err = dbClient.GetStatusBreakdown(dbCtx, ownerID)
			return err
		},
	); dbErr != nil {
		return DocumentPage{}, fmt.Errorf(
			"failed to list documents of owner %s [%w]", ownerID, dbErr,
		)
	}

	return result, nil
}

/*
GetStatistics compute aggregate statistics over an owner's active documents

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param activeDBClient db.Database - existing database transaction
	@returns the aggregate statistics
*/
func (r *documentRepository) GetStatistics(
	ctx context.Context, ownerID string, activeDBClient db.Database,
) (models.DocumentStatistics, error) {
	var stats models.DocumentStatistics

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			stats, err = dbClient.GetDocumentStatistics(dbCtx, ownerID)
			return err
		},
	); dbErr != nil {
		return models.DocumentStatistics{}, fmt.Errorf(
			"failed to compute statistics of owner %s [%w]", ownerID, dbErr,
		)
	}

	return stats, nil
}

/*
GetCategories list every declared type and category value with the owner's
current document counts, including zero-count values

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param activeDBClient db.Database - existing database transaction
	@returns the enumeration catalogue
*/
func (r *documentRepository) GetCategories(
	ctx context.Context, ownerID string, activeDBClient db.Database,
) (models.DocumentCatalogue, error) {
	var catalogue models.DocumentCatalogue

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			catalogue, err = dbClient.GetDocumentCatalogue(dbCtx, ownerID)
			return err
		},
	); dbErr != nil {
		return models.DocumentCatalogue{}, fmt.Errorf(
			"failed to build catalogue of owner %s [%w]", ownerID, dbErr,
		)
	}

	return catalogue, nil
}

/*
GetHistory list an owner's documents uploaded within the lookback window

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param lookbackDays int - window size in days; defaults to 30 when <= 0
	@param activeDBClient db.Database - existing database transaction
	@returns recently uploaded records
*/
func (r *documentRepository) GetHistory(
	ctx context.Context, ownerID string, lookbackDays int, activeDBClient db.Database,
) ([]models.DocumentRecord, error) {
	if lookbackDays <= 0 {
		lookbackDays = DefaultHistoryLookbackDays
	}

	var records []models.DocumentRecord
	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			records, err = dbClient.ListRecentDocuments(
				dbCtx, ownerID, time.Duration(lookbackDays)*24*time.Hour,
			)
			return err
		},
	); dbErr != nil {
		return nil, fmt.Errorf(
			"failed to list upload history of owner %s [%w]", ownerID, dbErr,
		)
	}

	return records, nil
}

/*
MarkUnderReview move a document from UPLOADED to UNDER_REVIEW

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@param activeDBClient db.Database - existing database transaction
	@returns the updated record
*/
func (r *documentRepository) MarkUnderReview(
	ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
) (models.DocumentRecord, error) {
	return r.setStatus(ctx, ownerID, documentID, models.DocumentStatusUnderReview, activeDBClient)
}

/*
MarkApproved move a document from UNDER_REVIEW to APPROVED

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param documentID string - document record ID
	@param activeDBClient db.Database - existing database transaction
	@returns the updated record
*/
func (r *documentRepository) MarkApproved(
	ctx context.Context, ownerID string, documentID string, activeDBClient db.Database,
) (models.DocumentRecord, error) {
	return r.setStatus(ctx, ownerID, documentID, models.DocumentStatusApproved, activeDBClient)
}

// setStatus shared review transition core
func (r *documentRepository) setStatus(
	ctx context.Context,
	ownerID string,
	documentID string,
	newStatus models.DocumentStatusENUMType,
	activeDBClient db.Database,
) (models.DocumentRecord, error) {
	var record models.DocumentRecord

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			record, err = dbClient.SetDocumentStatus(dbCtx, ownerID, documentID, newStatus)
			return err
		},
	); dbErr != nil {
		return models.DocumentRecord{}, fmt.Errorf(
			"failed to move document %s to %s [%w]", documentID, newStatus, dbErr,
		)
	}

	return record, nil
}

/*
ListAuditEvents list captured document lifecycle events

	@param ctx context.Context - execution context
	@param filters db.DocumentEventQueryFilter - entry listing filter
	@param activeDBClient db.Database - existing database transaction
	@returns list of document events
*/
func (r *documentRepository) ListAuditEvents(
	ctx context.Context, filters db.DocumentEventQueryFilter, activeDBClient db.Database,
) ([]models.DocumentEventAudit, error) {
	var events []models.DocumentEventAudit

	if dbErr := db.ActiveSessionWrapper(
		ctx, activeDBClient, r.persistence, func(dbCtx context.Context, dbClient db.Database) error {
			var err error
			events, err = dbClient.ListDocumentEvents(dbCtx, filters)
			return err
		},
	); dbErr != nil {
		return nil, fmt.Errorf("failed to list document audit events [%w]", dbErr)
	}

	return events, nil
}
