package docvault_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/docvault/docvault"
	"github.com/docvault/docvault/blob"
	"github.com/docvault/docvault/db"
	"github.com/docvault/docvault/models"
	"github.com/docvault/docvault/store"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

// newTestRepository prepare a repository instance against a fresh sqlite
// database and blob directory
func newTestRepository(t *testing.T) store.DocumentRepository {
	assert := assert.New(t)

	utCtx := context.Background()
	instance := ulid.Make().String()
	testDB := fmt.Sprintf("/tmp/docvault_ut_%s.db", instance)
	blobRoot := fmt.Sprintf("/tmp/docvault_blob_ut_%s", instance)

	// Install the tables through a support connection
	support, err := db.NewConnection(db.GetSqliteDialector(testDB), logger.Error)
	assert.Nil(err)
	assert.Nil(support.RunSQLInTransaction(utCtx, db.DefineTables))

	uut, err := docvault.NewDocumentRepository(
		utCtx,
		db.GetSqliteDialector(testDB),
		logger.Error,
		blob.Config{RootDir: blobRoot},
		store.DefaultValidationConfig(),
	)
	assert.Nil(err)
	return uut
}

// testUploadRequest baseline upload payload
func testUploadRequest(name string, content string) store.UploadRequest {
	return store.UploadRequest{
		Name:     name,
		Type:     models.DocumentTypeBankStatement,
		Category: models.DocumentCategoryFinancial,
		FileName: fmt.Sprintf("%s.pdf", uuid.NewString()),
		MimeType: "application/pdf",
		Content:  []byte(content),
	}
}

// TestRepositoryUploadAndDownload verifies the full upload, fetch, and
// download path including access tracking.
func TestRepositoryUploadAndDownload(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestRepository(t)

	ownerID := uuid.NewString()
	content := "%PDF-1.4 march statement"

	// -------------------------------------------------------------------------
	// 1 – Upload a document
	uploaded, err := uut.UploadDocument(
		utCtx, ownerID, testUploadRequest("March Statement", content), nil,
	)
	assert.Nil(err)
	assert.Equal(1, uploaded.VersionNumber)
	assert.Equal(models.DocumentStatusUploaded, uploaded.Status)
	assert.Equal(int64(len(content)), uploaded.FileSize)
	assert.Equal(int64(0), uploaded.AccessCount)

	// 2 – Rejected uploads leave nothing behind
	bad := testUploadRequest("", content)
	_, err = uut.UploadDocument(utCtx, ownerID, bad, nil)
	assert.Error(err)
	assert.Equal(models.ErrorCodeValidationFailed, models.ErrorCodeOf(err))

	// -------------------------------------------------------------------------
	// 3 – Two fetches advance the access count by exactly two
	fetched, err := uut.GetDocument(utCtx, ownerID, uploaded.ID, nil)
	assert.Nil(err)
	assert.Equal(int64(1), fetched.AccessCount)
	assert.NotNil(fetched.LastAccessedAt)

	fetched, err = uut.GetDocument(utCtx, ownerID, uploaded.ID, nil)
	assert.Nil(err)
	assert.Equal(int64(2), fetched.AccessCount)

	// 4 – Download returns the original bytes and counts as another access
	download, err := uut.DownloadDocument(utCtx, ownerID, uploaded.ID, nil)
	assert.Nil(err)
	assert.Equal("application/pdf", download.MimeType)
	assert.Equal("March Statement", download.FileName)
	assert.Equal(int64(3), download.Record.AccessCount)
	readBack, err := io.ReadAll(download.Content)
	assert.Nil(err)
	assert.Nil(download.Content.Close())
	assert.Equal(content, string(readBack))

	// -------------------------------------------------------------------------
	// 5 – A different owner can't see the document
	_, err = uut.GetDocument(utCtx, uuid.NewString(), uploaded.ID, nil)
	assert.Error(err)
	assert.Equal(models.ErrorCodeNotFound, models.ErrorCodeOf(err))
}

// TestRepositoryReplaceDocument verifies the atomic replacement lifecycle.
func TestRepositoryReplaceDocument(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestRepository(t)

	ownerID := uuid.NewString()

	v1, err := uut.UploadDocument(
		utCtx, ownerID, testUploadRequest("Proof Of Address", "version one"), nil,
	)
	assert.Nil(err)

	// -------------------------------------------------------------------------
	// 1 – Replace it
	v2, err := uut.ReplaceDocument(
		utCtx, ownerID, v1.ID, testUploadRequest("Proof Of Address", "version two"), nil,
	)
	assert.Nil(err)
	assert.Equal(2, v2.VersionNumber)
	assert.True(v2.IsActive)

	// 2 – The predecessor is REPLACED and inactive, but still fetchable
	previous, err := uut.GetDocument(utCtx, ownerID, v1.ID, nil)
	assert.Nil(err)
	assert.Equal(models.DocumentStatusReplaced, previous.Status)
	assert.False(previous.IsActive)

	// 3 – Both artifact versions remain downloadable
	download, err := uut.DownloadDocument(utCtx, ownerID, v1.ID, nil)
	assert.Nil(err)
	readBack, err := io.ReadAll(download.Content)
	assert.Nil(err)
	assert.Nil(download.Content.Close())
	assert.Equal("version one", string(readBack))

	// -------------------------------------------------------------------------
	// 4 – Replacing the superseded version again reports a conflict
	_, err = uut.ReplaceDocument(
		utCtx, ownerID, v1.ID, testUploadRequest("Proof Of Address", "version three"), nil,
	)
	assert.Error(err)
	assert.Equal(models.ErrorCodeConflict, models.ErrorCodeOf(err))

	// 5 – Default listings show only the active version
	page, err := uut.ListDocuments(utCtx, ownerID, store.ListRequest{}, nil)
	assert.Nil(err)
	assert.Equal(int64(1), page.Total)
	assert.Equal(v2.ID, page.Documents[0].ID)

	// 6 – Including inactive records reveals the whole chain
	page, err = uut.ListDocuments(utCtx, ownerID, store.ListRequest{IncludeInactive: true}, nil)
	assert.Nil(err)
	assert.Equal(int64(2), page.Total)
}

// TestRepositoryDeleteDocument verifies soft deletion semantics and the
// system document guard.
func TestRepositoryDeleteDocument(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestRepository(t)

	ownerID := uuid.NewString()

	clientDoc, err := uut.UploadDocument(
		utCtx, ownerID, testUploadRequest("Tax Letter", "client copy"), nil,
	)
	assert.Nil(err)

	systemDoc, err := uut.UploadSystemDocument(
		utCtx, ownerID, testUploadRequest("Issued KYC Summary", "system issued"), nil,
	)
	assert.Nil(err)
	assert.False(systemDoc.UploadedByClient)

	// -------------------------------------------------------------------------
	// 1 – Delete the client document; repeat deletion stays a success
	archived, err := uut.DeleteDocument(utCtx, ownerID, clientDoc.ID, nil)
	assert.Nil(err)
	assert.Equal(models.DocumentStatusArchived, archived.Status)
	assert.False(archived.IsActive)

	_, err = uut.DeleteDocument(utCtx, ownerID, clientDoc.ID, nil)
	assert.Nil(err)

	// 2 – Out of default listings, still fetchable by ID
	page, err := uut.ListDocuments(utCtx, ownerID, store.ListRequest{}, nil)
	assert.Nil(err)
	assert.Equal(int64(1), page.Total)

	fetched, err := uut.GetDocument(utCtx, ownerID, clientDoc.ID, nil)
	assert.Nil(err)
	assert.Equal(models.DocumentStatusArchived, fetched.Status)

	// -------------------------------------------------------------------------
	// 3 – System documents refuse client deletion and replacement
	_, err = uut.DeleteDocument(utCtx, ownerID, systemDoc.ID, nil)
	assert.Error(err)
	assert.Equal(models.ErrorCodeForbidden, models.ErrorCodeOf(err))

	_, err = uut.ReplaceDocument(
		utCtx, ownerID, systemDoc.ID, testUploadRequest("Issued KYC Summary", "forged"), nil,
	)
	assert.Error(err)
	assert.Equal(models.ErrorCodeForbidden, models.ErrorCodeOf(err))
}

// TestRepositoryListingAndSearch verifies filtered listings, free-text
// search, and the attached aggregates.
func TestRepositoryListingAndSearch(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestRepository(t)

	ownerID := uuid.NewString()

	statement := testUploadRequest("Quarterly Statement", "q1 figures")
	statement.Tags = []string{"quarter-end"}
	_, err := uut.UploadDocument(utCtx, ownerID, statement, nil)
	assert.Nil(err)

	passport := testUploadRequest("Passport Scan", "image bytes")
	passport.Type = models.DocumentTypeIdentityProof
	passport.Category = models.DocumentCategoryIdentity
	passport.FileName = "passport.png"
	passport.MimeType = "image/png"
	_, err = uut.UploadDocument(utCtx, ownerID, passport, nil)
	assert.Nil(err)

	// -------------------------------------------------------------------------
	// 1 – Structured filter by type
	page, err := uut.ListDocuments(utCtx, ownerID, store.ListRequest{
		Types: []models.DocumentTypeENUMType{models.DocumentTypeIdentityProof},
	}, nil)
	assert.Nil(err)
	assert.Equal(int64(1), page.Total)
	assert.Equal("Passport Scan", page.Documents[0].Name)

	// 2 – The page carries owner aggregates
	assert.Equal(int64(2), page.Statistics.TotalDocuments)
	assert.Equal(int64(1), page.TypeBreakdown[models.DocumentTypeBankStatement.Label()])
	assert.Equal(int64(2), page.StatusBreakdown[models.DocumentStatusUploaded.Label()])

	// 3 – A search term overrides the structured filters
	page, err = uut.ListDocuments(utCtx, ownerID, store.ListRequest{
		Types:      []models.DocumentTypeENUMType{models.DocumentTypeIdentityProof},
		SearchTerm: "quarter",
	}, nil)
	assert.Nil(err)
	assert.Equal(int64(1), page.Total)
	assert.Equal("Quarterly Statement", page.Documents[0].Name)

	// 4 – Search pagination past the result set yields an empty page
	page, err = uut.ListDocuments(utCtx, ownerID, store.ListRequest{
		SearchTerm: "quarter", Page: 3, PageSize: 5,
	}, nil)
	assert.Nil(err)
	assert.Equal(int64(1), page.Total)
	assert.Empty(page.Documents)

	// -------------------------------------------------------------------------
	// 5 – Listing reads do not count as document accesses
	stats, err := uut.GetStatistics(utCtx, ownerID, nil)
	assert.Nil(err)
	assert.Equal(int64(0), stats.AverageAccessCount)
}

// TestRepositoryReviewAndHistory verifies the review transitions, upload
// history, catalogue, and the audit trail.
func TestRepositoryReviewAndHistory(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestRepository(t)

	ownerID := uuid.NewString()

	doc, err := uut.UploadDocument(
		utCtx, ownerID, testUploadRequest("KYC Form", "form content"), nil,
	)
	assert.Nil(err)

	// -------------------------------------------------------------------------
	// 1 – Review path: UPLOADED -> UNDER_REVIEW -> APPROVED
	reviewed, err := uut.MarkUnderReview(utCtx, ownerID, doc.ID, nil)
	assert.Nil(err)
	assert.Equal(models.DocumentStatusUnderReview, reviewed.Status)

	approved, err := uut.MarkApproved(utCtx, ownerID, doc.ID, nil)
	assert.Nil(err)
	assert.Equal(models.DocumentStatusApproved, approved.Status)

	// Moving back is rejected
	_, err = uut.MarkUnderReview(utCtx, ownerID, doc.ID, nil)
	assert.Error(err)
	assert.Equal(models.ErrorCodeConflict, models.ErrorCodeOf(err))

	// -------------------------------------------------------------------------
	// 2 – Upload history covers the fresh document
	history, err := uut.GetHistory(utCtx, ownerID, 0, nil)
	assert.Nil(err)
	assert.Len(history, 1)

	// 3 – Catalogue reports every declared value
	catalogue, err := uut.GetCategories(utCtx, ownerID, nil)
	assert.Nil(err)
	assert.Len(catalogue.Types, len(models.AllDocumentTypes()))
	assert.Len(catalogue.Categories, len(models.AllDocumentCategories()))

	// -------------------------------------------------------------------------
	// 4 – The audit trail captured the upload and both review transitions
	events, err := uut.ListAuditEvents(utCtx, db.DocumentEventQueryFilter{}, nil)
	assert.Nil(err)
	assert.Len(events, 3)

	statusEvents, err := uut.ListAuditEvents(utCtx, db.DocumentEventQueryFilter{
		EventTypes: []models.DocumentEventTypeENUMType{models.DocumentEventTypeStatusChange},
	}, nil)
	assert.Nil(err)
	assert.Len(statusEvents, 2)
	validate := validator.New()
	assert.Nil(models.RegisterWithValidator(validate))
	for _, event := range statusEvents {
		parsed, err := event.ParseMetadata(validate)
		assert.Nil(err)
		statusMeta, ok := parsed.(models.DocumentEventStatusRelated)
		assert.True(ok)
		assert.Equal(doc.ID, statusMeta.DocumentID)
	}

	// 5 – Time window filters apply
	future := time.Now().UTC().Add(time.Hour)
	events, err = uut.ListAuditEvents(utCtx, db.DocumentEventQueryFilter{
		EventsAfter: &future,
	}, nil)
	assert.Nil(err)
	assert.Empty(events)
}
