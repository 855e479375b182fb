package db_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/apex/log"
	"github.com/docvault/docvault/db"
	"github.com/docvault/docvault/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestDBDocumentStatistics verifies the aggregate statistics over an owner's
// active documents.
func TestDBDocumentStatistics(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestDBClient(t)

	ownerID := uuid.NewString()
	now := time.Now().UTC()

	// Statistics of an owner with no documents at all
	err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		stats, err := dbClient.GetDocumentStatistics(ctx, ownerID)
		if err != nil {
			return err
		}
		assert.Equal(int64(0), stats.TotalDocuments)
		assert.Equal("0 B", stats.TotalFileSizeFormatted)
		assert.Nil(stats.LastUploadedAt)
		return nil
	})
	assert.Nil(err)

	// Three active documents: two client uploads, one system issued. One
	// expires within the week, one is already expired.
	expiringSoon := now.AddDate(0, 0, 3)
	expired := now.AddDate(0, 0, -3)

	first := testDocumentDefinition(ownerID)
	first.FileSize = 1024
	first.ExpiryDate = &expiringSoon

	second := testDocumentDefinition(ownerID)
	second.FileSize = 1024
	second.ExpiryDate = &expired

	third := testDocumentDefinition(ownerID)
	third.FileSize = 1024
	third.UploadedByClient = false

	var docs []models.DocumentRecord
	for _, definition := range []db.DocumentDefinition{first, second, third} {
		err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
			d, err := dbClient.DefineNewDocument(ctx, definition)
			if err != nil {
				return err
			}
			docs = append(docs, d)
			return nil
		})
		assert.Nil(err)
	}

	// Record three accesses against the first document. The average is
	// integer truncated: 3 accesses over 3 documents is 1.
	for i := 0; i < 3; i++ {
		err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
			return dbClient.RecordDocumentAccess(ctx, ownerID, docs[0].ID)
		})
		assert.Nil(err)
	}

	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		stats, err := dbClient.GetDocumentStatistics(ctx, ownerID)
		if err != nil {
			return err
		}
		assert.Equal(int64(3), stats.TotalDocuments)
		assert.Equal(int64(3072), stats.TotalFileSize)
		assert.Equal("3.0 KB", stats.TotalFileSizeFormatted)
		assert.Equal(int64(3), stats.RecentUploadCount)
		assert.Equal(int64(1), stats.ExpiringSoonCount)
		assert.Equal(int64(1), stats.ExpiredCount)
		assert.Equal(int64(2), stats.ClientUploadedCount)
		assert.Equal(int64(1), stats.SystemIssuedCount)
		assert.Equal(int64(1), stats.AverageAccessCount)
		assert.NotNil(stats.LastUploadedAt)
		return nil
	})
	assert.Nil(err)

	// Archived documents drop out of the aggregates
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.ArchiveDocument(ctx, ownerID, docs[1].ID)
		return err
	})
	assert.Nil(err)

	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		stats, err := dbClient.GetDocumentStatistics(ctx, ownerID)
		if err != nil {
			return err
		}
		assert.Equal(int64(2), stats.TotalDocuments)
		assert.Equal(int64(2048), stats.TotalFileSize)
		assert.Equal(int64(0), stats.ExpiredCount)
		return nil
	})
	assert.Nil(err)
}

// TestDBDocumentBreakdowns verifies the grouped counts keyed by display label.
func TestDBDocumentBreakdowns(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestDBClient(t)

	ownerID := uuid.NewString()

	definitions := []db.DocumentDefinition{
		testDocumentDefinition(ownerID),
		testDocumentDefinition(ownerID),
		{
			OwnerID:          ownerID,
			Name:             "passport.png",
			Type:             models.DocumentTypeIdentityProof,
			Category:         models.DocumentCategoryIdentity,
			BlobRef:          fmt.Sprintf("%s/%s.png", ownerID, uuid.NewString()),
			FileSize:         512,
			MimeType:         "image/png",
			UploadedByClient: true,
		},
	}
	for _, definition := range definitions {
		err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
			_, err := dbClient.DefineNewDocument(ctx, definition)
			return err
		})
		assert.Nil(err)
	}

	err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		byType, err := dbClient.GetTypeBreakdown(ctx, ownerID)
		if err != nil {
			return err
		}
		assert.Equal(int64(2), byType[models.DocumentTypeBankStatement.Label()])
		assert.Equal(int64(1), byType[models.DocumentTypeIdentityProof.Label()])

		byCategory, err := dbClient.GetCategoryBreakdown(ctx, ownerID)
		if err != nil {
			return err
		}
		assert.Equal(int64(2), byCategory[models.DocumentCategoryFinancial.Label()])
		assert.Equal(int64(1), byCategory[models.DocumentCategoryIdentity.Label()])

		byStatus, err := dbClient.GetStatusBreakdown(ctx, ownerID)
		if err != nil {
			return err
		}
		assert.Equal(int64(3), byStatus[models.DocumentStatusUploaded.Label()])
		return nil
	})
	assert.Nil(err)
}

// TestDBDocumentCatalogue verifies that the catalogue reports every declared
// value, including those with zero documents.
func TestDBDocumentCatalogue(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestDBClient(t)

	ownerID := uuid.NewString()

	err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.DefineNewDocument(ctx, testDocumentDefinition(ownerID))
		return err
	})
	assert.Nil(err)

	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		catalogue, err := dbClient.GetDocumentCatalogue(ctx, ownerID)
		if err != nil {
			return err
		}

		assert.Len(catalogue.Types, len(models.AllDocumentTypes()))
		assert.Len(catalogue.Categories, len(models.AllDocumentCategories()))

		counts := map[string]int64{}
		for _, entry := range catalogue.Types {
			counts[entry.Value] = entry.DocumentCount
		}
		assert.Equal(int64(1), counts[string(models.DocumentTypeBankStatement)])
		assert.Equal(int64(0), counts[string(models.DocumentTypeTaxDocument)])
		return nil
	})
	assert.Nil(err)
}

// TestDBListRecentDocuments verifies the lookback window of the recent
// document listing.
func TestDBListRecentDocuments(t *testing.T) {
	assert := assert.New(t)
	log.SetLevel(log.DebugLevel)

	utCtx := context.Background()
	uut := newTestDBClient(t)

	ownerID := uuid.NewString()

	err := uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		_, err := dbClient.DefineNewDocument(ctx, testDocumentDefinition(ownerID))
		return err
	})
	assert.Nil(err)

	// A fresh upload sits inside a thirty day window
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		recent, err := dbClient.ListRecentDocuments(ctx, ownerID, time.Hour*24*30)
		if err != nil {
			return err
		}
		assert.Len(recent, 1)
		return nil
	})
	assert.Nil(err)

	// A zero length window excludes it
	err = uut.UseDatabaseInTransaction(utCtx, func(ctx context.Context, dbClient db.Database) error {
		recent, err := dbClient.ListRecentDocuments(ctx, ownerID, -time.Hour)
		if err != nil {
			return err
		}
		assert.Empty(recent)
		return nil
	})
	assert.Nil(err)
}
