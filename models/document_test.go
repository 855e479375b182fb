package models_test

import (
	"testing"

	"github.com/docvault/docvault/models"
	"github.com/stretchr/testify/assert"
)

// TestFormatFileSize verifies the display rendering boundaries of
// models.FormatFileSize.
func TestFormatFileSize(t *testing.T) {
	assert := assert.New(t)

	sizeOf := func(v int64) *int64 { return &v }

	assert.Equal("Unknown", models.FormatFileSize(nil))
	assert.Equal("0 B", models.FormatFileSize(sizeOf(0)))
	assert.Equal("1023 B", models.FormatFileSize(sizeOf(1023)))
	assert.Equal("1.0 KB", models.FormatFileSize(sizeOf(1024)))
	assert.Equal("1.5 KB", models.FormatFileSize(sizeOf(1536)))
	assert.Equal("3.0 KB", models.FormatFileSize(sizeOf(3072)))
	assert.Equal("1.0 MB", models.FormatFileSize(sizeOf(1024*1024)))
	assert.Equal("2.5 MB", models.FormatFileSize(sizeOf(5*1024*1024/2)))
	assert.Equal("1.0 GB", models.FormatFileSize(sizeOf(1024*1024*1024)))
	assert.Equal("2048.0 GB", models.FormatFileSize(sizeOf(2048*1024*1024*1024)))
}

// TestDocumentStatusTransitions verifies the review path and the terminal
// states of the document status state machine.
func TestDocumentStatusTransitions(t *testing.T) {
	assert := assert.New(t)

	// Forward review path
	record := models.DocumentRecord{Status: models.DocumentStatusUploaded}
	assert.Nil(record.ValidateNextState(models.DocumentStatusUnderReview))
	assert.Error(record.ValidateNextState(models.DocumentStatusApproved))

	record.Status = models.DocumentStatusUnderReview
	assert.Nil(record.ValidateNextState(models.DocumentStatusApproved))

	// Any active state can be replaced or archived
	for _, status := range []models.DocumentStatusENUMType{
		models.DocumentStatusUploaded,
		models.DocumentStatusUnderReview,
		models.DocumentStatusApproved,
	} {
		record.Status = status
		assert.Nil(record.ValidateNextState(models.DocumentStatusReplaced))
		assert.Nil(record.ValidateNextState(models.DocumentStatusArchived))
	}

	// REPLACED and ARCHIVED are terminal
	for _, status := range []models.DocumentStatusENUMType{
		models.DocumentStatusReplaced,
		models.DocumentStatusArchived,
	} {
		record.Status = status
		for _, next := range models.AllDocumentStatuses() {
			assert.Error(record.ValidateNextState(next))
		}
	}
}

// TestDocumentTagListRoundTrip verifies tag encoding and membership parsing.
func TestDocumentTagListRoundTrip(t *testing.T) {
	assert := assert.New(t)

	encoded, err := models.EncodeTagList([]string{"tax", "2025", "statement"})
	assert.Nil(err)

	record := models.DocumentRecord{Tags: encoded}
	tags, err := record.TagList()
	assert.Nil(err)
	assert.Equal([]string{"tax", "2025", "statement"}, tags)

	// Empty tag sets encode to nothing
	encoded, err = models.EncodeTagList(nil)
	assert.Nil(err)
	assert.Nil(encoded)

	record = models.DocumentRecord{}
	tags, err = record.TagList()
	assert.Nil(err)
	assert.Nil(tags)
}

// TestEnumLabels verifies every declared enumeration value carries a display
// label distinct from its machine name.
func TestEnumLabels(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("KYC Document", models.DocumentTypeKYCDocument.Label())
	assert.Equal("Bank Statement", models.DocumentTypeBankStatement.Label())
	assert.Equal("Financial", models.DocumentCategoryFinancial.Label())
	assert.Equal("Under Review", models.DocumentStatusUnderReview.Label())

	for _, docType := range models.AllDocumentTypes() {
		assert.NotEmpty(docType.Label())
	}
	for _, category := range models.AllDocumentCategories() {
		assert.NotEmpty(category.Label())
	}
	for _, status := range models.AllDocumentStatuses() {
		assert.NotEmpty(status.Label())
	}
}
