package db

import (
	"context"
	"fmt"
	"time"

	"github.com/docvault/docvault/models"
)

/*
GetDocumentStatistics compute aggregate statistics over an owner's active
documents

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@returns the aggregate statistics
*/
func (d *databaseImpl) GetDocumentStatistics(
	_ context.Context, ownerID string,
) (models.DocumentStatistics, error) {
	now := time.Now().UTC()

	var agg struct {
		TotalDocuments   int64
		TotalFileSize    int64
		TotalAccessCount int64
		ClientUploaded   int64
	}
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Select(
			"COUNT(*) as total_documents, "+
				"COALESCE(SUM(file_size), 0) as total_file_size, "+
				"COALESCE(SUM(access_count), 0) as total_access_count, "+
				"COALESCE(SUM(CASE WHEN uploaded_by_client THEN 1 ELSE 0 END), 0) as client_uploaded",
		).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Scan(&agg); tmp.Error != nil {
		return models.DocumentStatistics{}, fmt.Errorf(
			"failed to aggregate documents of owner %s [%w]", ownerID, tmp.Error,
		)
	}

	stats := models.DocumentStatistics{
		TotalDocuments:         agg.TotalDocuments,
		TotalFileSize:          agg.TotalFileSize,
		TotalFileSizeFormatted: models.FormatFileSize(&agg.TotalFileSize),
		ClientUploadedCount:    agg.ClientUploaded,
		SystemIssuedCount:      agg.TotalDocuments - agg.ClientUploaded,
	}
	if agg.TotalDocuments > 0 {
		stats.AverageAccessCount = agg.TotalAccessCount / agg.TotalDocuments
	}

	// Uploads within the last 30 days
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where(
			"owner_id = ? AND is_active = ? AND created_at >= ?",
			ownerID, true, now.AddDate(0, 0, -30),
		).
		Count(&stats.RecentUploadCount); tmp.Error != nil {
		return models.DocumentStatistics{}, fmt.Errorf(
			"failed to count recent uploads of owner %s [%w]", ownerID, tmp.Error,
		)
	}

	// Expiring within the next 7 days
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where(
			"owner_id = ? AND is_active = ? AND expiry_date >= ? AND expiry_date <= ?",
			ownerID, true, now, now.AddDate(0, 0, 7),
		).
		Count(&stats.ExpiringSoonCount); tmp.Error != nil {
		return models.DocumentStatistics{}, fmt.Errorf(
			"failed to count expiring documents of owner %s [%w]", ownerID, tmp.Error,
		)
	}

	// Already expired
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where(
			"owner_id = ? AND is_active = ? AND expiry_date < ?",
			ownerID, true, now,
		).
		Count(&stats.ExpiredCount); tmp.Error != nil {
		return models.DocumentStatistics{}, fmt.Errorf(
			"failed to count expired documents of owner %s [%w]", ownerID, tmp.Error,
		)
	}

	// Most recent upload timestamp
	var newest []DocumentRecordDBEntry
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at desc").
		Limit(1).
		Find(&newest); tmp.Error != nil {
		return models.DocumentStatistics{}, fmt.Errorf(
			"failed to find latest upload of owner %s [%w]", ownerID, tmp.Error,
		)
	}
	if len(newest) > 0 {
		lastUploaded := newest[0].CreatedAt
		stats.LastUploadedAt = &lastUploaded
	}

	return stats, nil
}

// groupedCount one grouped count row
type groupedCount struct {
	Value string
	Count int64
}

// groupActiveDocuments count an owner's active documents grouped by a column
func (d *databaseImpl) groupActiveDocuments(
	ownerID string, column string,
) ([]groupedCount, error) {
	var rows []groupedCount
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Select(fmt.Sprintf("%s as value, COUNT(*) as count", column)).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Group(column).
		Scan(&rows); tmp.Error != nil {
		return nil, fmt.Errorf(
			"failed to group documents of owner %s by %s [%w]", ownerID, column, tmp.Error,
		)
	}
	return rows, nil
}

/*
GetTypeBreakdown count an owner's active documents grouped by the document
type display label

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@returns mapping from display label to count
*/
func (d *databaseImpl) GetTypeBreakdown(
	_ context.Context, ownerID string,
) (map[string]int64, error) {
	rows, err := d.groupActiveDocuments(ownerID, "type")
	if err != nil {
		return nil, err
	}

	result := map[string]int64{}
	for _, row := range rows {
		result[models.DocumentTypeENUMType(row.Value).Label()] = row.Count
	}
	return result, nil
}

/*
GetCategoryBreakdown count an owner's active documents grouped by the document
category display label

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@returns mapping from display label to count
*/
func (d *databaseImpl) GetCategoryBreakdown(
	_ context.Context, ownerID string,
) (map[string]int64, error) {
	rows, err := d.groupActiveDocuments(ownerID, "category")
	if err != nil {
		return nil, err
	}

	result := map[string]int64{}
	for _, row := range rows {
		result[models.DocumentCategoryENUMType(row.Value).Label()] = row.Count
	}
	return result, nil
}

/*
GetStatusBreakdown count an owner's active documents grouped by the document
status display label

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@returns mapping from display label to count
*/
func (d *databaseImpl) GetStatusBreakdown(
	_ context.Context, ownerID string,
) (map[string]int64, error) {
	rows, err := d.groupActiveDocuments(ownerID, "status")
	if err != nil {
		return nil, err
	}

	result := map[string]int64{}
	for _, row := range rows {
		result[models.DocumentStatusENUMType(row.Value).Label()] = row.Count
	}
	return result, nil
}

/*
GetDocumentCatalogue list every declared type and category value with the
owner's current active document count, including zero-count values

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@returns catalogue entries
*/
func (d *databaseImpl) GetDocumentCatalogue(
	_ context.Context, ownerID string,
) (models.DocumentCatalogue, error) {
	typeRows, err := d.groupActiveDocuments(ownerID, "type")
	if err != nil {
		return models.DocumentCatalogue{}, err
	}
	categoryRows, err := d.groupActiveDocuments(ownerID, "category")
	if err != nil {
		return models.DocumentCatalogue{}, err
	}

	typeCounts := map[string]int64{}
	for _, row := range typeRows {
		typeCounts[row.Value] = row.Count
	}
	categoryCounts := map[string]int64{}
	for _, row := range categoryRows {
		categoryCounts[row.Value] = row.Count
	}

	catalogue := models.DocumentCatalogue{
		Types:      []models.CatalogueEntry{},
		Categories: []models.CatalogueEntry{},
	}
	for _, docType := range models.AllDocumentTypes() {
		catalogue.Types = append(catalogue.Types, models.CatalogueEntry{
			Value:         string(docType),
			Label:         docType.Label(),
			DocumentCount: typeCounts[string(docType)],
		})
	}
	for _, category := range models.AllDocumentCategories() {
		catalogue.Categories = append(catalogue.Categories, models.CatalogueEntry{
			Value:         string(category),
			Label:         category.Label(),
			DocumentCount: categoryCounts[string(category)],
		})
	}

	return catalogue, nil
}

/*
ListRecentDocuments list an owner's active documents uploaded within the
lookback window

	@param ctx context.Context - execution context
	@param ownerID string - the owning client
	@param lookback time.Duration - how far back to look
	@return recently uploaded records
*/
func (d *databaseImpl) ListRecentDocuments(
	_ context.Context, ownerID string, lookback time.Duration,
) ([]models.DocumentRecord, error) {
	cutoff := time.Now().UTC().Add(-lookback)

	var entries []DocumentRecordDBEntry
	if tmp := d.db.Model(&DocumentRecordDBEntry{}).
		Where("owner_id = ? AND is_active = ? AND created_at >= ?", ownerID, true, cutoff).
		Order("created_at desc").
		Find(&entries); tmp.Error != nil {
		return nil, fmt.Errorf(
			"failed to list recent documents of owner %s [%w]", ownerID, tmp.Error,
		)
	}

	result := []models.DocumentRecord{}
	for _, entry := range entries {
		result = append(result, entry.DocumentRecord)
	}

	return result, nil
}
