package models

import "time"

// DocumentStatistics aggregate statistics over one owner's active documents
type DocumentStatistics struct {
	// TotalDocuments number of active documents
	TotalDocuments int64 `json:"total_documents"`
	// TotalFileSize combined artifact size of active documents, in bytes
	TotalFileSize int64 `json:"total_file_size"`
	// TotalFileSizeFormatted display rendering of TotalFileSize
	TotalFileSizeFormatted string `json:"total_file_size_formatted"`
	// RecentUploadCount documents uploaded within the last 30 days
	RecentUploadCount int64 `json:"recent_upload_count"`
	// ExpiringSoonCount documents expiring within the next 7 days
	ExpiringSoonCount int64 `json:"expiring_soon_count"`
	// ExpiredCount documents whose expiry date has passed
	ExpiredCount int64 `json:"expired_count"`
	// ClientUploadedCount documents uploaded by the owning client
	ClientUploadedCount int64 `json:"client_uploaded_count"`
	// SystemIssuedCount system-issued documents
	SystemIssuedCount int64 `json:"system_issued_count"`
	// AverageAccessCount mean access count across active documents, truncated
	// to an integer
	AverageAccessCount int64 `json:"average_access_count"`
	// LastUploadedAt timestamp of the most recent upload, if any
	LastUploadedAt *time.Time `json:"last_uploaded_at,omitempty"`
}

// CatalogueEntry one declared enumeration value with its current usage count
type CatalogueEntry struct {
	// Value the machine name of the enumeration value
	Value string `json:"value"`
	// Label the display label of the enumeration value
	Label string `json:"label"`
	// DocumentCount the owner's active document count for this value
	DocumentCount int64 `json:"document_count"`
}

// DocumentCatalogue every declared type and category value with counts,
// including zero-count values. Used to populate selection UIs externally.
type DocumentCatalogue struct {
	// Types catalogue of document type values
	Types []CatalogueEntry `json:"types"`
	// Categories catalogue of document category values
	Categories []CatalogueEntry `json:"categories"`
}
