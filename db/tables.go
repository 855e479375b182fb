package db

import "github.com/docvault/docvault/models"

// --------------------------------------------------------------------------------------
// Document lifecycle audit events

// DocumentEventAuditDBEntry document lifecycle event DB entry
type DocumentEventAuditDBEntry struct {
	models.DocumentEventAudit
}

// TableName hard code table name
func (DocumentEventAuditDBEntry) TableName() string {
	return "document_audit_events"
}

// --------------------------------------------------------------------------------------
// Document records

// DocumentRecordDBEntry document record DB entry
type DocumentRecordDBEntry struct {
	models.DocumentRecord
}

// TableName hard code table name
func (DocumentRecordDBEntry) TableName() string {
	return "documents"
}
