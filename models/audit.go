package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// DocumentEventTypeENUMType document lifecycle event type ENUM value type
type DocumentEventTypeENUMType string

const (
	// DocumentEventTypeUploaded a new document was uploaded
	DocumentEventTypeUploaded DocumentEventTypeENUMType = "DOCUMENT_UPLOADED"

	// DocumentEventTypeReplaced a document was superseded by a new version
	DocumentEventTypeReplaced DocumentEventTypeENUMType = "DOCUMENT_REPLACED"

	// DocumentEventTypeArchived a document was soft deleted
	DocumentEventTypeArchived DocumentEventTypeENUMType = "DOCUMENT_ARCHIVED"

	// DocumentEventTypeStatusChange a document moved along the review path
	DocumentEventTypeStatusChange DocumentEventTypeENUMType = "DOCUMENT_STATUS_CHANGE"
)

// DocumentEventAudit recording of document lifecycle events
type DocumentEventAudit struct {
	// ID audit entry ID
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required"`
	// EventType document lifecycle event type
	EventType DocumentEventTypeENUMType `json:"type" gorm:"column:type;not null" validate:"required,doc_event_type"`
	// Metadata a metadata relating to the event
	Metadata datatypes.JSON `json:"metadata,omitempty" gorm:"column:metadata;default:null"`
	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// ParseMetadata parse the metadata based on the event type
func (a DocumentEventAudit) ParseMetadata(validator *validator.Validate) (interface{}, error) {
	switch a.EventType {
	case DocumentEventTypeUploaded:
		fallthrough
	case DocumentEventTypeArchived:
		var parsed DocumentEventDocumentRelated
		if err := json.Unmarshal(a.Metadata, &parsed); err != nil {
			return nil, fmt.Errorf("document event '%s' metadata parse failed [%w]", a.EventType, err)
		}
		return parsed, validator.Struct(&parsed)

	case DocumentEventTypeReplaced:
		var parsed DocumentEventReplaceRelated
		if err := json.Unmarshal(a.Metadata, &parsed); err != nil {
			return nil, fmt.Errorf("document event '%s' metadata parse failed [%w]", a.EventType, err)
		}
		return parsed, validator.Struct(&parsed)

	case DocumentEventTypeStatusChange:
		var parsed DocumentEventStatusRelated
		if err := json.Unmarshal(a.Metadata, &parsed); err != nil {
			return nil, fmt.Errorf("document event '%s' metadata parse failed [%w]", a.EventType, err)
		}
		return parsed, validator.Struct(&parsed)
	}
	return nil, nil
}

// DocumentEventDocumentRelated document event metadata naming one document
type DocumentEventDocumentRelated struct {
	// DocumentID the document record ID
	DocumentID string `json:"document_id" validate:"required,uuid_rfc4122"`
	// OwnerID the owning client
	OwnerID string `json:"owner_id" validate:"required"`
	// DocumentName the document display name
	DocumentName string `json:"document_name" validate:"required"`
}

// DocumentEventReplaceRelated document event metadata for a replacement
type DocumentEventReplaceRelated struct {
	// PredecessorID the superseded document record
	PredecessorID string `json:"predecessor_id" validate:"required,uuid_rfc4122"`
	// SuccessorID the new active document record
	SuccessorID string `json:"successor_id" validate:"required,uuid_rfc4122"`
	// OwnerID the owning client
	OwnerID string `json:"owner_id" validate:"required"`
	// VersionNumber the version number of the successor
	VersionNumber int `json:"version_number" validate:"required,min=2"`
}

// DocumentEventStatusRelated document event metadata for a review transition
type DocumentEventStatusRelated struct {
	// DocumentID the document record ID
	DocumentID string `json:"document_id" validate:"required,uuid_rfc4122"`
	// OwnerID the owning client
	OwnerID string `json:"owner_id" validate:"required"`
	// FromStatus the status before the transition
	FromStatus DocumentStatusENUMType `json:"from_status" validate:"required,doc_status"`
	// ToStatus the status after the transition
	ToStatus DocumentStatusENUMType `json:"to_status" validate:"required,doc_status"`
}
