package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DocumentTypeENUMType document type ENUM value type
type DocumentTypeENUMType string

const (
	// DocumentTypeKYCDocument a Know-Your-Customer compliance document
	DocumentTypeKYCDocument DocumentTypeENUMType = "KYC_DOCUMENT"

	// DocumentTypeBankStatement a bank account statement
	DocumentTypeBankStatement DocumentTypeENUMType = "BANK_STATEMENT"

	// DocumentTypeAddressProof a proof-of-address document
	DocumentTypeAddressProof DocumentTypeENUMType = "ADDRESS_PROOF"

	// DocumentTypeIdentityProof a government issued identity document
	DocumentTypeIdentityProof DocumentTypeENUMType = "IDENTITY_PROOF"

	// DocumentTypeTaxDocument a tax filing or tax certificate
	DocumentTypeTaxDocument DocumentTypeENUMType = "TAX_DOCUMENT"

	// DocumentTypeInvestmentProof a record of an investment holding
	DocumentTypeInvestmentProof DocumentTypeENUMType = "INVESTMENT_PROOF"

	// DocumentTypeOther any document not covered by the other types
	DocumentTypeOther DocumentTypeENUMType = "OTHER"
)

// Label human-readable display label for the document type
func (t DocumentTypeENUMType) Label() string {
	switch t {
	case DocumentTypeKYCDocument:
		return "KYC Document"
	case DocumentTypeBankStatement:
		return "Bank Statement"
	case DocumentTypeAddressProof:
		return "Address Proof"
	case DocumentTypeIdentityProof:
		return "Identity Proof"
	case DocumentTypeTaxDocument:
		return "Tax Document"
	case DocumentTypeInvestmentProof:
		return "Investment Proof"
	case DocumentTypeOther:
		return "Other"
	}
	return string(t)
}

// AllDocumentTypes the complete set of declared document types
func AllDocumentTypes() []DocumentTypeENUMType {
	return []DocumentTypeENUMType{
		DocumentTypeKYCDocument,
		DocumentTypeBankStatement,
		DocumentTypeAddressProof,
		DocumentTypeIdentityProof,
		DocumentTypeTaxDocument,
		DocumentTypeInvestmentProof,
		DocumentTypeOther,
	}
}

// DocumentCategoryENUMType document category ENUM value type
type DocumentCategoryENUMType string

const (
	// DocumentCategoryKYC identity / compliance verification documents
	DocumentCategoryKYC DocumentCategoryENUMType = "KYC"

	// DocumentCategoryFinancial financial standing documents
	DocumentCategoryFinancial DocumentCategoryENUMType = "FINANCIAL"

	// DocumentCategoryIdentity identity documents
	DocumentCategoryIdentity DocumentCategoryENUMType = "IDENTITY"

	// DocumentCategoryTax tax related documents
	DocumentCategoryTax DocumentCategoryENUMType = "TAX"

	// DocumentCategoryInvestment investment related documents
	DocumentCategoryInvestment DocumentCategoryENUMType = "INVESTMENT"

	// DocumentCategoryOther any document not covered by the other categories
	DocumentCategoryOther DocumentCategoryENUMType = "OTHER"
)

// Label human-readable display label for the document category
func (c DocumentCategoryENUMType) Label() string {
	switch c {
	case DocumentCategoryKYC:
		return "KYC"
	case DocumentCategoryFinancial:
		return "Financial"
	case DocumentCategoryIdentity:
		return "Identity"
	case DocumentCategoryTax:
		return "Tax"
	case DocumentCategoryInvestment:
		return "Investment"
	case DocumentCategoryOther:
		return "Other"
	}
	return string(c)
}

// AllDocumentCategories the complete set of declared document categories
func AllDocumentCategories() []DocumentCategoryENUMType {
	return []DocumentCategoryENUMType{
		DocumentCategoryKYC,
		DocumentCategoryFinancial,
		DocumentCategoryIdentity,
		DocumentCategoryTax,
		DocumentCategoryInvestment,
		DocumentCategoryOther,
	}
}

// DocumentStatusENUMType document status ENUM value type
type DocumentStatusENUMType string

const (
	// DocumentStatusUploaded document accepted, awaiting review
	DocumentStatusUploaded DocumentStatusENUMType = "UPLOADED"

	// DocumentStatusUnderReview document is being reviewed
	DocumentStatusUnderReview DocumentStatusENUMType = "UNDER_REVIEW"

	// DocumentStatusApproved document passed review
	DocumentStatusApproved DocumentStatusENUMType = "APPROVED"

	// DocumentStatusReplaced document superseded by a newer version. Terminal.
	DocumentStatusReplaced DocumentStatusENUMType = "REPLACED"

	// DocumentStatusArchived document soft deleted. Terminal.
	DocumentStatusArchived DocumentStatusENUMType = "ARCHIVED"
)

// Label human-readable display label for the document status
func (s DocumentStatusENUMType) Label() string {
	switch s {
	case DocumentStatusUploaded:
		return "Uploaded"
	case DocumentStatusUnderReview:
		return "Under Review"
	case DocumentStatusApproved:
		return "Approved"
	case DocumentStatusReplaced:
		return "Replaced"
	case DocumentStatusArchived:
		return "Archived"
	}
	return string(s)
}

// AllDocumentStatuses the complete set of declared document statuses
func AllDocumentStatuses() []DocumentStatusENUMType {
	return []DocumentStatusENUMType{
		DocumentStatusUploaded,
		DocumentStatusUnderReview,
		DocumentStatusApproved,
		DocumentStatusReplaced,
		DocumentStatusArchived,
	}
}

// DocumentRecord one version of a client document
//
// Replacement never mutates an existing record; it inserts a new record with
// `VersionNumber` incremented and deactivates the predecessor. Only `Status`,
// `IsActive`, `AccessCount`, `LastAccessedAt`, and `UpdatedAt` change after
// insert.
type DocumentRecord struct {
	// ID document record ID
	ID string `json:"id" gorm:"column:id;primaryKey;unique" validate:"required,uuid_rfc4122"`

	// OwnerID the client which owns this document. All operations are scoped
	// by (ID, OwnerID).
	OwnerID string `json:"owner_id" gorm:"column:owner_id;not null;index:idx_documents_owner_active" validate:"required"`

	// Name document display name
	Name string `json:"name" gorm:"column:name;not null" validate:"required"`

	// Type document type
	Type DocumentTypeENUMType `json:"type" gorm:"column:type;not null" validate:"required,doc_type"`

	// Category document category
	Category DocumentCategoryENUMType `json:"category" gorm:"column:category;not null" validate:"required,doc_category"`

	// Status document lifecycle status
	Status DocumentStatusENUMType `json:"status" gorm:"column:status;not null" validate:"required,doc_status"`

	// BlobRef opaque reference into the blob store. Never reused across versions.
	BlobRef string `json:"blob_ref" gorm:"column:blob_ref;not null;unique" validate:"required"`

	// FileSize stored artifact size in bytes
	FileSize int64 `json:"file_size" gorm:"column:file_size;not null"`

	// MimeType stored artifact MIME type
	MimeType string `json:"mime_type" gorm:"column:mime_type;not null" validate:"required"`

	// VersionNumber position of this record within its replacement chain,
	// starting at 1
	VersionNumber int `json:"version_number" gorm:"column:version_number;not null" validate:"required,min=1"`

	// UploadedByClient false marks a system-issued document, which the owning
	// client can neither delete nor replace
	UploadedByClient bool `json:"uploaded_by_client" gorm:"column:uploaded_by_client;not null"`

	// IsActive whether this record is the current version of its replacement
	// chain. At most one record per chain is active.
	IsActive bool `json:"is_active" gorm:"column:is_active;not null;index:idx_documents_owner_active"`

	// ExpiryDate optional document expiry timestamp
	ExpiryDate *time.Time `json:"expiry_date,omitempty" gorm:"column:expiry_date;default:null"`

	// Tags document tags, stored as a JSON array
	Tags datatypes.JSON `json:"tags,omitempty" gorm:"column:tags;default:null"`

	// Description optional free-text description
	Description string `json:"description,omitempty" gorm:"column:description"`

	// AccessCount number of reads / downloads recorded against this record
	AccessCount int64 `json:"access_count" gorm:"column:access_count;not null;default:0"`

	// LastAccessedAt timestamp of the most recent recorded access
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty" gorm:"column:last_accessed_at;default:null"`

	// CreatedAt entry creation timestamp
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt entry update timestamp
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidateNextState verify the document status can transition to the new status
func (r *DocumentRecord) ValidateNextState(newStatus DocumentStatusENUMType) error {
	statesWithTransitions := map[DocumentStatusENUMType]map[DocumentStatusENUMType]bool{
		DocumentStatusUploaded: {
			DocumentStatusUnderReview: true,
			DocumentStatusReplaced:    true,
			DocumentStatusArchived:    true,
		},
		DocumentStatusUnderReview: {
			DocumentStatusApproved: true,
			DocumentStatusReplaced: true,
			DocumentStatusArchived: true,
		},
		DocumentStatusApproved: {
			DocumentStatusReplaced: true,
			DocumentStatusArchived: true,
		},
	}

	availableNextStates, ok := statesWithTransitions[r.Status]
	if !ok {
		return fmt.Errorf("document can't transition out of state '%s'", r.Status)
	}

	if _, ok := availableNextStates[newStatus]; !ok {
		return fmt.Errorf("document can't transition from '%s' to '%s'", r.Status, newStatus)
	}

	return nil
}

// TagList decode the stored tag JSON into a string slice
func (r *DocumentRecord) TagList() ([]string, error) {
	if len(r.Tags) == 0 {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal(r.Tags, &tags); err != nil {
		return nil, fmt.Errorf("document %s tag list parse failed [%w]", r.ID, err)
	}
	return tags, nil
}

// EncodeTagList encode a tag slice into the stored JSON representation
func EncodeTagList(tags []string) (datatypes.JSON, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("tag list encode failed [%w]", err)
	}
	return datatypes.JSON(raw), nil
}

// FormatFileSize render a byte count for display using base-1024 units
//
// A nil size renders as "Unknown". Sizes under 1024 render as whole bytes;
// larger sizes are divided into KB / MB / GB with one decimal place.
func FormatFileSize(size *int64) string {
	if size == nil {
		return "Unknown"
	}
	if *size < 1024 {
		return fmt.Sprintf("%d B", *size)
	}
	value := float64(*size)
	for _, unit := range []string{"KB", "MB", "GB"} {
		value /= 1024
		if value < 1024 || unit == "GB" {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%d B", *size)
}
