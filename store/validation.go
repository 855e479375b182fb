package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alwitt/goutils"
	"github.com/apex/log"
	"github.com/docvault/docvault/models"
	"github.com/go-playground/validator/v10"
)

// DefaultMaxFileSize default upload size ceiling (50 MiB)
const DefaultMaxFileSize int64 = 50 * 1024 * 1024

// ValidationConfig upload validation settings
type ValidationConfig struct {
	// MaxFileSize upload size ceiling in bytes
	MaxFileSize int64 `validate:"required,gt=0"`
	// AllowedExtensions lower-case file extension allow-list, with leading dot
	AllowedExtensions []string `validate:"required,min=1"`
	// AllowedMimeTypes MIME type allow-list
	AllowedMimeTypes []string `validate:"required,min=1"`
}

// DefaultValidationConfig validation settings accepting PDF, JPEG, PNG, DOC,
// and DOCX uploads up to 50 MiB
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxFileSize: DefaultMaxFileSize,
		AllowedExtensions: []string{
			".pdf", ".jpg", ".jpeg", ".png", ".doc", ".docx",
		},
		AllowedMimeTypes: []string{
			"application/pdf",
			"image/jpeg",
			"image/png",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
	}
}

// UploadRequest a proposed document upload
//
// The same request shape serves both uploads and replacements; a replacement
// is an upload linked to a predecessor.
type UploadRequest struct {
	// Name document display name
	Name string
	// Type document type
	Type models.DocumentTypeENUMType
	// Category document category
	Category models.DocumentCategoryENUMType
	// FileName the uploaded file name
	FileName string
	// MimeType the declared MIME type of the content
	MimeType string
	// Content the file bytes
	Content []byte
	// Description optional free-text description
	Description string
	// Tags optional document tags
	Tags []string
	// ExpiryDate optional document expiry timestamp
	ExpiryDate *time.Time
}

/*
ValidationEngine enforces upload preconditions before any mutation occurs.

Checks run in a fixed order and the first failure is reported as a
ValidationFailed error carrying the specific rejection reason.
*/
type ValidationEngine interface {
	/*
		ValidateUpload check a proposed upload against the configured limits

			@param request UploadRequest - the proposed upload
			@return nil if accepted, or the specific rejection
	*/
	ValidateUpload(request UploadRequest) error
}

// validationEngine implements ValidationEngine
type validationEngine struct {
	goutils.Component
	config    ValidationConfig
	validator *validator.Validate
}

/*
NewValidationEngine define an upload validation engine

	@param config ValidationConfig - upload validation settings
	@returns engine instance
*/
func NewValidationEngine(config ValidationConfig) (ValidationEngine, error) {
	logTags := log.Fields{"package": "docvault", "module": "store", "component": "validation-engine"}

	instance := &validationEngine{
		Component: goutils.Component{
			LogTags: logTags,
			LogTagModifiers: []goutils.LogMetadataModifier{
				goutils.ModifyLogMetadataByRestRequestParam,
			},
		},
		config:    config,
		validator: validator.New(),
	}

	if err := models.RegisterWithValidator(instance.validator); err != nil {
		return nil, fmt.Errorf("failed to install custom validation macros [%w]", err)
	}

	if err := instance.validator.Struct(&config); err != nil {
		return nil, fmt.Errorf("upload validation settings are not valid [%w]", err)
	}

	return instance, nil
}

/*
ValidateUpload check a proposed upload against the configured limits

	@param request UploadRequest - the proposed upload
	@return nil if accepted, or the specific rejection
*/
func (v *validationEngine) ValidateUpload(request UploadRequest) error {
	// 1 - file presence
	if len(request.Content) == 0 {
		return models.NewValidationError(
			models.ValidationReasonMissingFile, "no file content provided",
		)
	}

	// 2 - size ceiling
	if int64(len(request.Content)) > v.config.MaxFileSize {
		return models.NewValidationError(
			models.ValidationReasonFileTooLarge,
			"file size %d exceeds the %d byte ceiling",
			len(request.Content),
			v.config.MaxFileSize,
		)
	}

	// 3 - file type allow-list. Either the extension or the declared MIME
	// type must match.
	if !v.allowedFileType(request.FileName, request.MimeType) {
		return models.NewValidationError(
			models.ValidationReasonUnsupportedFileType,
			"file type of '%s' (%s) is not supported",
			request.FileName,
			request.MimeType,
		)
	}

	// 4 - declared name
	if strings.TrimSpace(request.Name) == "" {
		return models.NewValidationError(
			models.ValidationReasonMissingName, "document name is blank",
		)
	}

	// 5 - enumeration membership
	if err := v.validator.Var(request.Type, "doc_type"); err != nil {
		return models.NewValidationError(
			models.ValidationReasonInvalidEnumeration,
			"'%s' is not a document type",
			request.Type,
		)
	}
	if err := v.validator.Var(request.Category, "doc_category"); err != nil {
		return models.NewValidationError(
			models.ValidationReasonInvalidEnumeration,
			"'%s' is not a document category",
			request.Category,
		)
	}

	return nil
}

// allowedFileType match the upload against the extension and MIME allow-lists
func (v *validationEngine) allowedFileType(fileName string, mimeType string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range v.config.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	for _, allowed := range v.config.AllowedMimeTypes {
		if strings.EqualFold(allowed, mimeType) {
			return true
		}
	}
	return false
}
