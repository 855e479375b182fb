package models

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

/*
RegisterWithValidator register with the validator this custom validation support

	@param v *validator.Validate - the validator to register against
	@return whether successful
*/
func RegisterWithValidator(v *validator.Validate) error {
	if err := v.RegisterValidation(
		"doc_type", validateDocumentType,
	); err != nil {
		return err
	}

	if err := v.RegisterValidation(
		"doc_category", validateDocumentCategory,
	); err != nil {
		return err
	}

	if err := v.RegisterValidation(
		"doc_status", validateDocumentStatus,
	); err != nil {
		return err
	}

	if err := v.RegisterValidation(
		"doc_event_type", validateDocumentEventType,
	); err != nil {
		return err
	}

	return nil
}

func validateDocumentType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch DocumentTypeENUMType(fl.Field().String()) {
	case DocumentTypeKYCDocument:
		fallthrough
	case DocumentTypeBankStatement:
		fallthrough
	case DocumentTypeAddressProof:
		fallthrough
	case DocumentTypeIdentityProof:
		fallthrough
	case DocumentTypeTaxDocument:
		fallthrough
	case DocumentTypeInvestmentProof:
		fallthrough
	case DocumentTypeOther:
		return true
	}
	return false
}

func validateDocumentCategory(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch DocumentCategoryENUMType(fl.Field().String()) {
	case DocumentCategoryKYC:
		fallthrough
	case DocumentCategoryFinancial:
		fallthrough
	case DocumentCategoryIdentity:
		fallthrough
	case DocumentCategoryTax:
		fallthrough
	case DocumentCategoryInvestment:
		fallthrough
	case DocumentCategoryOther:
		return true
	}
	return false
}

func validateDocumentStatus(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch DocumentStatusENUMType(fl.Field().String()) {
	case DocumentStatusUploaded:
		fallthrough
	case DocumentStatusUnderReview:
		fallthrough
	case DocumentStatusApproved:
		fallthrough
	case DocumentStatusReplaced:
		fallthrough
	case DocumentStatusArchived:
		return true
	}
	return false
}

func validateDocumentEventType(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}
	switch DocumentEventTypeENUMType(fl.Field().String()) {
	case DocumentEventTypeUploaded:
		fallthrough
	case DocumentEventTypeReplaced:
		fallthrough
	case DocumentEventTypeArchived:
		fallthrough
	case DocumentEventTypeStatusChange:
		return true
	}
	return false
}
