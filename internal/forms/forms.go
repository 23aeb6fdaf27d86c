// Package forms validates submitted registration form data against the
// event's dynamic form schema.
package forms

import (
	"fmt"
	"regexp"
	"strings"

	"clubreg/internal/model"
)

// FieldError describes a single validation failure on one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks formData against the field definitions in schema order.
// Every field is checked; errors are aggregated, not short-circuited. An
// empty result means the submission is valid. Bad input values never cause
// an error return, only entries in the result; a broken schema (e.g. an
// invalid regex) is a configuration bug and the affected rule is skipped.
func Validate(formData map[string]any, fields []model.FieldDefinition, filesByField map[string][]model.FileAttachment) []FieldError {
	var errs []FieldError

	for _, field := range fields {
		value := formData[field.ID]
		files := filesByField[field.ID]

		if isMissing(field.Type, value, files) {
			if field.Required {
				errs = append(errs, FieldError{Field: field.ID, Message: "This field is required"})
			}
			// Omitted optional fields are skipped entirely.
			continue
		}

		switch field.Type {
		case model.FieldText, model.FieldTextarea:
			errs = validateText(field, value, errs)
		case model.FieldSelect, model.FieldRadio:
			errs = validateChoice(field, value, errs)
		case model.FieldCheckbox:
			errs = validateCheckboxes(field, value, errs)
		case model.FieldFile:
			errs = validateFiles(field, files, errs)
		}
	}

	return errs
}

// isMissing reports whether no usable value was submitted for the field:
// no attachments for file fields, otherwise a nil value, empty string or
// (for checkbox fields) an empty list.
func isMissing(fieldType model.FieldType, value any, files []model.FileAttachment) bool {
	if fieldType == model.FieldFile {
		return len(files) == 0
	}
	if value == nil || value == "" {
		return true
	}
	if fieldType == model.FieldCheckbox {
		switch v := value.(type) {
		case []any:
			return len(v) == 0
		case []string:
			return len(v) == 0
		}
	}
	return false
}

func label(field model.FieldDefinition) string {
	if field.Label != "" {
		return field.Label
	}
	return field.ID
}

func validateText(field model.FieldDefinition, value any, errs []FieldError) []FieldError {
	name := label(field)
	s, ok := value.(string)
	if !ok {
		return append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be a string", name)})
	}

	v := field.Validation
	if v.MinLength != nil && len(s) < *v.MinLength {
		errs = append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be at least %d characters", name, *v.MinLength)})
	}
	if v.MaxLength != nil && len(s) > *v.MaxLength {
		errs = append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be at most %d characters", name, *v.MaxLength)})
	}
	if v.Pattern != "" {
		re, err := regexp.Compile(v.Pattern)
		if err == nil && !re.MatchString(s) {
			errs = append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s is in an invalid format", name)})
		}
	}
	return errs
}

func validateChoice(field model.FieldDefinition, value any, errs []FieldError) []FieldError {
	name := label(field)
	s, ok := value.(string)
	if !ok {
		return append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be a string", name)})
	}
	for _, opt := range field.Options {
		if s == opt {
			return errs
		}
	}
	return append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be one of the allowed options", name)})
}

func validateCheckboxes(field model.FieldDefinition, value any, errs []FieldError) []FieldError {
	name := label(field)

	var selections []any
	switch v := value.(type) {
	case []any:
		selections = v
	case []string:
		for _, s := range v {
			selections = append(selections, s)
		}
	default:
		return append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be an array", name)})
	}

	for _, sel := range selections {
		s, ok := sel.(string)
		if !ok || !containsOption(field.Options, s) {
			// One aggregate error per field regardless of how many
			// selections are invalid.
			return append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s has invalid selections", name)})
		}
	}
	return errs
}

func containsOption(options []string, s string) bool {
	for _, opt := range options {
		if opt == s {
			return true
		}
	}
	return false
}

func validateFiles(field model.FieldDefinition, files []model.FileAttachment, errs []FieldError) []FieldError {
	name := label(field)
	v := field.Validation

	for _, f := range files {
		if v.MaxSize != nil && f.FileSize > *v.MaxSize {
			errs = append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be <= %d bytes", name, *v.MaxSize)})
		}
		if len(v.AllowedTypes) > 0 && !containsOption(v.AllowedTypes, f.MimeType) {
			errs = append(errs, FieldError{Field: field.ID, Message: fmt.Sprintf("%s must be one of: %s", name, strings.Join(v.AllowedTypes, ", "))})
		}
	}
	return errs
}
