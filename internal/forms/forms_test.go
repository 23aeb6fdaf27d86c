package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubreg/internal/model"
)

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func textField(id string, required bool) model.FieldDefinition {
	return model.FieldDefinition{ID: id, Type: model.FieldText, Label: id, Required: required}
}

func TestValidateRequiredFields(t *testing.T) {
	fields := []model.FieldDefinition{
		textField("fullName", true),
		textField("nickname", false),
	}

	errs := Validate(map[string]any{}, fields, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "fullName", errs[0].Field)
	assert.Equal(t, "This field is required", errs[0].Message)
}

func TestValidateEmptyStringCountsAsMissing(t *testing.T) {
	fields := []model.FieldDefinition{textField("fullName", true)}

	errs := Validate(map[string]any{"fullName": ""}, fields, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "This field is required", errs[0].Message)
}

func TestValidateOptionalFieldSkipsRules(t *testing.T) {
	field := textField("bio", false)
	field.Validation.MinLength = intPtr(10)

	errs := Validate(map[string]any{}, []model.FieldDefinition{field}, nil)
	assert.Empty(t, errs)
}

func TestValidateTextLengthBounds(t *testing.T) {
	field := textField("fullName", true)
	field.Validation.MinLength = intPtr(3)
	field.Validation.MaxLength = intPtr(5)

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"too short", "ab", "fullName must be at least 3 characters"},
		{"too long", "abcdef", "fullName must be at most 5 characters"},
		{"at min", "abc", ""},
		{"at max", "abcde", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(map[string]any{"fullName": tt.value}, []model.FieldDefinition{field}, nil)
			if tt.want == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.want, errs[0].Message)
		})
	}
}

func TestValidateTextPattern(t *testing.T) {
	field := textField("email", true)
	field.Validation.Pattern = `^[^@\s]+@[^@\s]+$`

	errs := Validate(map[string]any{"email": "not-an-email"}, []model.FieldDefinition{field}, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "email is in an invalid format", errs[0].Message)

	errs = Validate(map[string]any{"email": "a@b.org"}, []model.FieldDefinition{field}, nil)
	assert.Empty(t, errs)
}

func TestValidateBrokenPatternIsSkipped(t *testing.T) {
	field := textField("code", true)
	field.Validation.Pattern = `([unclosed`

	errs := Validate(map[string]any{"code": "anything"}, []model.FieldDefinition{field}, nil)
	assert.Empty(t, errs)
}

func TestValidateNonStringText(t *testing.T) {
	field := textField("fullName", true)

	errs := Validate(map[string]any{"fullName": 42}, []model.FieldDefinition{field}, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "fullName must be a string", errs[0].Message)
}

func TestValidateSelect(t *testing.T) {
	field := model.FieldDefinition{
		ID:       "size",
		Type:     model.FieldSelect,
		Label:    "T-shirt size",
		Required: true,
		Options:  []string{"S", "M", "L"},
	}

	errs := Validate(map[string]any{"size": "XL"}, []model.FieldDefinition{field}, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "T-shirt size must be one of the allowed options", errs[0].Message)

	errs = Validate(map[string]any{"size": "M"}, []model.FieldDefinition{field}, nil)
	assert.Empty(t, errs)
}

func TestValidateCheckboxes(t *testing.T) {
	field := model.FieldDefinition{
		ID:       "interests",
		Type:     model.FieldCheckbox,
		Label:    "interests",
		Required: true,
		Options:  []string{"go", "rust", "zig"},
	}

	t.Run("valid selections", func(t *testing.T) {
		errs := Validate(map[string]any{"interests": []any{"go", "zig"}}, []model.FieldDefinition{field}, nil)
		assert.Empty(t, errs)
	})

	t.Run("invalid selection yields one aggregate error", func(t *testing.T) {
		errs := Validate(map[string]any{"interests": []any{"go", "cobol", "fortran"}}, []model.FieldDefinition{field}, nil)
		require.Len(t, errs, 1)
		assert.Equal(t, "interests has invalid selections", errs[0].Message)
	})

	t.Run("not an array", func(t *testing.T) {
		errs := Validate(map[string]any{"interests": "go"}, []model.FieldDefinition{field}, nil)
		require.Len(t, errs, 1)
		assert.Equal(t, "interests must be an array", errs[0].Message)
	})

	t.Run("empty list counts as missing", func(t *testing.T) {
		errs := Validate(map[string]any{"interests": []any{}}, []model.FieldDefinition{field}, nil)
		require.Len(t, errs, 1)
		assert.Equal(t, "This field is required", errs[0].Message)
	})
}

func TestValidateFiles(t *testing.T) {
	field := model.FieldDefinition{
		ID:       "resume",
		Type:     model.FieldFile,
		Label:    "resume",
		Required: true,
	}
	field.Validation.MaxSize = int64Ptr(1024)
	field.Validation.AllowedTypes = []string{"application/pdf"}

	t.Run("missing file on required field", func(t *testing.T) {
		errs := Validate(map[string]any{}, []model.FieldDefinition{field}, nil)
		require.Len(t, errs, 1)
		assert.Equal(t, "This field is required", errs[0].Message)
	})

	t.Run("too large and wrong type", func(t *testing.T) {
		files := map[string][]model.FileAttachment{
			"resume": {{FieldName: "resume", FileSize: 2048, MimeType: "image/png"}},
		}
		errs := Validate(map[string]any{}, []model.FieldDefinition{field}, files)
		require.Len(t, errs, 2)
		assert.Equal(t, "resume must be <= 1024 bytes", errs[0].Message)
		assert.Equal(t, "resume must be one of: application/pdf", errs[1].Message)
	})

	t.Run("acceptable file", func(t *testing.T) {
		files := map[string][]model.FileAttachment{
			"resume": {{FieldName: "resume", FileSize: 512, MimeType: "application/pdf"}},
		}
		errs := Validate(map[string]any{}, []model.FieldDefinition{field}, files)
		assert.Empty(t, errs)
	})
}

func TestValidateAggregatesAcrossFields(t *testing.T) {
	name := textField("fullName", true)
	name.Validation.MinLength = intPtr(2)
	email := textField("email", true)
	email.Validation.Pattern = `@`

	errs := Validate(map[string]any{"email": "nope"}, []model.FieldDefinition{name, email}, nil)
	require.Len(t, errs, 2)
	assert.Equal(t, "fullName", errs[0].Field)
	assert.Equal(t, "email", errs[1].Field)
}

func TestValidateFallsBackToFieldID(t *testing.T) {
	field := model.FieldDefinition{ID: "nick", Type: model.FieldText, Required: true}

	errs := Validate(map[string]any{"nick": 1}, []model.FieldDefinition{field}, nil)
	require.Len(t, errs, 1)
	assert.Equal(t, "nick must be a string", errs[0].Message)
}
