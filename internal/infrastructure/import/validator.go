package csvimport

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FieldType represents the expected type of a field
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeDecimal FieldType = "decimal"
)

// FieldRule defines validation rules for a column
type FieldRule struct {
	Column      string
	Type        FieldType
	Required    bool
	MaxLength   int
	InvalidCode string // code reported when the value fails its type
}

// FieldRuleBuilder helps build field rules fluently
type FieldRuleBuilder struct {
	rule FieldRule
}

// Field creates a new field rule builder
func Field(column string) *FieldRuleBuilder {
	return &FieldRuleBuilder{
		rule: FieldRule{
			Column: column,
			Type:   TypeString,
		},
	}
}

// Required marks the field as required
func (b *FieldRuleBuilder) Required() *FieldRuleBuilder {
	b.rule.Required = true
	return b
}

// Decimal sets the field type to decimal, reporting failures with code
func (b *FieldRuleBuilder) Decimal(code string) *FieldRuleBuilder {
	b.rule.Type = TypeDecimal
	b.rule.InvalidCode = code
	return b
}

// MaxLength sets the maximum length in characters
func (b *FieldRuleBuilder) MaxLength(n int) *FieldRuleBuilder {
	b.rule.MaxLength = n
	return b
}

// Build returns the built field rule
func (b *FieldRuleBuilder) Build() FieldRule {
	return b.rule
}

// FieldValidator validates rows according to rules. Rules are applied in
// the order they were given so errors come out in column order.
type FieldValidator struct {
	rules []FieldRule
}

// NewFieldValidator creates a new field validator
func NewFieldValidator(rules ...FieldRule) *FieldValidator {
	return &FieldValidator{rules: rules}
}

// RequiredColumns returns the columns marked required
func (v *FieldValidator) RequiredColumns() []string {
	cols := make([]string, 0, len(v.rules))
	for _, r := range v.rules {
		if r.Required {
			cols = append(cols, r.Column)
		}
	}
	return cols
}

// MissingRequired returns the required columns that are blank in values
func (v *FieldValidator) MissingRequired(values map[string]string) []string {
	var missing []string
	for _, r := range v.rules {
		if r.Required && values[r.Column] == "" {
			missing = append(missing, r.Column)
		}
	}
	return missing
}

// ValidateRow checks every rule against the row values and returns the
// errors found. Required checks are left to the caller, which decides
// through strictness whether a blank required cell is an error.
func (v *FieldValidator) ValidateRow(row int, values map[string]string) []RowError {
	var errs []RowError
	for _, rule := range v.rules {
		value := values[rule.Column]
		if value == "" {
			continue
		}

		if err := validateType(value, rule.Type); err != nil {
			code := rule.InvalidCode
			if code == "" {
				code = CodeMalformedRow
			}
			errs = append(errs, NewRowErrorWithValue(row, rule.Column, code,
				fmt.Sprintf("'%s' is not a valid %s", value, rule.Type), value))
			continue
		}

		if rule.MaxLength > 0 && utf8.RuneCountInString(value) > rule.MaxLength {
			errs = append(errs, NewRowError(row, rule.Column, CodeInvalidLength,
				fmt.Sprintf("length must be at most %d", rule.MaxLength)))
		}
	}
	return errs
}

func validateType(value string, fieldType FieldType) error {
	switch fieldType {
	case TypeDecimal:
		_, err := decimal.NewFromString(value)
		return err
	}
	return nil
}
