package csvimport

import (
	"errors"
	"fmt"
	"io"

	"github.com/ledgerdesk/backend/internal/domain/accounting"
	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/shopspring/decimal"
)

// Account file columns, as matched after lower-casing the header
const (
	ColAccountName     = "account name"
	ColElementGroup    = "element group"
	ColSubElementGroup = "sub element group"
	ColDetailedGroup   = "detailed group"
	ColDescription     = "description"
	ColOpeningBalance  = "opening balance"
)

// AccountFileHeader is the header written by the exporter
var AccountFileHeader = []string{
	"Account Name", "Element Group", "Sub Element Group", "Detailed Group", "Description", "Opening Balance",
}

var accountRules = NewFieldValidator(
	Field(ColAccountName).Required().MaxLength(200).Build(),
	Field(ColElementGroup).Required().Build(),
	Field(ColSubElementGroup).Required().Build(),
	Field(ColDetailedGroup).Required().Build(),
	Field(ColDescription).Build(),
	Field(ColOpeningBalance).Decimal(CodeInvalidOpeningBalance).Build(),
)

// RequiredAccountColumns returns the header columns an account file must have
func RequiredAccountColumns() []string {
	return accountRules.RequiredColumns()
}

// RawAccountRow is one row of an account import before validation, from a
// file or a client-parsed payload. Row is 1-based.
type RawAccountRow struct {
	Row             int
	AccountName     string
	ElementGroup    string
	SubElementGroup string
	DetailedGroup   string
	Description     string
	OpeningBalance  string
}

func (r RawAccountRow) values() map[string]string {
	return map[string]string{
		ColAccountName:     r.AccountName,
		ColElementGroup:    r.ElementGroup,
		ColSubElementGroup: r.SubElementGroup,
		ColDetailedGroup:   r.DetailedGroup,
		ColDescription:     r.Description,
		ColOpeningBalance:  r.OpeningBalance,
	}
}

// IsBlank reports whether every cell of the row is empty
func (r RawAccountRow) IsBlank() bool {
	for _, v := range r.values() {
		if v != "" {
			return false
		}
	}
	return true
}

// AccountCandidate is a validated row ready for group resolution
type AccountCandidate struct {
	Row            int
	AccountName    string
	Path           accounting.GroupPath
	Description    string
	OpeningBalance decimal.Decimal
}

// RowOutcome is what validation decided about a row
type RowOutcome int

const (
	// RowAccepted rows become candidates
	RowAccepted RowOutcome = iota
	// RowBlank rows have no cells at all and are ignored
	RowBlank
	// RowSkipped rows are partially filled and dropped in lenient mode
	RowSkipped
	// RowFailed rows carry errors
	RowFailed
)

// PrepareCandidate validates a raw row. A row with no cells is blank. A row
// missing some required cells fails in strict mode and is skipped in
// lenient mode. Anything else must pass the field rules.
func PrepareCandidate(raw RawAccountRow, strictness bulk.Strictness) (AccountCandidate, RowOutcome, []RowError) {
	raw = raw.Trimmed()
	if raw.IsBlank() {
		return AccountCandidate{}, RowBlank, nil
	}

	values := raw.values()
	if missing := accountRules.MissingRequired(values); len(missing) > 0 {
		if strictness == bulk.StrictnessLenient {
			return AccountCandidate{}, RowSkipped, nil
		}
		errs := make([]RowError, 0, len(missing))
		for _, col := range missing {
			errs = append(errs, NewRowError(raw.Row, col, CodeMissingRequiredField,
				fmt.Sprintf("field '%s' is required", col)))
		}
		return AccountCandidate{}, RowFailed, errs
	}

	if errs := accountRules.ValidateRow(raw.Row, values); len(errs) > 0 {
		return AccountCandidate{}, RowFailed, errs
	}

	opening := decimal.Zero
	if raw.OpeningBalance != "" {
		opening, _ = decimal.NewFromString(raw.OpeningBalance)
	}
	return AccountCandidate{
		Row:         raw.Row,
		AccountName: raw.AccountName,
		Path: accounting.GroupPath{
			ElementGroup:    raw.ElementGroup,
			SubElementGroup: raw.SubElementGroup,
			DetailedGroup:   raw.DetailedGroup,
		},
		Description:    raw.Description,
		OpeningBalance: opening,
	}, RowAccepted, nil
}

// AccountFile is the content of an account import file
type AccountFile struct {
	Rows      []RawAccountRow
	Malformed []RowError
}

// ReadAccountFile parses an account import file. A header without every
// required column fails the whole file with MISSING_REQUIRED_COLUMNS before
// any data row is read. maxRows of zero means unlimited.
func ReadAccountFile(r io.Reader, maxRows int, opts ...ParserOption) (*AccountFile, error) {
	parser, err := NewCSVParser(r, opts...)
	if err != nil {
		return nil, err
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := parser.ValidateHeaders(RequiredAccountColumns()); len(missing) > 0 {
		return nil, NewMissingColumnsError(missing)
	}

	file := &AccountFile{}
	for {
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		var rowErr RowError
		if errors.As(err, &rowErr) {
			file.Malformed = append(file.Malformed, rowErr)
			continue
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		if maxRows > 0 && len(file.Rows)+len(file.Malformed) >= maxRows {
			return nil, ErrTooManyRows.WithDetail("max_rows", fmt.Sprint(maxRows))
		}

		file.Rows = append(file.Rows, RawAccountRow{
			Row:             row.Number,
			AccountName:     row.Get(ColAccountName),
			ElementGroup:    row.Get(ColElementGroup),
			SubElementGroup: row.Get(ColSubElementGroup),
			DetailedGroup:   row.Get(ColDetailedGroup),
			Description:     row.Get(ColDescription),
			OpeningBalance:  row.GetOrDefault(ColOpeningBalance, "0.00"),
		})
	}
	return file, nil
}

// TotalRows counts the non-blank rows of the file, malformed ones included
func (f *AccountFile) TotalRows() int {
	return len(f.Rows) + len(f.Malformed)
}

// Trimmed returns the row with every cell trimmed
func (r RawAccountRow) Trimmed() RawAccountRow {
	r.AccountName = trim(r.AccountName)
	r.ElementGroup = trim(r.ElementGroup)
	r.SubElementGroup = trim(r.SubElementGroup)
	r.DetailedGroup = trim(r.DetailedGroup)
	r.Description = trim(r.Description)
	r.OpeningBalance = trim(r.OpeningBalance)
	return r
}
