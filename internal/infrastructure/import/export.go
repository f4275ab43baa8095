package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// ExportRow is one account as written by WriteAccountFile
type ExportRow struct {
	AccountName     string
	ElementGroup    string
	SubElementGroup string
	DetailedGroup   string
	Description     string
	OpeningBalance  decimal.Decimal
}

// WriteAccountFile writes accounts with the import header so the output
// can be imported again unchanged.
func WriteAccountFile(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(AccountFileHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		record := []string{
			r.AccountName,
			r.ElementGroup,
			r.SubElementGroup,
			r.DetailedGroup,
			r.Description,
			r.OpeningBalance.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
