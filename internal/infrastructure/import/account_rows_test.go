package csvimport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ledgerdesk/backend/internal/domain/bulk"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const accountHeader = "Account Name,Element Group,Sub Element Group,Detailed Group,Description,Opening Balance\n"

func TestReadAccountFile(t *testing.T) {
	t.Run("reads rows in order", func(t *testing.T) {
		csv := accountHeader +
			"Petty Cash,Assets,Current Assets,Cash,Front desk,150.25\n" +
			"Main Bank,Assets,Current Assets,Bank,,\n"

		file, err := ReadAccountFile(strings.NewReader(csv), 0)
		require.NoError(t, err)
		require.Len(t, file.Rows, 2)

		assert.Equal(t, RawAccountRow{
			Row: 1, AccountName: "Petty Cash", ElementGroup: "Assets", SubElementGroup: "Current Assets",
			DetailedGroup: "Cash", Description: "Front desk", OpeningBalance: "150.25",
		}, file.Rows[0])
		assert.Equal(t, "0.00", file.Rows[1].OpeningBalance)
		assert.Equal(t, 2, file.TotalRows())
	})

	t.Run("optional columns may be absent", func(t *testing.T) {
		csv := "account name,element group,sub element group,detailed group\nCash,A,B,C\n"
		file, err := ReadAccountFile(strings.NewReader(csv), 0)
		require.NoError(t, err)
		require.Len(t, file.Rows, 1)
		assert.Equal(t, "", file.Rows[0].Description)
		assert.Equal(t, "0.00", file.Rows[0].OpeningBalance)
	})

	t.Run("column order does not matter", func(t *testing.T) {
		csv := "Detailed Group,Account Name,Sub Element Group,Element Group\nCash,Till,Current,Assets\n"
		file, err := ReadAccountFile(strings.NewReader(csv), 0)
		require.NoError(t, err)
		assert.Equal(t, "Till", file.Rows[0].AccountName)
		assert.Equal(t, "Cash", file.Rows[0].DetailedGroup)
	})

	t.Run("missing detailed group column fails the file", func(t *testing.T) {
		csv := "Account Name,Element Group,Sub Element Group\nCash,Assets,Current\n"
		_, err := ReadAccountFile(strings.NewReader(csv), 0)

		assert.ErrorIs(t, err, ErrMissingRequiredCols)
		assert.Contains(t, err.Error(), "detailed group")
	})

	t.Run("blank rows are dropped without consuming numbers", func(t *testing.T) {
		csv := accountHeader + ",,,,,\nCash,A,B,C,,\n"
		file, err := ReadAccountFile(strings.NewReader(csv), 0)
		require.NoError(t, err)
		require.Len(t, file.Rows, 1)
		assert.Equal(t, 2, file.Rows[0].Row)
	})

	t.Run("row limit", func(t *testing.T) {
		csv := accountHeader + "a,A,B,C,,\nb,A,B,C,,\nc,A,B,C,,\n"
		_, err := ReadAccountFile(strings.NewReader(csv), 2)
		assert.ErrorIs(t, err, ErrTooManyRows)
	})

	t.Run("fallback encoding", func(t *testing.T) {
		raw := []byte(accountHeader + "Caf\xe9 float,A,B,C,,\n")

		_, err := ReadAccountFile(bytes.NewReader(raw), 0)
		assert.ErrorIs(t, err, ErrInvalidEncoding)

		file, err := ReadAccountFile(bytes.NewReader(raw), 0, WithFallbackEncoding(charmap.Windows1252))
		require.NoError(t, err)
		assert.Equal(t, "Café float", file.Rows[0].AccountName)
	})
}

func TestPrepareCandidate(t *testing.T) {
	full := RawAccountRow{
		Row: 4, AccountName: " Petty Cash ", ElementGroup: "Assets", SubElementGroup: "Current Assets",
		DetailedGroup: "Cash", OpeningBalance: "10.50",
	}

	t.Run("complete row is accepted", func(t *testing.T) {
		c, outcome, errs := PrepareCandidate(full, bulk.StrictnessStrict)
		require.Equal(t, RowAccepted, outcome)
		assert.Empty(t, errs)
		assert.Equal(t, 4, c.Row)
		assert.Equal(t, "Petty Cash", c.AccountName)
		assert.Equal(t, "Cash", c.Path.DetailedGroup)
		assert.True(t, decimal.RequireFromString("10.50").Equal(c.OpeningBalance))
	})

	t.Run("blank opening balance defaults to zero", func(t *testing.T) {
		row := full
		row.OpeningBalance = ""
		c, outcome, _ := PrepareCandidate(row, bulk.StrictnessStrict)
		require.Equal(t, RowAccepted, outcome)
		assert.True(t, c.OpeningBalance.IsZero())
	})

	t.Run("blank row is blank in both modes", func(t *testing.T) {
		for _, s := range []bulk.Strictness{bulk.StrictnessStrict, bulk.StrictnessLenient} {
			_, outcome, errs := PrepareCandidate(RawAccountRow{Row: 1, Description: "  "}, s)
			assert.Equal(t, RowBlank, outcome)
			assert.Empty(t, errs)
		}
	})

	t.Run("partial row fails in strict mode", func(t *testing.T) {
		row := full
		row.SubElementGroup = ""
		row.DetailedGroup = " "

		_, outcome, errs := PrepareCandidate(row, bulk.StrictnessStrict)
		assert.Equal(t, RowFailed, outcome)
		require.Len(t, errs, 2)
		assert.Equal(t, CodeMissingRequiredField, errs[0].Code)
		assert.Equal(t, ColSubElementGroup, errs[0].Column)
		assert.Equal(t, ColDetailedGroup, errs[1].Column)
		assert.Equal(t, 4, errs[0].Row)
	})

	t.Run("partial row is skipped in lenient mode", func(t *testing.T) {
		row := full
		row.AccountName = ""

		_, outcome, errs := PrepareCandidate(row, bulk.StrictnessLenient)
		assert.Equal(t, RowSkipped, outcome)
		assert.Empty(t, errs)
	})

	t.Run("bad opening balance fails", func(t *testing.T) {
		row := full
		row.OpeningBalance = "ten"

		_, outcome, errs := PrepareCandidate(row, bulk.StrictnessLenient)
		assert.Equal(t, RowFailed, outcome)
		require.Len(t, errs, 1)
		assert.Equal(t, CodeInvalidOpeningBalance, errs[0].Code)
	})
}

func TestWriteAccountFile_RoundTrip(t *testing.T) {
	rows := []ExportRow{
		{AccountName: "Petty Cash", ElementGroup: "Assets", SubElementGroup: "Current Assets",
			DetailedGroup: "Cash", Description: "Drawer, front desk", OpeningBalance: decimal.RequireFromString("12.5")},
		{AccountName: "Main Bank", ElementGroup: "Assets", SubElementGroup: "Current Assets",
			DetailedGroup: "Bank", OpeningBalance: decimal.Zero},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccountFile(&buf, rows))
	assert.True(t, strings.HasPrefix(buf.String(), strings.TrimSuffix(accountHeader, "\n")))

	file, err := ReadAccountFile(&buf, 0)
	require.NoError(t, err)
	require.Len(t, file.Rows, 2)
	assert.Equal(t, "Drawer, front desk", file.Rows[0].Description)
	assert.Equal(t, "12.50", file.Rows[0].OpeningBalance)
	assert.Equal(t, "0.00", file.Rows[1].OpeningBalance)
}
