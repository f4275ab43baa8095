package csvimport

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		csv := "name,age,city\nAlice,30,New York\nBob,25,Boston"
		parser, err := NewCSVParser(strings.NewReader(csv))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		csv := "\xEF\xBB\xBFname,age\nAlice,30"
		parser, err := NewCSVParser(strings.NewReader(csv))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, "name", parser.Headers()[0])
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("  \n\n"))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Oversized input is rejected", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader("a,b\n1,2\n"), WithMaxBytes(4))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		csv := "name;age;city\nAlice;30;NYC"
		parser, err := NewCSVParser(strings.NewReader(csv), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"name", "age", "city"}, parser.Headers())
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("Headers are trimmed and lower-cased", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("  Account Name , ELEMENT GROUP\nCash,Assets"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"account name", "element group"}, parser.Headers())
		assert.True(t, parser.HasHeader("account name"))
		assert.False(t, parser.HasHeader("Account Name"))
	})

	t.Run("Leading blank records are skipped", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("\n,,\n  ,\nname,code\nCash,1"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"name", "code"}, parser.Headers())
	})

	t.Run("Only blank records", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte(",,\n,\n"))
		require.NoError(t, err)
		assert.ErrorIs(t, parser.ParseHeader(), ErrEmptyFile)
	})

	t.Run("Missing headers are reported in order", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("b,d\n1,2"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"a", "c"}, parser.ValidateHeaders([]string{"a", "b", "c", "d"}))
	})
}

func TestReadRow(t *testing.T) {
	t.Run("Quoted fields keep their commas", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("name,description\n\"Cash, petty\",\"Drawer, front desk\""))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Cash, petty", row.Get("name"))
		assert.Equal(t, "Drawer, front desk", row.Get("description"))
	})

	t.Run("Cells are trimmed and short rows padded", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("a,b,c\n  x  ,y"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "x", row.Get("a"))
		assert.Equal(t, "", row.Get("c"))
		assert.Equal(t, "fallback", row.GetOrDefault("c", "fallback"))
	})

	t.Run("Rows are numbered after the header", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("a\n\n1\n2\n"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		first, err := parser.ReadRow()
		require.NoError(t, err)
		second, err := parser.ReadRow()
		require.NoError(t, err)
		_, err = parser.ReadRow()
		assert.ErrorIs(t, err, io.EOF)

		assert.Equal(t, 1, first.Number)
		assert.Equal(t, 2, second.Number)
		assert.Equal(t, 3, first.LineNumber)
		assert.Equal(t, 2, parser.TotalRows())
	})

	t.Run("Empty row detection", func(t *testing.T) {
		parser, err := ParseFromBytes([]byte("a,b\n,\n"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.True(t, row.IsEmpty())
	})
}
