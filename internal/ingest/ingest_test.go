package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"saltscope/internal/domain"
)

func TestParseFile_CSV(t *testing.T) {
	data := strings.Join([]string{
		"Date,State,Gross Amount,Channel,Exempt Amount,Taxable",
		"2023-01-15,ca,\"$1,250.00\",direct,,",
		"2023-02-20,CA,500.50,marketplace,100.50,",
		"2023-03-01,ny,99.99,,,no",
	}, "\n")

	analysisID := uuid.New()
	result, err := ParseFile(strings.NewReader(data), domain.FileTypeCSV, analysisID, 0)

	require.NoError(t, err)
	require.Len(t, result.Transactions, 3)
	assert.Empty(t, result.Skipped)

	first := result.Transactions[0]
	assert.Equal(t, analysisID, first.AnalysisID)
	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, "CA", first.JurisdictionCode)
	assert.True(t, first.GrossAmount.Equal(decimal.RequireFromString("1250.00")))
	assert.Equal(t, domain.ChannelDirect, first.Channel)
	assert.Nil(t, first.ExemptAmount)
	assert.Nil(t, first.Taxable)

	second := result.Transactions[1]
	assert.Equal(t, domain.ChannelMarketplace, second.Channel)
	require.NotNil(t, second.ExemptAmount)
	assert.True(t, second.ExemptAmount.Equal(decimal.RequireFromString("100.50")))

	third := result.Transactions[2]
	assert.Equal(t, "NY", third.JurisdictionCode)
	assert.Equal(t, domain.ChannelDirect, third.Channel, "blank channel defaults to direct")
	require.NotNil(t, third.Taxable)
	assert.False(t, *third.Taxable)
}

func TestParseFile_HeaderAliasesAndDateFormats(t *testing.T) {
	data := strings.Join([]string{
		"Transaction Date,Jurisdiction Code,Total,Sales Channel",
		"01/15/2023,TX,100,amazon",
		"2023/02/20,TX,200,phone",
	}, "\n")

	result, err := ParseFile(strings.NewReader(data), domain.FileTypeCSV, uuid.New(), 0)

	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "2023-01-15", result.Transactions[0].Date.Format("2006-01-02"))
	assert.Equal(t, domain.ChannelMarketplace, result.Transactions[0].Channel)
	assert.Equal(t, domain.ChannelOther, result.Transactions[1].Channel, "unrecognized channel maps to other")
}

func TestParseFile_BadRowsSkippedAndReported(t *testing.T) {
	data := strings.Join([]string{
		"date,jurisdiction,amount",
		"2023-01-15,CA,100",
		"not-a-date,CA,100",
		"2023-01-17,,100",
		"2023-01-18,CA,not-money",
		"",
		"2023-01-19,CA,200",
	}, "\n")

	result, err := ParseFile(strings.NewReader(data), domain.FileTypeCSV, uuid.New(), 0)

	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, 3, result.Skipped[0].Row)
	assert.Contains(t, result.Skipped[0].Message, "invalid date")
	assert.Contains(t, result.Skipped[1].Message, "missing jurisdiction")
	assert.Contains(t, result.Skipped[2].Message, "invalid amount")
}

func TestParseFile_MissingRequiredColumn(t *testing.T) {
	data := "date,amount\n2023-01-15,100\n"

	_, err := ParseFile(strings.NewReader(data), domain.FileTypeCSV, uuid.New(), 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "jurisdiction")
}

func TestParseFile_EmptyFile(t *testing.T) {
	_, err := ParseFile(strings.NewReader("date,jurisdiction,amount\n"), domain.FileTypeCSV, uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrNoTransactions)
}

func TestParseFile_RowLimit(t *testing.T) {
	data := strings.Join([]string{
		"date,jurisdiction,amount",
		"2023-01-15,CA,100",
		"2023-01-16,CA,100",
		"2023-01-17,CA,100",
	}, "\n")

	_, err := ParseFile(strings.NewReader(data), domain.FileTypeCSV, uuid.New(), 2)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}

func TestParseFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "State", "Amount", "Channel"},
		{"2023-01-15", "CA", "150.25", "direct"},
		{"2023-02-20", "WA", "75.00", "marketplace"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	result, err := ParseFile(&buf, domain.FileTypeXLSX, uuid.New(), 0)

	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "CA", result.Transactions[0].JurisdictionCode)
	assert.True(t, result.Transactions[0].GrossAmount.Equal(decimal.RequireFromString("150.25")))
	assert.Equal(t, domain.ChannelMarketplace, result.Transactions[1].Channel)
}

func TestParseFile_UnsupportedType(t *testing.T) {
	_, err := ParseFile(strings.NewReader("x"), domain.FileType("pdf"), uuid.New(), 0)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}
