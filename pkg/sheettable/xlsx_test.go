package sheettable

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeAndRead(t *testing.T, doc *Document) *excelize.File {
	t.Helper()
	buf := new(bytes.Buffer)
	_, err := doc.WriteTo(buf)
	require.NoError(t, err)
	require.NoError(t, doc.Close())

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func rawValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := NewDocument()
	sheet := doc.ActiveSheet()
	table := NewTable(sheet, 3, 4, "Heading_xyz", NewSliceRows(descriptions("AAA", "BBB")...))

	_, err := NewTableWriter().WriteTable(table)
	require.NoError(t, err)

	f := writeAndRead(t, doc)
	name := sheet.Title()
	assert.Equal(t, "Heading_xyz", rawValue(t, f, name, "D3"))
	assert.Equal(t, "Description", rawValue(t, f, name, "D4"))
	assert.Equal(t, "AAA", rawValue(t, f, name, "D5"))
	assert.Equal(t, "BBB", rawValue(t, f, name, "D6"))
	assert.Equal(t, "", rawValue(t, f, name, "D7"))

	width, err := f.GetColWidth(name, "D")
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultColumnWidth), width)
}

func TestDocumentHandlesEncoding(t *testing.T) {
	special := strings.Join([]string{
		"€",
		"VIA MARTIRI DELLA LIBERTà 2",
		"FISSO20+OPZ.I¢CASA EURIB 3",
		"1° MAGGIO",
		"FINANZIAMENTO 13/14¬ MENSILITà",
		"A '\\|!\"£$%&/()=?^àèìòùáéíóúÀÈÌÒÙÁÉÍÓÚ<>*ç°§[]@#{},.-;:_~` Z",
	}, " # ")
	heading := "Heading: " + special
	data := "Data: " + special

	doc := NewDocument()
	sheet := doc.ActiveSheet()
	title := sheet.Title()
	_, err := NewTableWriter().WriteTable(NewTable(sheet, 1, 1, heading, NewSliceRows(RowOf("description", data))))
	require.NoError(t, err)

	f := writeAndRead(t, doc)
	assert.Equal(t, []string{title}, f.GetSheetList())
	assert.Equal(t, heading, rawValue(t, f, title, "A1"))
	assert.Equal(t, data, rawValue(t, f, title, "A3"))
}

func TestDocumentCellTypes(t *testing.T) {
	doc := NewDocument()
	sheet := doc.ActiveSheet()
	cc, err := NewColumns().
		Add("my_text", "Foo1", 11, Text{}).
		Add("my_perc", "Foo2", 12, Percentage{}).
		Add("my_inte", "Foo3", 13, Integer{}).
		Add("my_date", "Foo4", 14, Date{}).
		Add("my_amnt", "Foo5", 15, Amount{}).
		Add("my_code", "Foo6", 16, &PaddedInteger{}).
		Add("my_nodd", "Foo7", 14, Date{}).
		Build()
	require.NoError(t, err)

	table := NewTable(sheet, 2, 1, "Types", NewSliceRows(RowOf(
		"my_text", "text",
		"my_perc", 3.45,
		"my_inte", 1234567.8,
		"my_date", "2017-03-02",
		"my_amnt", 1234567.89,
		"my_code", "00123",
		"my_nodd", nil,
	)))
	table.SetColumnCollection(cc)
	_, err = NewTableWriter().WriteTable(table)
	require.NoError(t, err)

	f := writeAndRead(t, doc)
	name := sheet.Title()
	expected := map[string]string{
		"A1": "",
		"A2": "Types",
		"A3": "Foo1",
		"G3": "Foo7",
		"A4": "text",
		"B4": "3.45",
		"C4": "1234567.8",
		"D4": "42796",
		"E4": "1234567.89",
		"F4": "123",
		"G4": "",
	}
	for cell, want := range expected {
		assert.Equal(t, want, rawValue(t, f, name, cell), cell)
	}

	width, err := f.GetColWidth(name, "E")
	require.NoError(t, err)
	assert.Equal(t, 15.0, width)
}

func TestDocumentPagination(t *testing.T) {
	doc := NewDocument()
	first, err := doc.AddSheet("names")
	require.NoError(t, err)
	table := NewTable(first, 2, 3, "People", NewSliceRows(descriptions("AAA", "BBB", "CCC", "DDD", "EEE")...))

	tables, err := NewTableWriter(WithRowsPerSheet(6)).WriteTable(table)
	require.NoError(t, err)
	require.Len(t, tables, 2)

	f := writeAndRead(t, doc)
	assert.Contains(t, f.GetSheetList(), "names (1|2)")
	assert.Contains(t, f.GetSheetList(), "names (2|2)")

	assert.Equal(t, "People", rawValue(t, f, "names (1|2)", "C2"))
	assert.Equal(t, "Description", rawValue(t, f, "names (1|2)", "C3"))
	assert.Equal(t, "CCC", rawValue(t, f, "names (1|2)", "C6"))
	assert.Equal(t, "", rawValue(t, f, "names (1|2)", "C7"))

	assert.Equal(t, "People", rawValue(t, f, "names (2|2)", "C1"))
	assert.Equal(t, "Description", rawValue(t, f, "names (2|2)", "C2"))
	assert.Equal(t, "DDD", rawValue(t, f, "names (2|2)", "C3"))
	assert.Equal(t, "EEE", rawValue(t, f, "names (2|2)", "C4"))
	assert.Equal(t, "", rawValue(t, f, "names (2|2)", "C5"))
}

func TestDocumentEmptyTable(t *testing.T) {
	doc := NewDocument()
	sheet := doc.ActiveSheet()
	_, err := NewTableWriter(WithEmptyTableMessage("no_data_42")).WriteTable(NewTable(sheet, 1, 1, "Empty", NewSliceRows()))
	require.NoError(t, err)

	f := writeAndRead(t, doc)
	name := sheet.Title()
	assert.Equal(t, "Empty", rawValue(t, f, name, "A1"))
	assert.Equal(t, "", rawValue(t, f, name, "A2"))
	assert.Equal(t, "no_data_42", rawValue(t, f, name, "A3"))
	assert.Equal(t, "", rawValue(t, f, name, "A4"))
}

func TestDocumentRowsWithoutFields(t *testing.T) {
	doc := NewDocument()
	sheet := doc.ActiveSheet()
	tables, err := NewTableWriter().WriteTable(NewTable(sheet, 1, 1, "Blank", NewSliceRows(Row{}, Row{})))
	require.NoError(t, err)
	require.Len(t, tables, 1)

	f := writeAndRead(t, doc)
	name := sheet.Title()
	assert.Equal(t, "Blank", rawValue(t, f, name, "A1"))
	assert.Equal(t, "", rawValue(t, f, name, "A3"))
}

func TestDocumentRowHeight(t *testing.T) {
	doc := NewDocument()
	sheet := doc.ActiveSheet()
	table := NewTable(sheet, 1, 1, "Heights", NewSliceRows(RowOf("name", "Foo", "surname", "Bar")))
	table.SetFontSize(12)
	table.SetRowHeight(33)
	table.SetTextWrap(true)
	_, err := NewTableWriter().WriteTable(table)
	require.NoError(t, err)

	f := writeAndRead(t, doc)
	name := sheet.Title()
	assert.Equal(t, "Foo", rawValue(t, f, name, "A3"))
	h, err := f.GetRowHeight(name, 3)
	require.NoError(t, err)
	assert.Equal(t, 33.0, h)
}

func TestDocumentNewSheetNamesAreUnique(t *testing.T) {
	doc := NewDocument()
	_, err := doc.AddSheet("Worksheet 1")
	require.NoError(t, err)

	s, err := doc.NewSheet()
	require.NoError(t, err)
	assert.Equal(t, "Worksheet 2", s.Title())

	_, err = doc.Sheet("missing")
	assert.Error(t, err)
	got, err := doc.Sheet("Worksheet 2")
	require.NoError(t, err)
	assert.Equal(t, "Worksheet 2", got.Title())
}

func TestRangeRef(t *testing.T) {
	ref, err := CellRange(2, 3, 4, 10).Ref()
	require.NoError(t, err)
	assert.Equal(t, "B3:D10", ref)

	_, err = CellRange(0, 1, 1, 1).Ref()
	assert.Error(t, err)
}
