package sheettable

import "fmt"

// SheetOriginRow is the row a continuation fragment starts at.
const SheetOriginRow = 1

// DefaultFontSize is the font size of a new Table.
const DefaultFontSize = 10

// Table is the layout state of one fragment of a table: the sheet it lives
// on, the cursor, the extent written so far and the table configuration.
//
// End coordinates are one past the last row/column the cursor has left,
// i.e. RowEnd == RowCurrent after writing sequentially.
type Table struct {
	sheet Sheet

	rowStart, rowCurrent, rowEnd          int
	columnStart, columnCurrent, columnEnd int

	dataRowStart    int
	dataRowStartSet bool

	heading          string
	data             RowIterator
	columnCollection *ColumnCollection
	freezePanes      bool
	fontSize         float64
	rowHeight        float64
	textWrap         bool

	writtenColumns map[int]string

	count    int
	countSet bool
}

// NewTable returns a table whose heading goes at (column, row) of sheet.
func NewTable(sheet Sheet, row, column int, heading string, data RowIterator) *Table {
	if data == nil {
		data = NewSliceRows()
	}
	return &Table{
		sheet:         sheet,
		rowStart:      row,
		rowCurrent:    row,
		rowEnd:        row,
		columnStart:   column,
		columnCurrent: column,
		columnEnd:     column,
		heading:       heading,
		data:          data,
		freezePanes:   true,
		fontSize:      DefaultFontSize,
	}
}

func (t *Table) Sheet() Sheet { return t.sheet }

func (t *Table) RowStart() int   { return t.rowStart }
func (t *Table) RowCurrent() int { return t.rowCurrent }
func (t *Table) RowEnd() int     { return t.rowEnd }

func (t *Table) ColumnStart() int   { return t.columnStart }
func (t *Table) ColumnCurrent() int { return t.columnCurrent }
func (t *Table) ColumnEnd() int     { return t.columnEnd }

// IncrementRow moves the cursor one row down.
func (t *Table) IncrementRow() {
	t.rowCurrent++
	if t.rowCurrent > t.rowEnd {
		t.rowEnd = t.rowCurrent
	}
}

// IncrementColumn moves the cursor one column right.
func (t *Table) IncrementColumn() {
	t.columnCurrent++
	if t.columnCurrent > t.columnEnd {
		t.columnEnd = t.columnCurrent
	}
}

// ResetColumn moves the cursor back to the first column. The column extent
// is kept.
func (t *Table) ResetColumn() {
	t.columnCurrent = t.columnStart
}

// FlagDataRowStart records the current row as the first data row. It may be
// called once per fragment.
func (t *Table) FlagDataRowStart() error {
	if t.dataRowStartSet {
		return preconditionError("flag data row start", ErrDataRowStartAlreadyFlagged)
	}
	t.dataRowStart = t.rowCurrent
	t.dataRowStartSet = true
	return nil
}

// DataRowStart returns the first data row.
func (t *Table) DataRowStart() (int, error) {
	if !t.dataRowStartSet {
		return 0, preconditionError("data row start", ErrDataRowStartNotFlagged)
	}
	return t.dataRowStart, nil
}

// HasDataRowStart reports whether column headers have been written.
func (t *Table) HasDataRowStart() bool { return t.dataRowStartSet }

func (t *Table) Heading() string { return t.heading }

// Data returns the row sequence. It is shared by all fragments of a table.
func (t *Table) Data() RowIterator { return t.data }

func (t *Table) SetColumnCollection(cc *ColumnCollection) { t.columnCollection = cc }

// ColumnCollection returns the declared columns, possibly nil.
func (t *Table) ColumnCollection() *ColumnCollection { return t.columnCollection }

func (t *Table) SetFreezePanes(freeze bool) { t.freezePanes = freeze }
func (t *Table) FreezePanes() bool          { return t.freezePanes }

func (t *Table) SetFontSize(size float64) { t.fontSize = size }
func (t *Table) FontSize() float64        { return t.fontSize }

// SetRowHeight fixes the height of every written row. Zero leaves rows at
// the engine default.
func (t *Table) SetRowHeight(height float64) { t.rowHeight = height }
func (t *Table) RowHeight() float64          { return t.rowHeight }

func (t *Table) SetTextWrap(wrap bool) { t.textWrap = wrap }
func (t *Table) TextWrap() bool        { return t.textWrap }

// SetWrittenColumns records which key was written in each physical column.
// The table keeps its own copy of cols.
func (t *Table) SetWrittenColumns(cols map[int]string) { t.writtenColumns = copyColumns(cols) }

// WrittenColumns returns a copy of the physical column to key mapping of the
// header row, or nil before headers are written.
func (t *Table) WrittenColumns() map[int]string { return copyColumns(t.writtenColumns) }

func copyColumns(cols map[int]string) map[int]string {
	if cols == nil {
		return nil
	}
	out := make(map[int]string, len(cols))
	for col, key := range cols {
		out[col] = key
	}
	return out
}

func (t *Table) SetCount(n int) {
	t.count = n
	t.countSet = true
}

// Count returns the number of data rows written to this fragment.
func (t *Table) Count() (int, error) {
	if !t.countSet {
		return 0, preconditionError("count", ErrCountNotSet)
	}
	return t.count, nil
}

// IsEmpty reports whether no data row was written to this fragment.
func (t *Table) IsEmpty() (bool, error) {
	n, err := t.Count()
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// SplitOnNewSheet returns the continuation of t on a new sheet of the same
// workbook. Rows restart at SheetOriginRow, columns start where t starts, and
// configuration and data are carried over.
func (t *Table) SplitOnNewSheet() (*Table, error) {
	sheet, err := t.sheet.Workbook().NewSheet()
	if err != nil {
		return nil, fmt.Errorf("split table %q: %w", t.heading, err)
	}
	next := NewTable(sheet, SheetOriginRow, t.columnStart, t.heading, t.data)
	next.columnCollection = t.columnCollection
	next.freezePanes = t.freezePanes
	next.fontSize = t.fontSize
	next.rowHeight = t.rowHeight
	next.textWrap = t.textWrap
	return next, nil
}
