package sheettable

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DataType is the type a cell value is written with.
type DataType uint8

const (
	DataTypeString DataType = iota
	DataTypeNumeric
	DataTypeNull
)

func (t DataType) String() string {
	switch t {
	case DataTypeNumeric:
		return "numeric"
	case DataTypeNull:
		return "null"
	}
	return "string"
}

// Horizontal and vertical alignment values understood by Sheet implementations.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
	AlignTop    = "top"
	AlignBottom = "bottom"
)

// Border styles, numbered the way the xlsx format numbers them.
const (
	BorderNone   = 0
	BorderThin   = 1
	BorderMedium = 2
	BorderDashed = 3
	BorderDotted = 4
	BorderThick  = 5
)

// FontFormat is the font part of a Format. Zero Size keeps the engine default.
type FontFormat struct {
	Size  float64
	Bold  bool
	Color string // Hex color
}

// FillFormat is the background part of a Format. An empty Color means no fill.
type FillFormat struct {
	Pattern int // 1 = solid
	Color   string
}

// BorderFormat applies to all four edges of every cell of a range.
type BorderFormat struct {
	Style int
	Color string
}

// Format is the style handle a ColumnStyle (or the writer) fills in before it
// is applied to a range. An empty NumberFormat means the engine's general
// format.
type Format struct {
	NumberFormat string
	Horizontal   string
	Vertical     string
	WrapText     bool
	Font         FontFormat
	Fill         FillFormat
	Border       BorderFormat
}

// Range is a rectangle of cells, 1-based and inclusive on both ends.
type Range struct {
	FromCol, FromRow int
	ToCol, ToRow     int
}

// CellRange returns the range spanning (col1,row1)..(col2,row2).
func CellRange(col1, row1, col2, row2 int) Range {
	return Range{FromCol: col1, FromRow: row1, ToCol: col2, ToRow: row2}
}

// Ref returns the A1-style reference of r, e.g. "B3:D10".
func (r Range) Ref() (string, error) {
	from, err := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	if err != nil {
		return "", fmt.Errorf("range start: %w", err)
	}
	to, err := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	if err != nil {
		return "", fmt.Errorf("range end: %w", err)
	}
	return from + ":" + to, nil
}

// Workbook is the document a table is written into.
type Workbook interface {
	// NewSheet appends a fresh, uniquely named sheet to the document.
	NewSheet() (Sheet, error)
}

// Sheet is the spreadsheet surface the writer draws on. Coordinates are
// 1-based.
type Sheet interface {
	Workbook() Workbook
	Title() string
	SetTitle(title string) error
	SetCell(col, row int, v Value, t DataType) error
	ApplyFormat(r Range, f Format) error
	SetColumnWidth(col int, width float64) error
	SetRowHeight(row int, height float64) error
	SetAutoFilter(r Range) error
	SetConditionalFormat(r Range, expression string, f Format) error
	FreezePanes(col, row int) error
	SelectCell(col, row int) error
}
