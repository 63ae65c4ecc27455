package sheettable

import (
	"errors"
	"fmt"
)

type cellRecord struct {
	Value Value
	Type  DataType
}

type formatRecord struct {
	Range  Range
	Format Format
}

type conditionalRecord struct {
	Range      Range
	Expression string
	Format     Format
}

// memWorkbook records everything the writer does, for assertions.
type memWorkbook struct {
	sheets      []*memSheet
	failNewPage error
}

func newMemWorkbook() *memWorkbook {
	wb := &memWorkbook{}
	wb.add()
	return wb
}

func (wb *memWorkbook) add() *memSheet {
	s := &memSheet{
		wb:      wb,
		title:   fmt.Sprintf("Sheet%d", len(wb.sheets)+1),
		cells:   make(map[[2]int]cellRecord),
		widths:  make(map[int]float64),
		heights: make(map[int]float64),
	}
	wb.sheets = append(wb.sheets, s)
	return s
}

func (wb *memWorkbook) NewSheet() (Sheet, error) {
	if wb.failNewPage != nil {
		return nil, wb.failNewPage
	}
	return wb.add(), nil
}

type memSheet struct {
	wb      *memWorkbook
	title   string
	cells   map[[2]int]cellRecord
	formats []formatRecord
	widths  map[int]float64
	heights map[int]float64
	filters []Range
	conds   []conditionalRecord

	frozen       bool
	freezeCol    int
	freezeRow    int
	selected     bool
	selectCol    int
	selectRow    int
	failSetCell  error
	failSetTitle error
}

func (s *memSheet) Workbook() Workbook { return s.wb }
func (s *memSheet) Title() string      { return s.title }

func (s *memSheet) SetTitle(title string) error {
	if s.failSetTitle != nil {
		return s.failSetTitle
	}
	s.title = title
	return nil
}

func (s *memSheet) SetCell(col, row int, v Value, t DataType) error {
	if s.failSetCell != nil {
		return s.failSetCell
	}
	s.cells[[2]int{col, row}] = cellRecord{Value: v, Type: t}
	return nil
}

func (s *memSheet) ApplyFormat(r Range, f Format) error {
	if r.ToCol < r.FromCol || r.ToRow < r.FromRow {
		return errors.New("inverted range")
	}
	s.formats = append(s.formats, formatRecord{Range: r, Format: f})
	return nil
}

func (s *memSheet) SetColumnWidth(col int, width float64) error {
	s.widths[col] = width
	return nil
}

func (s *memSheet) SetRowHeight(row int, height float64) error {
	s.heights[row] = height
	return nil
}

func (s *memSheet) SetAutoFilter(r Range) error {
	s.filters = append(s.filters, r)
	return nil
}

func (s *memSheet) SetConditionalFormat(r Range, expression string, f Format) error {
	s.conds = append(s.conds, conditionalRecord{Range: r, Expression: expression, Format: f})
	return nil
}

func (s *memSheet) FreezePanes(col, row int) error {
	s.frozen, s.freezeCol, s.freezeRow = true, col, row
	return nil
}

func (s *memSheet) SelectCell(col, row int) error {
	s.selected, s.selectCol, s.selectRow = true, col, row
	return nil
}

// text returns the cell's text, "" when empty or null.
func (s *memSheet) text(col, row int) string {
	return s.cells[[2]int{col, row}].Value.Text()
}

func (s *memSheet) cell(col, row int) (cellRecord, bool) {
	c, ok := s.cells[[2]int{col, row}]
	return c, ok
}

// formatAt returns the last format applied to a range covering the cell.
func (s *memSheet) formatAt(col, row int) (Format, bool) {
	for i := len(s.formats) - 1; i >= 0; i-- {
		r := s.formats[i].Range
		if col >= r.FromCol && col <= r.ToCol && row >= r.FromRow && row <= r.ToRow {
			return s.formats[i].Format, true
		}
	}
	return Format{}, false
}

// countingRows fails the test path if Next is called after exhaustion.
type countingRows struct {
	rows      []Row
	pos       int
	calls     int
	afterDone int
}

func (c *countingRows) Next() (Row, bool, error) {
	c.calls++
	if c.pos >= len(c.rows) {
		if c.pos > len(c.rows) {
			c.afterDone++
		}
		c.pos = len(c.rows) + 1
		return nil, false, nil
	}
	r := c.rows[c.pos]
	c.pos++
	return r, true, nil
}

func descriptions(values ...string) []Row {
	rows := make([]Row, len(values))
	for i, v := range values {
		rows[i] = RowOf("description", v)
	}
	return rows
}
