package sheettable

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Document is a Workbook backed by an excelize file.
type Document struct {
	file *excelize.File
	// Performance caches, keyed by the full format.
	styleCache     map[Format]int
	condStyleCache map[Format]int
	sheetSeq       int
}

// NewDocument returns a Document over a new, empty file.
func NewDocument() *Document {
	return OpenDocument(excelize.NewFile())
}

// OpenDocument wraps an existing excelize file.
func OpenDocument(f *excelize.File) *Document {
	return &Document{
		file:           f,
		styleCache:     make(map[Format]int),
		condStyleCache: make(map[Format]int),
	}
}

// File returns the underlying excelize file.
func (d *Document) File() *excelize.File { return d.file }

// Sheet returns the existing sheet called name.
func (d *Document) Sheet(name string) (*Worksheet, error) {
	idx, err := d.file.GetSheetIndex(name)
	if err != nil {
		return nil, err
	}
	if idx == -1 {
		return nil, fmt.Errorf("sheet %q does not exist", name)
	}
	return &Worksheet{doc: d, name: name}, nil
}

// ActiveSheet returns the sheet currently selected in the file.
func (d *Document) ActiveSheet() *Worksheet {
	return &Worksheet{doc: d, name: d.file.GetSheetName(d.file.GetActiveSheetIndex())}
}

// AddSheet creates a sheet called name.
func (d *Document) AddSheet(name string) (*Worksheet, error) {
	if _, err := d.file.NewSheet(name); err != nil {
		return nil, fmt.Errorf("create sheet %q: %w", name, err)
	}
	return &Worksheet{doc: d, name: name}, nil
}

// NewSheet creates a sheet with a generated name.
func (d *Document) NewSheet() (Sheet, error) {
	for {
		d.sheetSeq++
		name := fmt.Sprintf("Worksheet %d", d.sheetSeq)
		idx, err := d.file.GetSheetIndex(name)
		if err != nil {
			return nil, err
		}
		if idx == -1 {
			return d.AddSheet(name)
		}
	}
}

// WriteTo writes the xlsx file to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	return d.file.WriteTo(w)
}

// SaveAs writes the xlsx file to path.
func (d *Document) SaveAs(path string) error {
	return d.file.SaveAs(path)
}

// Close releases the underlying file.
func (d *Document) Close() error {
	return d.file.Close()
}

func (d *Document) style(f Format) (int, error) {
	if id, ok := d.styleCache[f]; ok {
		return id, nil
	}
	id, err := d.file.NewStyle(toExcelizeStyle(f))
	if err != nil {
		return 0, err
	}
	d.styleCache[f] = id
	return id, nil
}

func (d *Document) conditionalStyle(f Format) (int, error) {
	if id, ok := d.condStyleCache[f]; ok {
		return id, nil
	}
	id, err := d.file.NewConditionalStyle(toExcelizeStyle(f))
	if err != nil {
		return 0, err
	}
	d.condStyleCache[f] = id
	return id, nil
}

func toExcelizeStyle(f Format) *excelize.Style {
	style := &excelize.Style{}
	if f.NumberFormat != "" {
		numFmt := f.NumberFormat
		style.CustomNumFmt = &numFmt
	}
	if f.Horizontal != "" || f.Vertical != "" || f.WrapText {
		style.Alignment = &excelize.Alignment{
			Horizontal: f.Horizontal,
			Vertical:   f.Vertical,
			WrapText:   f.WrapText,
		}
	}
	if f.Font != (FontFormat{}) {
		style.Font = &excelize.Font{
			Size:  f.Font.Size,
			Bold:  f.Font.Bold,
			Color: strings.TrimPrefix(f.Font.Color, "#"),
		}
	}
	if f.Fill.Color != "" {
		pattern := f.Fill.Pattern
		if pattern == 0 {
			pattern = 1
		}
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: pattern,
			Color:   []string{strings.TrimPrefix(f.Fill.Color, "#")},
		}
	}
	if f.Border.Style != BorderNone {
		color := strings.TrimPrefix(f.Border.Color, "#")
		for _, side := range []string{"left", "top", "right", "bottom"} {
			style.Border = append(style.Border, excelize.Border{Type: side, Color: color, Style: f.Border.Style})
		}
	}
	return style
}

// Worksheet is a Sheet of a Document.
type Worksheet struct {
	doc  *Document
	name string

	freezeCol, freezeRow int
	activeCell           string
}

func (s *Worksheet) Workbook() Workbook { return s.doc }

func (s *Worksheet) Title() string { return s.name }

func (s *Worksheet) SetTitle(title string) error {
	if title == s.name {
		return nil
	}
	if err := s.doc.file.SetSheetName(s.name, title); err != nil {
		return err
	}
	s.name = title
	return nil
}

func (s *Worksheet) SetCell(col, row int, v Value, t DataType) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	switch t {
	case DataTypeNull:
		return s.doc.file.SetCellValue(s.name, cell, nil)
	case DataTypeNumeric:
		if f, ok := v.Float(); ok {
			return s.doc.file.SetCellFloat(s.name, cell, f, -1, 64)
		}
		// Not a number after all: keep the text rather than lose it.
		return s.doc.file.SetCellStr(s.name, cell, v.Text())
	default:
		return s.doc.file.SetCellStr(s.name, cell, v.Text())
	}
}

func (s *Worksheet) ApplyFormat(r Range, f Format) error {
	id, err := s.doc.style(f)
	if err != nil {
		return err
	}
	from, err := excelize.CoordinatesToCellName(r.FromCol, r.FromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(r.ToCol, r.ToRow)
	if err != nil {
		return err
	}
	return s.doc.file.SetCellStyle(s.name, from, to, id)
}

func (s *Worksheet) SetColumnWidth(col int, width float64) error {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return err
	}
	return s.doc.file.SetColWidth(s.name, name, name, width)
}

func (s *Worksheet) SetRowHeight(row int, height float64) error {
	return s.doc.file.SetRowHeight(s.name, row, height)
}

func (s *Worksheet) SetAutoFilter(r Range) error {
	ref, err := r.Ref()
	if err != nil {
		return err
	}
	return s.doc.file.AutoFilter(s.name, ref, nil)
}

func (s *Worksheet) SetConditionalFormat(r Range, expression string, f Format) error {
	id, err := s.doc.conditionalStyle(f)
	if err != nil {
		return err
	}
	ref, err := r.Ref()
	if err != nil {
		return err
	}
	return s.doc.file.SetConditionalFormat(s.name, ref, []excelize.ConditionalFormatOptions{
		{Type: "formula", Criteria: expression, Format: id},
	})
}

// FreezePanes freezes the rows above row and the columns left of col.
func (s *Worksheet) FreezePanes(col, row int) error {
	s.freezeCol, s.freezeRow = col, row
	return s.applyPanes()
}

func (s *Worksheet) SelectCell(col, row int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	s.activeCell = cell
	return s.applyPanes()
}

// applyPanes writes the freeze and selection state together; excelize
// replaces both on every SetPanes call.
func (s *Worksheet) applyPanes() error {
	panes := &excelize.Panes{}
	pane := ""
	if s.freezeRow > 1 || s.freezeCol > 1 {
		xSplit, ySplit := s.freezeCol-1, s.freezeRow-1
		switch {
		case xSplit > 0 && ySplit > 0:
			pane = "bottomRight"
		case ySplit > 0:
			pane = "bottomLeft"
		default:
			pane = "topRight"
		}
		topLeft, err := excelize.CoordinatesToCellName(s.freezeCol, s.freezeRow)
		if err != nil {
			return err
		}
		panes.Freeze = true
		panes.XSplit = xSplit
		panes.YSplit = ySplit
		panes.TopLeftCell = topLeft
		panes.ActivePane = pane
	}
	if s.activeCell != "" {
		panes.Selection = []excelize.Selection{
			{SQRef: s.activeCell, ActiveCell: s.activeCell, Pane: pane},
		}
	}
	return s.doc.file.SetPanes(s.name, panes)
}
