package sheettable

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
)

const (
	// DefaultRowsPerSheet is the row budget of one sheet before a table is
	// continued on a new one.
	DefaultRowsPerSheet = 262144

	// sheetTitleBase is how much of the original sheet title survives when
	// fragments are renamed; 21 + " (NN|NN)" fits the 30 character limit.
	sheetTitleBase = 21

	// ZebraExpression marks even rows for the striping rule.
	ZebraExpression = "MOD(ROW(),2)=0"

	// DefaultZebraColor is the fill of even data rows.
	DefaultZebraColor = "E8E8E8"

	// DefaultHeaderColor is the fill of the column header row.
	DefaultHeaderColor = "CCCCCC"
)

// TableWriter renders tables onto sheets, splitting them across sheets when
// the row budget is exceeded.
type TableWriter struct {
	rowsPerSheet      int
	emptyTableMessage string
	zebraColor        string
	headerColor       string
	logger            zerolog.Logger
}

// WriterOption configures a TableWriter.
type WriterOption func(*TableWriter)

// WithRowsPerSheet sets the last row a fragment may write data to before the
// table continues on a new sheet.
func WithRowsPerSheet(rows int) WriterOption {
	return func(w *TableWriter) {
		if rows > 0 {
			w.rowsPerSheet = rows
		}
	}
}

// WithEmptyTableMessage sets the text written in place of an empty table.
func WithEmptyTableMessage(msg string) WriterOption {
	return func(w *TableWriter) {
		w.emptyTableMessage = msg
	}
}

// WithZebraColor sets the fill of even data rows.
func WithZebraColor(color string) WriterOption {
	return func(w *TableWriter) {
		if color != "" {
			w.zebraColor = strings.TrimPrefix(color, "#")
		}
	}
}

// WithHeaderColor sets the fill of the column header row.
func WithHeaderColor(color string) WriterOption {
	return func(w *TableWriter) {
		if color != "" {
			w.headerColor = strings.TrimPrefix(color, "#")
		}
	}
}

// WithLogger sets the logger used for pagination and rendering events.
func WithLogger(logger zerolog.Logger) WriterOption {
	return func(w *TableWriter) {
		w.logger = logger
	}
}

// NewTableWriter returns a TableWriter.
func NewTableWriter(opts ...WriterOption) *TableWriter {
	w := &TableWriter{
		rowsPerSheet: DefaultRowsPerSheet,
		zebraColor:   DefaultZebraColor,
		headerColor:  DefaultHeaderColor,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RowsPerSheet returns the configured row budget.
func (w *TableWriter) RowsPerSheet() int { return w.rowsPerSheet }

// WriteTable writes table and returns its fragments, one per sheet, in
// order. The row sequence is consumed exactly once. On error the sheets are
// left as far as they were written.
func (w *TableWriter) WriteTable(table *Table) ([]*Table, error) {
	resetStyles(table.ColumnCollection())

	if err := w.writeTableHeading(table); err != nil {
		return nil, err
	}

	tables := []*Table{table}
	counts := []int{0}
	total := 0
	headerPending := true

	for {
		row, ok, err := table.Data().Next()
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", total+1, err)
		}
		if !ok {
			break
		}

		// A fragment always receives at least one row, so a tiny budget
		// cannot produce sheets holding only a heading.
		if counts[len(counts)-1] > 0 && table.RowCurrent() > w.rowsPerSheet {
			table.SetCount(counts[len(counts)-1])
			next, err := table.SplitOnNewSheet()
			if err != nil {
				return nil, err
			}
			w.logger.Debug().
				Str("heading", table.Heading()).
				Int("fragment", len(tables)+1).
				Int("rows_written", total).
				Msg("table continued on new sheet")

			table = next
			tables = append(tables, table)
			counts = append(counts, 0)
			if err := w.writeTableHeading(table); err != nil {
				return nil, err
			}
			headerPending = true
		}

		if headerPending {
			if err := w.writeColumnsHeading(table, row); err != nil {
				return nil, err
			}
			headerPending = false
		}

		if err := w.writeRow(table, row, false); err != nil {
			return nil, err
		}
		counts[len(counts)-1]++
		total++
	}

	if err := renameFragments(tables); err != nil {
		return nil, err
	}

	for _, t := range tables {
		if err := w.styleColumns(t); err != nil {
			return nil, err
		}
	}

	for _, t := range tables {
		if !t.FreezePanes() {
			continue
		}
		if err := t.Sheet().FreezePanes(1, t.RowStart()+2); err != nil {
			return nil, fmt.Errorf("freeze panes on %q: %w", t.Sheet().Title(), err)
		}
	}

	if total > 0 {
		for _, t := range tables {
			if err := w.decorateDataRange(t); err != nil {
				return nil, err
			}
		}
	} else {
		if err := w.writeEmptyTableMessage(table); err != nil {
			return nil, err
		}
	}

	for i, t := range tables {
		t.SetCount(counts[i])
	}

	w.logger.Debug().
		Str("heading", tables[0].Heading()).
		Int("rows", total).
		Int("sheets", len(tables)).
		Msg("table written")

	return tables, nil
}

func (w *TableWriter) baseFormat(t *Table) Format {
	return Format{
		WrapText: t.TextWrap(),
		Font:     FontFormat{Size: t.FontSize()},
	}
}

func (w *TableWriter) writeTableHeading(t *Table) error {
	t.ResetColumn()
	col, row := t.ColumnCurrent(), t.RowCurrent()
	sheet := t.Sheet()
	if err := sheet.SetCell(col, row, String(SanitizeString(t.Heading())), DataTypeString); err != nil {
		return fmt.Errorf("write heading: %w", err)
	}
	f := Format{Font: FontFormat{Size: t.FontSize() + 2}}
	if err := sheet.ApplyFormat(CellRange(col, row, col, row), f); err != nil {
		return fmt.Errorf("style heading: %w", err)
	}
	t.IncrementRow()
	return nil
}

func (w *TableWriter) writeColumnsHeading(t *Table, row Row) error {
	cc := t.ColumnCollection()
	sheet := t.Sheet()

	t.ResetColumn()
	titles := make(Row, 0, len(row))
	written := make(map[int]string, len(row))
	for _, field := range row {
		width := float64(DefaultColumnWidth)
		title := FallbackTitle(field.Key)
		if col, ok := cc.Get(field.Key); ok {
			width = col.effectiveWidth()
			title = col.Heading
		}
		if err := sheet.SetColumnWidth(t.ColumnCurrent(), width); err != nil {
			return fmt.Errorf("set width of column %q: %w", field.Key, err)
		}
		written[t.ColumnCurrent()] = field.Key
		titles = append(titles, Field{Key: field.Key, Value: String(title)})
		t.IncrementColumn()
	}

	headerRow := t.RowCurrent()
	if err := w.writeRow(t, titles, true); err != nil {
		return err
	}

	if len(titles) > 0 {
		f := w.baseFormat(t)
		f.WrapText = true
		f.Horizontal = AlignCenter
		f.Vertical = AlignCenter
		f.Font.Bold = true
		f.Fill = FillFormat{Pattern: 1, Color: w.headerColor}
		f.Border = BorderFormat{Style: BorderThin, Color: "999999"}
		rng := CellRange(t.ColumnStart(), headerRow, t.ColumnStart()+len(titles)-1, headerRow)
		if err := sheet.ApplyFormat(rng, f); err != nil {
			return fmt.Errorf("style column headers: %w", err)
		}
	}

	t.SetWrittenColumns(written)
	return t.FlagDataRowStart()
}

func (w *TableWriter) writeRow(t *Table, row Row, title bool) error {
	cc := t.ColumnCollection()
	sheet := t.Sheet()

	t.ResetColumn()
	for _, field := range row {
		v := Sanitize(field.Value)
		dataType := DataTypeString
		if !title {
			if style, ok := columnStyle(cc, field.Key); ok {
				if d, ok := style.(ContentDecorator); ok {
					v = d.Decorate(v)
				}
				dataType = style.DataType()
			}
		}
		if v.IsNull() {
			dataType = DataTypeNull
		}
		if err := sheet.SetCell(t.ColumnCurrent(), t.RowCurrent(), v, dataType); err != nil {
			return fmt.Errorf("write %q at row %d: %w", field.Key, t.RowCurrent(), err)
		}
		t.IncrementColumn()
	}

	if h := t.RowHeight(); h > 0 {
		if err := sheet.SetRowHeight(t.RowCurrent(), h); err != nil {
			return fmt.Errorf("set height of row %d: %w", t.RowCurrent(), err)
		}
	}
	t.IncrementRow()
	return nil
}

// styleColumns applies each column's style over the data rows of one
// fragment. It runs only after all fragments are written so that stateful
// styles have seen every value.
func (w *TableWriter) styleColumns(t *Table) error {
	if !t.HasDataRowStart() {
		return nil
	}
	first, _ := t.DataRowStart()
	last := t.RowEnd() - 1
	if last < first {
		return nil
	}

	cc := t.ColumnCollection()
	written := t.WrittenColumns()
	for _, col := range sortedColumns(written) {
		key := written[col]
		f := w.baseFormat(t)
		if style, ok := columnStyle(cc, key); ok {
			style.StyleCell(&f)
		}
		if err := t.Sheet().ApplyFormat(CellRange(col, first, col, last), f); err != nil {
			return fmt.Errorf("style column %q: %w", key, err)
		}
	}
	return nil
}

func (w *TableWriter) decorateDataRange(t *Table) error {
	first, err := t.DataRowStart()
	if err != nil {
		return err
	}
	sheet := t.Sheet()
	lastCol, lastRow := t.ColumnEnd()-1, t.RowEnd()-1

	// Rows without fields leave no column to filter or stripe.
	if lastCol >= t.ColumnStart() {
		if err := sheet.SetAutoFilter(CellRange(t.ColumnStart(), first-1, lastCol, lastRow)); err != nil {
			return fmt.Errorf("autofilter on %q: %w", sheet.Title(), err)
		}
		zebra := Format{Fill: FillFormat{Pattern: 1, Color: w.zebraColor}}
		if err := sheet.SetConditionalFormat(CellRange(t.ColumnStart(), first, lastCol, lastRow), ZebraExpression, zebra); err != nil {
			return fmt.Errorf("zebra striping on %q: %w", sheet.Title(), err)
		}
	}
	if err := sheet.SelectCell(t.ColumnStart(), first); err != nil {
		return fmt.Errorf("select cell on %q: %w", sheet.Title(), err)
	}
	return nil
}

func (w *TableWriter) writeEmptyTableMessage(t *Table) error {
	t.IncrementRow()
	if err := t.Sheet().SetCell(t.ColumnCurrent(), t.RowCurrent(), String(w.emptyTableMessage), DataTypeString); err != nil {
		return fmt.Errorf("write empty table message: %w", err)
	}
	t.IncrementRow()
	return nil
}

func renameFragments(tables []*Table) error {
	if len(tables) < 2 {
		return nil
	}
	base := truncateRunes(tables[0].Sheet().Title(), sheetTitleBase)
	for i, t := range tables {
		title := fmt.Sprintf("%s (%d|%d)", base, i+1, len(tables))
		if err := t.Sheet().SetTitle(title); err != nil {
			return fmt.Errorf("rename sheet to %q: %w", title, err)
		}
	}
	return nil
}

func resetStyles(cc *ColumnCollection) {
	for _, col := range cc.Columns() {
		if r, ok := col.Style.(Resetter); ok {
			r.Reset()
		}
	}
}

func columnStyle(cc *ColumnCollection, key string) (ColumnStyle, bool) {
	col, ok := cc.Get(key)
	if !ok || col.Style == nil {
		return nil, false
	}
	return col.Style, true
}

func sortedColumns(m map[int]string) []int {
	cols := make([]int, 0, len(m))
	for c := range m {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// FallbackTitle derives a column title from a data key: underscores become
// spaces and every word is capitalised.
func FallbackTitle(key string) string {
	var sb strings.Builder
	sb.Grow(len(key))
	upper := true
	for _, r := range key {
		if r == '_' {
			r = ' '
		}
		if upper {
			r = unicode.ToUpper(r)
		}
		upper = unicode.IsSpace(r)
		sb.WriteRune(r)
	}
	return sb.String()
}
