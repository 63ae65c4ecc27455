package sheettable

// DefaultColumnWidth is used for keys without a column definition and for
// columns declared with a non-positive width.
const DefaultColumnWidth = 10

// Column binds a data key to its heading, display width and style.
type Column struct {
	Key     string
	Heading string
	Width   int
	Style   ColumnStyle
}

// NewColumn returns a Column.
func NewColumn(key, heading string, width int, style ColumnStyle) Column {
	return Column{Key: key, Heading: heading, Width: width, Style: style}
}

func (c Column) effectiveWidth() float64 {
	if c.Width <= 0 {
		return DefaultColumnWidth
	}
	return float64(c.Width)
}

// ColumnCollection is an ordered, read-only set of columns indexed by key.
// The zero value and a nil pointer are both an empty collection.
type ColumnCollection struct {
	order []string
	byKey map[string]Column
}

// NewColumnCollection builds a collection from cols. Keys must be unique.
func NewColumnCollection(cols ...Column) (*ColumnCollection, error) {
	cc := &ColumnCollection{
		order: make([]string, 0, len(cols)),
		byKey: make(map[string]Column, len(cols)),
	}
	for _, col := range cols {
		if _, ok := cc.byKey[col.Key]; ok {
			return nil, &DuplicateColumnError{Key: col.Key}
		}
		cc.order = append(cc.order, col.Key)
		cc.byKey[col.Key] = col
	}
	return cc, nil
}

// Get returns the column declared for key.
func (cc *ColumnCollection) Get(key string) (Column, bool) {
	if cc == nil {
		return Column{}, false
	}
	col, ok := cc.byKey[key]
	return col, ok
}

// Has reports whether key is declared.
func (cc *ColumnCollection) Has(key string) bool {
	_, ok := cc.Get(key)
	return ok
}

// Len returns the number of columns.
func (cc *ColumnCollection) Len() int {
	if cc == nil {
		return 0
	}
	return len(cc.order)
}

// Keys returns the column keys in declaration order.
func (cc *ColumnCollection) Keys() []string {
	if cc == nil {
		return nil
	}
	return append([]string(nil), cc.order...)
}

// Columns returns a copy of the columns in declaration order.
func (cc *ColumnCollection) Columns() []Column {
	if cc == nil {
		return nil
	}
	cols := make([]Column, len(cc.order))
	for i, key := range cc.order {
		cols[i] = cc.byKey[key]
	}
	return cols
}

// ColumnsBuilder collects columns for a ColumnCollection.
type ColumnsBuilder struct {
	cols []Column
}

// NewColumns starts a ColumnsBuilder.
func NewColumns() *ColumnsBuilder {
	return &ColumnsBuilder{}
}

// Add appends a column.
func (b *ColumnsBuilder) Add(key, heading string, width int, style ColumnStyle) *ColumnsBuilder {
	b.cols = append(b.cols, NewColumn(key, heading, width, style))
	return b
}

// Build returns the collection; it fails on duplicate keys.
func (b *ColumnsBuilder) Build() (*ColumnCollection, error) {
	return NewColumnCollection(b.cols...)
}
