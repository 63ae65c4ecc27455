package sheettable

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ColumnStyle describes how a column's values are typed and how its data
// range is styled. StyleCell is called once per column per fragment, after
// every row of every fragment has been written.
type ColumnStyle interface {
	DataType() DataType
	StyleCell(f *Format)
}

// ContentDecorator is implemented by styles that transform each value before
// it is written.
type ContentDecorator interface {
	ColumnStyle
	Decorate(v Value) Value
}

// Resetter is implemented by styles that carry state across Decorate calls.
// The writer resets them at the start of every write.
type Resetter interface {
	Reset()
}

// Number formats used by the built-in styles.
const (
	IntegerFormat    = "#,##0"
	AmountFormat     = "#,##0.00"
	PercentageFormat = "#,##0.000"
	DateFormat       = "dd/mm/yyyy"
	FiscalCodeFormat = "00000000000"
)

// Text is a left aligned string column.
type Text struct{}

func (Text) DataType() DataType { return DataTypeString }

func (Text) StyleCell(f *Format) {
	f.Horizontal = AlignLeft
}

// Integer is a centered numeric column without decimals.
type Integer struct{}

func (Integer) DataType() DataType { return DataTypeNumeric }

func (Integer) StyleCell(f *Format) {
	f.Horizontal = AlignCenter
	f.NumberFormat = IntegerFormat
}

// Percentage is a numeric column with three decimals.
type Percentage struct{}

func (Percentage) DataType() DataType { return DataTypeNumeric }

func (Percentage) StyleCell(f *Format) {
	f.NumberFormat = PercentageFormat
}

// Amount is a numeric column with two decimals and thousands separators.
type Amount struct{}

func (Amount) DataType() DataType { return DataTypeNumeric }

func (Amount) StyleCell(f *Format) {
	f.NumberFormat = AmountFormat
}

var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// Date stores ISO dates (2006-01-02) as spreadsheet serial day numbers.
type Date struct{}

func (Date) DataType() DataType { return DataTypeNumeric }

func (Date) StyleCell(f *Format) {
	f.Horizontal = AlignCenter
	f.NumberFormat = DateFormat
}

// Decorate converts an ISO date to its serial number. Values that are not
// ISO dates are returned unchanged.
func (Date) Decorate(v Value) Value {
	if v.Kind() != KindString {
		return v
	}
	s := v.Text()
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return v
	}
	return Int(int64(t.Sub(excelEpoch).Hours() / 24))
}

// PaddedInteger is a numeric column left-padded with zeros to the longest
// value written in it.
type PaddedInteger struct {
	maxLength int
}

func (*PaddedInteger) DataType() DataType { return DataTypeNumeric }

func (p *PaddedInteger) StyleCell(f *Format) {
	f.Horizontal = AlignCenter
	if p.maxLength > 0 {
		f.NumberFormat = strings.Repeat("0", p.maxLength)
	}
}

// Decorate records the value's length.
func (p *PaddedInteger) Decorate(v Value) Value {
	if v.IsNull() {
		return v
	}
	if n := utf8.RuneCountInString(v.Text()); n > p.maxLength {
		p.maxLength = n
	}
	return v
}

// MaxLength returns the longest value length seen since the last Reset.
func (p *PaddedInteger) MaxLength() int { return p.maxLength }

func (p *PaddedInteger) Reset() { p.maxLength = 0 }

// FiscalCode is a left aligned tax code column. Numeric codes keep their
// eleven digits; text codes are normalised to upper case without blanks.
type FiscalCode struct{}

func (FiscalCode) DataType() DataType { return DataTypeString }

func (FiscalCode) StyleCell(f *Format) {
	f.NumberFormat = FiscalCodeFormat
	f.Horizontal = AlignLeft
}

func (FiscalCode) Decorate(v Value) Value {
	if v.Kind() != KindString {
		return v
	}
	return String(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, v.Text()))
}
