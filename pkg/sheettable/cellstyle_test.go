package sheettable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinStylesDataTypes(t *testing.T) {
	tests := []struct {
		style ColumnStyle
		want  DataType
	}{
		{Text{}, DataTypeString},
		{Integer{}, DataTypeNumeric},
		{Percentage{}, DataTypeNumeric},
		{Amount{}, DataTypeNumeric},
		{Date{}, DataTypeNumeric},
		{&PaddedInteger{}, DataTypeNumeric},
		{FiscalCode{}, DataTypeString},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.style.DataType(), "%T", tt.style)
	}
}

func TestBuiltinStylesFormats(t *testing.T) {
	var f Format

	f = Format{}
	Amount{}.StyleCell(&f)
	assert.Equal(t, AmountFormat, f.NumberFormat)

	f = Format{}
	Percentage{}.StyleCell(&f)
	assert.Equal(t, PercentageFormat, f.NumberFormat)

	f = Format{}
	Integer{}.StyleCell(&f)
	assert.Equal(t, IntegerFormat, f.NumberFormat)
	assert.Equal(t, AlignCenter, f.Horizontal)

	f = Format{}
	FiscalCode{}.StyleCell(&f)
	assert.Equal(t, FiscalCodeFormat, f.NumberFormat)
	assert.Equal(t, AlignLeft, f.Horizontal)

	f = Format{Font: FontFormat{Size: 12}, WrapText: true}
	Text{}.StyleCell(&f)
	assert.Equal(t, AlignLeft, f.Horizontal)
	assert.Empty(t, f.NumberFormat)
	assert.Equal(t, 12.0, f.Font.Size, "styles keep what they do not set")
	assert.True(t, f.WrapText)
}

func TestDateDecorate(t *testing.T) {
	d := Date{}
	assert.Equal(t, Int(42796), d.Decorate(String("2017-03-02")))
	assert.Equal(t, Int(42796), d.Decorate(String("2017-03-02 11:22:33")))
	assert.Equal(t, Int(1), d.Decorate(String("1899-12-31")))
	assert.Equal(t, String("not a date"), d.Decorate(String("not a date")))
	assert.Equal(t, Number(42000), d.Decorate(Number(42000)))
	assert.True(t, d.Decorate(Null()).IsNull())
}

func TestPaddedIntegerTracksLongestValue(t *testing.T) {
	p := &PaddedInteger{}

	var f Format
	p.StyleCell(&f)
	assert.Empty(t, f.NumberFormat, "no value seen yet")

	assert.Equal(t, String("12"), p.Decorate(String("12")))
	p.Decorate(String("12345"))
	p.Decorate(Null())
	p.Decorate(Int(123))
	assert.Equal(t, 5, p.MaxLength())

	f = Format{}
	p.StyleCell(&f)
	assert.Equal(t, "00000", f.NumberFormat)
	assert.Equal(t, AlignCenter, f.Horizontal)

	p.Reset()
	assert.Zero(t, p.MaxLength())
}

func TestFiscalCodeDecorate(t *testing.T) {
	fc := FiscalCode{}
	assert.Equal(t, String("RSSMRA80A01H501U"), fc.Decorate(String(" rssmra80a01 h501u ")))
	assert.True(t, fc.Decorate(Null()).IsNull())
	assert.Equal(t, Int(5), fc.Decorate(Int(5)))
}
