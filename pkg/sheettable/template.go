package sheettable

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// Style names accepted in templates.
const (
	StyleText          = "text"
	StyleInteger       = "integer"
	StylePercentage    = "percentage"
	StyleAmount        = "amount"
	StyleDate          = "date"
	StylePaddedInteger = "padded_integer"
	StyleFiscalCode    = "fiscal_code"
)

var styleFactories = map[string]func() ColumnStyle{
	StyleText:          func() ColumnStyle { return Text{} },
	StyleInteger:       func() ColumnStyle { return Integer{} },
	StylePercentage:    func() ColumnStyle { return Percentage{} },
	StyleAmount:        func() ColumnStyle { return Amount{} },
	StyleDate:          func() ColumnStyle { return Date{} },
	StylePaddedInteger: func() ColumnStyle { return &PaddedInteger{} },
	StyleFiscalCode:    func() ColumnStyle { return FiscalCode{} },
}

// NewStyle returns a fresh instance of the named style.
func NewStyle(name string) (ColumnStyle, error) {
	factory, ok := styleFactories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown column style %q (known: %s)", name, strings.Join(StyleNames(), ", "))
	}
	return factory(), nil
}

// StyleNames lists the style names NewStyle accepts.
func StyleNames() []string {
	names := make([]string, 0, len(styleFactories))
	for name := range styleFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Template is the YAML description of a table.
type Template struct {
	Heading     string           `yaml:"heading"`
	FontSize    float64          `yaml:"font_size"`
	RowHeight   float64          `yaml:"row_height"`
	TextWrap    bool             `yaml:"text_wrap"`
	FreezePanes *bool            `yaml:"freeze_panes"`
	Columns     []ColumnTemplate `yaml:"columns"`
}

// ColumnTemplate is one column of a Template.
type ColumnTemplate struct {
	Key     string `yaml:"key"`
	Heading string `yaml:"heading"`
	Width   int    `yaml:"width"`
	Style   string `yaml:"style"`
}

// ParseTemplate decodes a YAML table template.
func ParseTemplate(data []byte) (*Template, error) {
	var tmpl Template
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if _, err := tmpl.ColumnCollection(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// ColumnCollection builds the declared columns. Every call returns new style
// instances, so stateful styles are never shared between tables.
func (t *Template) ColumnCollection() (*ColumnCollection, error) {
	b := NewColumns()
	for _, c := range t.Columns {
		if c.Key == "" {
			return nil, fmt.Errorf("column without key (heading %q)", c.Heading)
		}
		styleName := c.Style
		if styleName == "" {
			styleName = StyleText
		}
		style, err := NewStyle(styleName)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		heading := c.Heading
		if heading == "" {
			heading = FallbackTitle(c.Key)
		}
		b.Add(c.Key, heading, c.Width, style)
	}
	return b.Build()
}

// NewTable returns a table configured from t.
func (t *Template) NewTable(sheet Sheet, row, column int, data RowIterator) (*Table, error) {
	cc, err := t.ColumnCollection()
	if err != nil {
		return nil, err
	}
	table := NewTable(sheet, row, column, t.Heading, data)
	table.SetColumnCollection(cc)
	if t.FontSize > 0 {
		table.SetFontSize(t.FontSize)
	}
	table.SetRowHeight(t.RowHeight)
	table.SetTextWrap(t.TextWrap)
	if t.FreezePanes != nil {
		table.SetFreezePanes(*t.FreezePanes)
	}
	return table, nil
}
