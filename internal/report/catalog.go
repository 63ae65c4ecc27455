package report

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/locvowork/sheettable/pkg/sheettable"
	"gopkg.in/yaml.v2"
)

// Source kinds a report can read from.
const (
	SourceSQL       = "sql"
	SourceElastic   = "elastic"
	SourceDatastore = "datastore"
	SourceJSONLines = "jsonl"
)

const maxSheetName = 31

var (
	ErrReportNotFound = errors.New("report not found")
	ErrMissingParam   = errors.New("missing report parameter")
)

// Report is one exportable table: where its rows come from and how the
// table is laid out.
type Report struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Sheet       string `yaml:"sheet"`
	FileName    string `yaml:"file_name"`
	Source      string `yaml:"source"`

	// sql
	Query  string   `yaml:"query"`
	Params []string `yaml:"params"`

	// elastic
	Index       string `yaml:"index"`
	QueryString string `yaml:"query_string"`

	// datastore
	Kind    string            `yaml:"kind"`
	Filters []DatastoreFilter `yaml:"filters"`
	Order   []string          `yaml:"order"`
	Limit   int               `yaml:"limit"`

	// jsonl
	Path string `yaml:"path"`

	PageSize int    `yaml:"page_size"`
	IDField  string `yaml:"id_field"`
	Prefetch int    `yaml:"prefetch"`

	Row    int                 `yaml:"row"`
	Column int                 `yaml:"column"`
	Table  sheettable.Template `yaml:"table"`
}

// DatastoreFilter is a property filter such as {field: "Done =", value: false}.
type DatastoreFilter struct {
	Field string      `yaml:"field"`
	Value interface{} `yaml:"value"`
}

// Catalog holds the configured reports by name.
type Catalog struct {
	reports map[string]*Report
}

type catalogFile struct {
	Reports []*Report `yaml:"reports"`
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.UnmarshalStrict(data, &file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{reports: make(map[string]*Report, len(file.Reports))}
	for i, r := range file.Reports {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("report #%d %q: %w", i+1, r.Name, err)
		}
		if _, dup := c.reports[r.Name]; dup {
			return nil, fmt.Errorf("report %q defined twice", r.Name)
		}
		c.reports[r.Name] = r
	}
	return c, nil
}

// Get returns the report called name.
func (c *Catalog) Get(name string) (*Report, error) {
	r, ok := c.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	return r, nil
}

// Reports returns all reports sorted by name.
func (c *Catalog) Reports() []*Report {
	out := make([]*Report, 0, len(c.reports))
	for _, r := range c.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *Report) validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	switch r.Source {
	case SourceSQL:
		if r.Query == "" {
			return errors.New("sql report needs a query")
		}
	case SourceElastic:
		if r.Index == "" {
			return errors.New("elastic report needs an index")
		}
	case SourceDatastore:
		if r.Kind == "" {
			return errors.New("datastore report needs a kind")
		}
	case SourceJSONLines:
		if r.Path == "" {
			return errors.New("jsonl report needs a path")
		}
	default:
		return fmt.Errorf("unknown source %q", r.Source)
	}
	if r.Row < 0 || r.Column < 0 {
		return errors.New("row and column must be positive")
	}
	if _, err := r.Table.ColumnCollection(); err != nil {
		return fmt.Errorf("table: %w", err)
	}
	return nil
}

// SheetName returns the sheet title for r, cut to the 31 characters a
// sheet name may hold.
func (r *Report) SheetName() string {
	name := r.Sheet
	if name == "" {
		name = r.Name
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}

// Attachment returns the download file name for r.
func (r *Report) Attachment() string {
	if r.FileName != "" {
		return r.FileName
	}
	return r.Name + ".xlsx"
}

// Args resolves the positional SQL arguments from params.
func (r *Report) Args(params map[string]string) ([]interface{}, error) {
	args := make([]interface{}, len(r.Params))
	for i, name := range r.Params {
		v, ok := params[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingParam, name)
		}
		args[i] = v
	}
	return args, nil
}

func (r *Report) origin() (row, col int) {
	row, col = r.Row, r.Column
	if row == 0 {
		row = sheettable.SheetOriginRow
	}
	if col == 0 {
		col = 1
	}
	return row, col
}
