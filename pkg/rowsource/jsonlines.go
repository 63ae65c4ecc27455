package rowsource

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/locvowork/sheettable/pkg/sheettable"
	"github.com/tidwall/gjson"
)

const maxLineSize = 16 << 20

// JSONLinesSource reads one JSON object per line. Blank lines are skipped.
type JSONLinesSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	done    bool
}

// JSONLines returns a source over r. If r is an io.Closer, Close closes it.
func JSONLines(r io.Reader) *JSONLinesSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s := &JSONLinesSource{scanner: scanner}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *JSONLinesSource) Next() (sheettable.Row, bool, error) {
	if s.done {
		return nil, false, nil
	}
	for s.scanner.Scan() {
		s.line++
		text := strings.TrimSpace(s.scanner.Text())
		if text == "" {
			continue
		}
		row, err := ObjectRow(text)
		if err != nil {
			s.done = true
			return nil, false, fmt.Errorf("line %d: %w", s.line, err)
		}
		return row, true, nil
	}
	s.done = true
	if err := s.scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("line %d: %w", s.line+1, err)
	}
	return nil, false, nil
}

// Line returns the number of the last line read.
func (s *JSONLinesSource) Line() int { return s.line }

func (s *JSONLinesSource) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// ObjectRow decodes a JSON object into a row, keeping the key order of the
// document. Nested arrays and objects are kept as raw JSON text.
func ObjectRow(doc string) (sheettable.Row, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("invalid json")
	}
	obj := gjson.Parse(doc)
	if !obj.IsObject() {
		return nil, fmt.Errorf("expected a json object, got %s", obj.Type)
	}
	var row sheettable.Row
	obj.ForEach(func(key, value gjson.Result) bool {
		row = row.Set(key.String(), jsonValue(value))
		return true
	})
	return row, nil
}

func jsonValue(v gjson.Result) sheettable.Value {
	switch v.Type {
	case gjson.Null:
		return sheettable.Null()
	case gjson.Number:
		return sheettable.Number(v.Num)
	case gjson.String:
		return sheettable.String(v.Str)
	case gjson.True, gjson.False:
		return sheettable.ValueOf(v.Bool())
	default:
		return sheettable.String(v.Raw)
	}
}
