// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table is a minimal tabular container for API results: an optional
// header and a list of rows, each row being a list of cell strings. It renders
// as aligned text, CSV, or a JSON list of records keyed by the header.
package table

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Cells is the simplest Row: a row already converted to strings.
type Cells []string

var _ Row = Cells{}

// CSV implements Row.
func (c Cells) CSV() []string { return c }

// Float formats a number cell with the minimal number of digits and without
// an exponent.
func Float(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

// Table container.
//
// A typical use:
//   type Quote struct {
//     Date  string
//     Close float64
//   }
//
//   func (q Quote) CSV() []string {
//     return []string{q.Date, Float(q.Close)}
//   }
//   t := NewTable("date", "close")
//   t.AddRow(Quote{"2021-06-01", 420.3}, Quote{"2021-06-02", 421.1})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table instance with optional column headers. When
// present, the number of headers is expected to match the number of cells in
// each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Len is the number of rows in the table.
func (t *Table) Len() int { return len(t.Rows) }

// Column returns all the cells of the named column, top to bottom.
func (t *Table) Column(name string) ([]string, error) {
	idx := -1
	for i, h := range t.Header {
		if h == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errors.Reason("no such column: '%s'", name)
	}
	res := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		cells := r.CSV()
		if idx >= len(cells) {
			return nil, errors.Reason("row %d has %d cells, need column %d",
				i, len(cells), idx)
		}
		res[i] = cells[idx]
	}
	return res, nil
}

// Params are parameters for writing Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// rows returns the rows to be written according to p.
func (t *Table) rows(p Params) []Row {
	if p.Rows > 0 && p.Rows < len(t.Rows) {
		return t.Rows[:p.Rows]
	}
	return t.Rows
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, r := range t.rows(p) {
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// WriteJSON writes the table to w as a JSON list of records, one object per
// row keyed by the header. The header is required. Keys appear in the column
// order of the header.
func (t *Table) WriteJSON(w io.Writer, p Params) error {
	if len(t.Header) == 0 {
		return errors.Reason("JSON output requires a header")
	}
	var b strings.Builder
	b.WriteString("[")
	for i, r := range t.rows(p) {
		cells := r.CSV()
		if len(cells) != len(t.Header) {
			return errors.Reason("row %d size [%d] != header size [%d]",
				i, len(cells), len(t.Header))
		}
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  {")
		for j, c := range cells {
			k, err := json.Marshal(t.Header[j])
			if err != nil {
				return errors.Annotate(err, "failed to encode key '%s'", t.Header[j])
			}
			v, err := json.Marshal(c)
			if err != nil {
				return errors.Annotate(err, "failed to encode value '%s'", c)
			}
			if j > 0 {
				b.WriteString(", ")
			}
			b.Write(k)
			b.WriteString(": ")
			b.Write(v)
		}
		b.WriteString("}")
	}
	if len(t.rows(p)) > 0 {
		b.WriteString("\n")
	}
	b.WriteString("]\n")
	if _, err := io.WriteString(w, b.String()); err != nil {
		return errors.Annotate(err, "failed to write JSON")
	}
	return nil
}

// WriteText writes the table as right-aligned columns separated by " | ".
// Cells wider than p.MaxColWidth are trimmed and end with "..".
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var lines [][]string
	if !p.NoHeader && len(t.Header) > 0 {
		lines = append(lines, t.Header)
	}
	for _, r := range t.rows(p) {
		lines = append(lines, r.CSV())
	}
	if len(lines) == 0 {
		return nil
	}

	widths := make([]int, len(lines[0]))
	for i, l := range lines {
		if len(l) == 0 {
			return errors.Reason("line %d is empty", i)
		}
		if len(l) != len(widths) {
			return errors.Reason("line %d size [%d] != expected size [%d]",
				i, len(l), len(widths))
		}
		for j, s := range l {
			n := len([]rune(s))
			if p.MaxColWidth > 0 && n > p.MaxColWidth {
				n = p.MaxColWidth
			}
			if widths[j] < n {
				widths[j] = n
			}
		}
	}

	write := func(line []string) error {
		cells := make([]string, len(line))
		for i, s := range line {
			if r := []rune(s); len(r) > widths[i] {
				s = string(r[:widths[i]-2]) + ".."
			}
			cells[i] = fmt.Sprintf("%[2]*[1]s", s, widths[i])
		}
		_, err := fmt.Fprintf(w, "%s\n", strings.Join(cells, " | "))
		return err
	}

	for i, l := range lines {
		if err := write(l); err != nil {
			return errors.Annotate(err, "failed to write line %d", i)
		}
		if i == 0 && !p.NoHeader && len(t.Header) > 0 {
			dashes := make([]string, len(widths))
			for j, n := range widths {
				dashes[j] = strings.Repeat("-", n)
			}
			if err := write(dashes); err != nil {
				return errors.Annotate(err, "failed to write header separator")
			}
		}
	}
	return nil
}
