// Package export renders report rows as CSV.
//
// Text cells are always wrapped in double quotes with embedded quotes doubled. Numeric and
// date cells are written bare. Lines are separated by "\n" with no trailing newline.
package export

import (
	"bytes"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mahajanautomation/crm-backend/internal/timeutil"
)

// Cell is a single CSV field.
type Cell struct {
	Value  string
	Quoted bool
}

// Text returns a quoted cell.
func Text(value string) Cell {
	return Cell{Value: value, Quoted: true}
}

// Number returns a bare numeric cell.
func Number(value decimal.Decimal) Cell {
	return Cell{Value: value.String()}
}

// Date returns a bare d/m/yyyy cell in IST.
func Date(value time.Time) Cell {
	return Cell{Value: timeutil.FormatIndianDate(value)}
}

// Table accumulates a header and rows.
type Table struct {
	header []string
	rows   [][]Cell
}

// NewTable starts a table with the given column names.
func NewTable(columns ...string) *Table {
	return &Table{header: columns}
}

// Append adds a row. Rows shorter or longer than the header are written as given.
func (t *Table) Append(cells ...Cell) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Bytes renders the table.
func (t *Table) Bytes() []byte {
	var buf bytes.Buffer
	headerCells := make([]Cell, len(t.header))
	for i, name := range t.header {
		headerCells[i] = Cell{Value: name}
	}
	writeLine(&buf, headerCells)
	for _, row := range t.rows {
		buf.WriteByte('\n')
		writeLine(&buf, row)
	}
	return buf.Bytes()
}

func writeLine(buf *bytes.Buffer, cells []Cell) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}
		if cell.Quoted || strings.ContainsAny(cell.Value, ",\"\r\n") {
			buf.WriteByte('"')
			buf.WriteString(strings.ReplaceAll(cell.Value, `"`, `""`))
			buf.WriteByte('"')
			continue
		}
		buf.WriteString(cell.Value)
	}
}
