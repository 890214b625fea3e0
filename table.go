package webtab

import (
	"fmt"
	"strings"
)

// MismatchPolicy decides what happens to a data row whose cell count
// differs from the header's.
type MismatchPolicy string

// Row-shape mismatch policies.
const (
	// MismatchDrop rejects the row and keeps the rest of the table.
	MismatchDrop MismatchPolicy = "drop"

	// MismatchPad pads short rows with empty cells and truncates long ones.
	MismatchPad MismatchPolicy = "pad"
)

// Validate returns an error for unknown policies.
func (p MismatchPolicy) Validate() error {
	switch p {
	case MismatchDrop, MismatchPad:
		return nil
	}
	return Errorf(ECONFIG, "unknown row mismatch policy %q", string(p))
}

// Table is the structured result for one request.
// Every row has exactly len(Header) cells.
type Table struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`

	// Dropped counts data rows whose shape did not match the header and
	// were rejected or reshaped by the mismatch policy.
	Dropped int `json:"dropped"`
}

// AssembleTable merges per-chunk model responses into one table.
//
// Lines whose trimmed form starts with "|" and hold at least one cell are
// table rows; everything else, including Markdown separator rows, is
// ignored. The first row is the header. It returns false when the responses contain no table rows.
func AssembleTable(responses []string, policy MismatchPolicy) (*Table, bool) {
	var table *Table
	for _, line := range strings.Split(strings.Join(responses, "\n"), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") || isSeparatorRow(line) {
			continue
		}

		cells := splitRow(line)
		if len(cells) == 0 {
			continue
		}
		if table == nil {
			table = &Table{Header: cells}
			continue
		}

		if len(cells) != len(table.Header) {
			table.Dropped++
			if policy != MismatchPad {
				continue
			}
			cells = fitRow(cells, len(table.Header))
		}
		table.Rows = append(table.Rows, cells)
	}
	return table, table != nil
}

// isSeparatorRow reports whether line is a Markdown header rule such as
// "| --- | :---: |".
func isSeparatorRow(line string) bool {
	if !strings.Contains(line, "-") {
		return false
	}
	for _, r := range line {
		switch r {
		case '|', '-', ':', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitRow splits a pipe-delimited row and drops the empty fields produced
// by the leading and trailing delimiters.
func splitRow(line string) []string {
	fields := strings.Split(line, "|")
	if len(fields) <= 2 {
		return []string{}
	}
	fields = fields[1 : len(fields)-1]
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = strings.TrimSpace(f)
	}
	return cells
}

// fitRow pads or truncates cells to n.
func fitRow(cells []string, n int) []string {
	if len(cells) > n {
		return cells[:n]
	}
	return append(cells, make([]string, n-len(cells))...)
}

// String renders the table as Markdown.
func (t *Table) String() string {
	var sb strings.Builder
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for _, c := range cells {
			fmt.Fprintf(&sb, " %s |", c)
		}
		sb.WriteString("\n")
	}
	writeRow(t.Header)
	rule := make([]string, len(t.Header))
	for i := range rule {
		rule[i] = "---"
	}
	writeRow(rule)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return sb.String()
}
