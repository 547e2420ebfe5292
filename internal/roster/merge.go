package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCounts reads a "name,qtd" CSV into a map keyed by the trimmed name.
func ReadCounts(r io.Reader) (map[string]int, error) {
	table, err := ReadTable(r)
	if err != nil {
		return nil, err
	}

	nameCol, qtdCol := table.Column("name"), table.Column("qtd")
	if nameCol < 0 || qtdCol < 0 {
		return nil, fmt.Errorf("counts header must contain name and qtd")
	}

	counts := make(map[string]int, len(table.Rows))
	for i, row := range table.Rows {
		name := strings.TrimSpace(cell(row, nameCol))
		if name == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(cell(row, qtdCol)))
		if err != nil {
			return nil, fmt.Errorf("counts line %d: invalid qtd: %w", i+2, err)
		}
		counts[name] = n
	}
	return counts, nil
}

// MergeCounts writes counts into the participants column of table, matching
// full_name exactly after trimming. Rows without a count keep their value and
// their names are returned in file order. The column is appended when missing.
func MergeCounts(table *Table, counts map[string]int) ([]string, error) {
	nameCol := table.Column(ColumnFullName)
	if nameCol < 0 {
		return nil, fmt.Errorf("roster header has no %q column", ColumnFullName)
	}

	capCol := table.Column(ColumnParticipants)
	if capCol < 0 {
		table.Header = append(table.Header, ColumnParticipants)
		capCol = len(table.Header) - 1
	}

	var notFound []string
	for i, row := range table.Rows {
		for len(row) < len(table.Header) {
			row = append(row, "")
		}
		table.Rows[i] = row

		name := strings.TrimSpace(row[nameCol])
		n, ok := counts[name]
		if !ok {
			notFound = append(notFound, name)
			continue
		}
		row[capCol] = strconv.Itoa(n)
	}
	return notFound, nil
}

// WriteTable writes header and rows as CSV.
func WriteTable(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}
