// Package roster loads the guest list and matches typed names against it.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names of the roster CSV.
const (
	ColumnID           = "id"
	ColumnFullName     = "full_name"
	ColumnParticipants = "participants"
)

var (
	// ErrEmptyRoster is returned when the roster has a header but no guests.
	ErrEmptyRoster = errors.New("roster is empty")
	// ErrNotFound is returned by callers when a typed name matches no guest.
	ErrNotFound = errors.New("name not found in the guest list")
)

// Participant is one guest list entry.
type Participant struct {
	ID       string `json:"id,omitempty"`
	FullName string `json:"fullName"`
	// MaxCompanions is the per-guest companion cap, 0 when the roster does not set one.
	MaxCompanions int `json:"maxCompanions,omitempty"`
}

// Roster is an immutable, normalized index over the guest list. Safe for concurrent use.
type Roster struct {
	participants []Participant
	index        map[string]int
}

// New builds a Roster. When two entries normalize to the same name the first one wins.
func New(participants []Participant) *Roster {
	r := &Roster{
		participants: participants,
		index:        make(map[string]int, len(participants)),
	}
	for i, p := range participants {
		key := Normalize(p.FullName)
		if key == "" {
			continue
		}
		if _, dup := r.index[key]; !dup {
			r.index[key] = i
		}
	}
	return r
}

// Load reads the roster CSV at path in the declared encoding.
func Load(path, encoding string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("roster file %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	text, err := Decode(data, encoding)
	if err != nil {
		return nil, err
	}
	return Parse(text)
}

// Parse reads roster CSV text. The header must contain full_name; id and participants are optional.
func Parse(text string) (*Roster, error) {
	table, err := ReadTable(strings.NewReader(text))
	if err != nil {
		return nil, err
	}

	nameCol := table.Column(ColumnFullName)
	if nameCol < 0 {
		return nil, fmt.Errorf("roster header has no %q column", ColumnFullName)
	}
	idCol := table.Column(ColumnID)
	capCol := table.Column(ColumnParticipants)

	participants := make([]Participant, 0, len(table.Rows))
	for i, row := range table.Rows {
		p := Participant{FullName: strings.TrimSpace(cell(row, nameCol))}
		if p.FullName == "" {
			continue
		}
		p.ID = strings.TrimSpace(cell(row, idCol))

		if v := strings.TrimSpace(cell(row, capCol)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("roster line %d: invalid %s value %q", i+2, ColumnParticipants, v)
			}
			p.MaxCompanions = n
		}
		participants = append(participants, p)
	}

	if len(participants) == 0 {
		return nil, ErrEmptyRoster
	}
	return New(participants), nil
}

// Find looks up a typed name. The match is exact on normalized names.
func (r *Roster) Find(rawName string) (Participant, bool) {
	key := Normalize(rawName)
	if key == "" {
		return Participant{}, false
	}
	i, ok := r.index[key]
	if !ok {
		return Participant{}, false
	}
	return r.participants[i], true
}

// Len returns the number of guests
func (r *Roster) Len() int {
	return len(r.participants)
}

// Table is a CSV file kept as raw rows, used where columns must survive untouched.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadTable reads a CSV with a header line. Rows may be shorter than the header.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("csv has no header")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &Table{Header: header, Rows: records[1:]}, nil
}

// Column returns the index of name in the header, or -1.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
