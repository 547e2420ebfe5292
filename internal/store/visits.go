package store

import (
	"fmt"
	"time"
)

// Relations of a visitor to the invited participant
const (
	RelationParticipant = "participant"
	RelationCompanion   = "companion"
)

// VisitHeader is the column order of visits.csv.
var VisitHeader = []string{
	"visit_id",
	"timestamp",
	"participant_name",
	"participant_id",
	"visitor_name",
	"relation",
	"document",
}

// Visit is one person authorized to enter the facility. Document holds the sealed
// identity document number, never the plaintext.
type Visit struct {
	ID              string    `json:"visitId"`
	Timestamp       time.Time `json:"timestamp"`
	ParticipantName string    `json:"participantName"`
	ParticipantID   string    `json:"participantId,omitempty"`
	VisitorName     string    `json:"visitorName"`
	Relation        string    `json:"relation"`
	Document        string    `json:"document"`
}

// VisitStore persists visits to a CSV file.
type VisitStore struct {
	csv *CSVStore
}

// NewVisitStore creates a VisitStore for path
func NewVisitStore(path string) *VisitStore {
	return &VisitStore{csv: NewCSVStore(path, VisitHeader)}
}

// AppendAll saves the visits of one registration, participant first. The rows
// are written together or not at all.
func (s *VisitStore) AppendAll(vs []Visit) error {
	rows := make([][]string, 0, len(vs))
	for _, v := range vs {
		rows = append(rows, []string{
			v.ID,
			v.Timestamp.Format(TimestampLayout),
			v.ParticipantName,
			v.ParticipantID,
			v.VisitorName,
			v.Relation,
			v.Document,
		})
	}
	if err := s.csv.AppendRows(rows); err != nil {
		return fmt.Errorf("failed to write visit rows: %w", err)
	}
	return nil
}

// List returns all visits in file order.
func (s *VisitStore) List() ([]Visit, error) {
	rows, err := s.csv.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]Visit, 0, len(rows))
	for i, row := range rows {
		ts, err := time.ParseInLocation(TimestampLayout, row[1], time.Local)
		if err != nil {
			return nil, fmt.Errorf("visits line %d: invalid timestamp %q: %w", i+2, row[1], err)
		}
		out = append(out, Visit{
			ID:              row[0],
			Timestamp:       ts,
			ParticipantName: row[2],
			ParticipantID:   row[3],
			VisitorName:     row[4],
			Relation:        row[5],
			Document:        row[6],
		})
	}
	return out, nil
}
