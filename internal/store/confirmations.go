package store

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlexZinkM/event-registration/internal/common"
)

// TimestampLayout is how record timestamps are written
const TimestampLayout = "2006-01-02 15:04:05"

// Payment statuses of a confirmation
const (
	PaymentPending = "pending"
	PaymentFree    = "free"
)

// ConfirmationHeader is the column order of confirmations.csv.
var ConfirmationHeader = []string{
	"confirmation_id",
	"timestamp",
	"participant_name",
	"participant_id",
	"guests_under_5",
	"guests_5_to_12",
	"guests_above_12",
	"total_amount",
	"payment_status",
}

// Confirmation is one attendance confirmation.
type Confirmation struct {
	ID              string          `json:"confirmationId"`
	Timestamp       time.Time       `json:"timestamp"`
	ParticipantName string          `json:"participantName"`
	ParticipantID   string          `json:"participantId,omitempty"`
	GuestsUnder5    int             `json:"guestsUnder5"`
	Guests5To12     int             `json:"guests5To12"`
	GuestsAbove12   int             `json:"guestsAbove12"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaymentStatus   string          `json:"paymentStatus"`
}

// People is the number of people the confirmation covers
func (c Confirmation) People() int {
	return c.GuestsUnder5 + c.Guests5To12 + c.GuestsAbove12
}

func (c Confirmation) row() []string {
	return []string{
		c.ID,
		c.Timestamp.Format(TimestampLayout),
		c.ParticipantName,
		c.ParticipantID,
		strconv.Itoa(c.GuestsUnder5),
		strconv.Itoa(c.Guests5To12),
		strconv.Itoa(c.GuestsAbove12),
		common.FormatAmount(c.TotalAmount),
		c.PaymentStatus,
	}
}

func confirmationFromRow(row []string) (Confirmation, error) {
	ts, err := time.ParseInLocation(TimestampLayout, row[1], time.Local)
	if err != nil {
		return Confirmation{}, fmt.Errorf("invalid timestamp %q: %w", row[1], err)
	}

	counts := make([]int, 3)
	for i := range counts {
		n, err := strconv.Atoi(row[4+i])
		if err != nil {
			return Confirmation{}, fmt.Errorf("invalid %s %q: %w", ConfirmationHeader[4+i], row[4+i], err)
		}
		counts[i] = n
	}

	total, err := decimal.NewFromString(row[7])
	if err != nil {
		return Confirmation{}, fmt.Errorf("invalid total_amount %q: %w", row[7], err)
	}

	return Confirmation{
		ID:              row[0],
		Timestamp:       ts,
		ParticipantName: row[2],
		ParticipantID:   row[3],
		GuestsUnder5:    counts[0],
		Guests5To12:     counts[1],
		GuestsAbove12:   counts[2],
		TotalAmount:     total,
		PaymentStatus:   row[8],
	}, nil
}

// ConfirmationStore persists confirmations to a CSV file.
type ConfirmationStore struct {
	csv *CSVStore
}

// NewConfirmationStore creates a ConfirmationStore for path
func NewConfirmationStore(path string) *ConfirmationStore {
	return &ConfirmationStore{csv: NewCSVStore(path, ConfirmationHeader)}
}

// Append saves c
func (s *ConfirmationStore) Append(c Confirmation) error {
	return s.csv.Append(c.row())
}

// List returns all confirmations, newest first.
func (s *ConfirmationStore) List() ([]Confirmation, error) {
	rows, err := s.csv.ReadAll()
	if err != nil {
		return nil, err
	}

	out := make([]Confirmation, 0, len(rows))
	for i, row := range rows {
		c, err := confirmationFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("confirmations line %d: %w", i+2, err)
		}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// Export returns the raw CSV rows (header first) as stored.
func (s *ConfirmationStore) Export() ([][]string, error) {
	rows, err := s.csv.ReadAll()
	if err != nil {
		return nil, err
	}
	return append([][]string{s.csv.Header()}, rows...), nil
}

// Stats summarizes confirmations for the admin view.
type Stats struct {
	Confirmations int             `json:"confirmations"`
	People        int             `json:"people"`
	Revenue       decimal.Decimal `json:"revenue"`
	AverageTicket decimal.Decimal `json:"averageTicket"`
}

// Summarize computes Stats over cs
func Summarize(cs []Confirmation) Stats {
	st := Stats{Revenue: decimal.Zero, AverageTicket: decimal.Zero}
	for _, c := range cs {
		st.Confirmations++
		st.People += c.People()
		st.Revenue = st.Revenue.Add(c.TotalAmount)
	}
	if st.Confirmations > 0 {
		st.AverageTicket = st.Revenue.Div(decimal.NewFromInt(int64(st.Confirmations))).Round(common.BRLDecimals)
	}
	return st
}
