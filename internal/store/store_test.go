package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVStoreCreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "rows.csv")
	s := NewCSVStore(path, []string{"a", "b"})

	rows, err := s.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, s.Append([]string{"1", "x,y"}))
	require.NoError(t, s.Append([]string{"2", "z"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,\"x,y\"\n2,z\n", string(data))

	rows, err = s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "x,y"}, {"2", "z"}}, rows)
}

func TestCSVStoreRejectsWrongWidth(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "rows.csv"), []string{"a", "b"})
	assert.Error(t, s.Append([]string{"only-one"}))
}

func TestCSVStoreDetectsForeignHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0o600))

	_, err := NewCSVStore(path, []string{"a", "b"}).ReadAll()
	assert.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestCSVStoreConcurrentAppends(t *testing.T) {
	s := NewCSVStore(filepath.Join(t.TempDir(), "rows.csv"), []string{"n"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Append([]string{"row"}))
		}()
	}
	wg.Wait()

	rows, err := s.ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 20)
}

func TestCSVStoreAppendRowsRejectsWholeBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	s := NewCSVStore(path, []string{"a", "b"})

	err := s.AppendRows([][]string{{"1", "x"}, {"short"}})
	assert.Error(t, err)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "nothing is written for a rejected batch")

	require.NoError(t, s.AppendRows([][]string{{"1", "x"}, {"2", "y"}}))
	rows, err := s.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "x"}, {"2", "y"}}, rows)
}

func TestConfirmationStoreRoundTrip(t *testing.T) {
	s := NewConfirmationStore(filepath.Join(t.TempDir(), "confirmations.csv"))

	older := Confirmation{
		ID:              "a1b2c3d4",
		Timestamp:       time.Date(2025, 11, 1, 10, 0, 0, 0, time.Local),
		ParticipantName: "Antônio Magno Lima Espeschit",
		ParticipantID:   "42",
		GuestsUnder5:    1,
		Guests5To12:     1,
		GuestsAbove12:   2,
		TotalAmount:     decimal.RequireFromString("187.5"),
		PaymentStatus:   PaymentPending,
	}
	newer := Confirmation{
		ID:              "e5f6a7b8",
		Timestamp:       time.Date(2025, 11, 2, 8, 30, 0, 0, time.Local),
		ParticipantName: "Maria da Conceição",
		GuestsUnder5:    1,
		TotalAmount:     decimal.Zero,
		PaymentStatus:   PaymentFree,
	}
	require.NoError(t, s.Append(older))
	require.NoError(t, s.Append(newer))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e5f6a7b8", list[0].ID, "newest first")
	assert.Equal(t, older.ParticipantName, list[1].ParticipantName)
	assert.True(t, older.TotalAmount.Equal(list[1].TotalAmount))
	assert.True(t, older.Timestamp.Equal(list[1].Timestamp))
	assert.Equal(t, 4, list[1].People())

	exported, err := s.Export()
	require.NoError(t, err)
	require.Len(t, exported, 3)
	assert.Equal(t, ConfirmationHeader, exported[0])
	assert.Equal(t, "187.50", exported[1][7])
	assert.Equal(t, "0.00", exported[2][7])
	assert.Equal(t, "2025-11-01 10:00:00", exported[1][1])
}

func TestSummarize(t *testing.T) {
	st := Summarize(nil)
	assert.Zero(t, st.Confirmations)
	assert.True(t, st.AverageTicket.IsZero())

	st = Summarize([]Confirmation{
		{GuestsAbove12: 1, TotalAmount: decimal.RequireFromString("75")},
		{GuestsAbove12: 2, Guests5To12: 1, TotalAmount: decimal.RequireFromString("187.5")},
		{GuestsUnder5: 1, TotalAmount: decimal.Zero},
	})
	assert.Equal(t, 3, st.Confirmations)
	assert.Equal(t, 5, st.People)
	assert.Equal(t, "262.50", st.Revenue.StringFixed(2))
	assert.Equal(t, "87.50", st.AverageTicket.StringFixed(2))
}

func TestVisitStoreRoundTrip(t *testing.T) {
	s := NewVisitStore(filepath.Join(t.TempDir(), "visits.csv"))
	ts := time.Date(2025, 11, 29, 9, 0, 0, 0, time.Local)

	require.NoError(t, s.AppendAll([]Visit{
		{ID: "v1", Timestamp: ts, ParticipantName: "Ana", ParticipantID: "1", VisitorName: "Ana", Relation: RelationParticipant, Document: "sealed-1"},
		{ID: "v1", Timestamp: ts, ParticipantName: "Ana", ParticipantID: "1", VisitorName: "Beto", Relation: RelationCompanion, Document: "sealed-2"},
	}))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Beto", list[1].VisitorName)
	assert.Equal(t, RelationCompanion, list[1].Relation)
	assert.Equal(t, "sealed-2", list[1].Document)
	assert.True(t, ts.Equal(list[0].Timestamp))
}

func TestVisitStoreConcurrentVisitsStayContiguous(t *testing.T) {
	s := NewVisitStore(filepath.Join(t.TempDir(), "visits.csv"))
	ts := time.Date(2025, 11, 29, 9, 0, 0, 0, time.Local)

	const visits, perVisit = 8, 5
	var wg sync.WaitGroup
	for i := 0; i < visits; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			vs := make([]Visit, perVisit)
			for j := range vs {
				vs[j] = Visit{ID: id, Timestamp: ts, ParticipantName: id, VisitorName: fmt.Sprintf("%s-%d", id, j), Relation: RelationCompanion, Document: "sealed"}
			}
			vs[0].Relation = RelationParticipant
			assert.NoError(t, s.AppendAll(vs))
		}(fmt.Sprintf("v%d", i))
	}
	wg.Wait()

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, visits*perVisit)

	seen := map[string]bool{}
	for i, v := range list {
		if i > 0 && list[i-1].ID == v.ID {
			continue
		}
		assert.False(t, seen[v.ID], "rows of visit %s are split", v.ID)
		seen[v.ID] = true
		assert.Equal(t, RelationParticipant, v.Relation, "visit %s starts with its participant", v.ID)
	}
	assert.Len(t, seen, visits)
}
