package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/flow"
	"github.com/AlexZinkM/event-registration/internal/metrics"
	"github.com/AlexZinkM/event-registration/internal/requestcontext"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/internal/store"
	"github.com/AlexZinkM/event-registration/pix"
)

type memoryStore struct {
	saved []store.Confirmation
	err   error
}

func (m *memoryStore) Append(c store.Confirmation) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, c)
	return nil
}

type pngStub struct{}

func (pngStub) Render(text string) ([]byte, error) { return []byte("png"), nil }

var fixedNow = time.Date(2025, 11, 29, 9, 0, 0, 0, time.Local)

func newTestService(t *testing.T, merchant Merchant) (*Service, *memoryStore, *metrics.Metrics) {
	t.Helper()
	r := roster.New([]roster.Participant{
		{ID: "42", FullName: "Antônio Magno Lima Espeschit"},
		{FullName: "Maria da Conceição"},
	})
	wizard := flow.NewWizard(r, flow.Pricing{
		Under5:         decimal.Zero,
		From5To12:      decimal.RequireFromString("37.50"),
		Above12:        decimal.RequireFromString("75.00"),
		MaxPerCategory: 10,
	})
	st := &memoryStore{}
	m := metrics.New(prometheus.NewRegistry())
	encoder := pix.NewEncoder(pix.WithRenderer(pngStub{}), pix.WithClock(func() time.Time { return fixedNow }))
	return NewService(wizard, st, encoder, merchant, m, zap.NewNop()), st, m
}

func testMerchant() Merchant {
	return Merchant{Key: "toni@ita90.com.br", Name: "Antônio Magno Lima Espeschit", City: "São José dos Campos-SP"}
}

func testContext() context.Context {
	return requestcontext.WithTime(context.Background(), fixedNow)
}

func TestStepPaidRegistration(t *testing.T) {
	svc, st, m := newTestService(t, testMerchant())
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "antonio magno lima espeschit"})
	require.NoError(t, err)
	assert.Equal(t, flow.StepGuests, res.State.Step)

	res, err = svc.Step(ctx, StepInput{
		State:  res.State,
		Action: ActionGuests,
		Guests: flow.GuestCounts{From5To12: 1, Above12: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, flow.StepPayment, res.State.Step)
	require.NotNil(t, res.Payment)
	assert.Equal(t, "ID42ID", res.Payment.ReferenceTag)
	assert.Equal(t, []byte("png"), res.Payment.QRCode)

	fields, err := pix.Parse(res.Payment.Code)
	require.NoError(t, err)
	amount, ok := pix.Lookup(fields, pix.TagAmount)
	require.True(t, ok)
	assert.Equal(t, "112.50", amount.Value)

	require.Len(t, st.saved, 1)
	c := st.saved[0]
	assert.Equal(t, *res.Confirmation, c)
	assert.Len(t, c.ID, 8)
	assert.Equal(t, fixedNow, c.Timestamp)
	assert.Equal(t, "42", c.ParticipantID)
	assert.Equal(t, store.PaymentPending, c.PaymentStatus)
	assert.Equal(t, "112.50", c.TotalAmount.StringFixed(2))
	require.Len(t, res.Breakdown, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Confirmations.WithLabelValues(store.PaymentPending)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentCodes.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NameLookups.WithLabelValues("found")))
}

func TestStepGeneratesReferenceWithoutParticipantID(t *testing.T) {
	svc, _, _ := newTestService(t, testMerchant())
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Maria da Conceicao"})
	require.NoError(t, err)
	res, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionGuests, Guests: flow.GuestCounts{Above12: 1}})
	require.NoError(t, err)

	require.NotNil(t, res.Payment)
	assert.Len(t, res.Payment.ReferenceTag, 25)
	assert.Equal(t, "PIX20251129090000", res.Payment.ReferenceTag[:17])
}

func TestStepLongParticipantIDFallsBackToGeneratedReference(t *testing.T) {
	svc, st, _ := newTestService(t, testMerchant())
	svc.wizard = flow.NewWizard(
		roster.New([]roster.Participant{{ID: "2024ITA90GUEST000000000123", FullName: "Ana Lima"}}),
		flow.Pricing{Above12: decimal.RequireFromString("75.00"), MaxPerCategory: 10})
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Ana Lima"})
	require.NoError(t, err)
	res, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionGuests, Guests: flow.GuestCounts{Above12: 1}})
	require.NoError(t, err)

	require.NotNil(t, res.Payment)
	assert.Equal(t, "PIX20251129090000", res.Payment.ReferenceTag[:17])
	require.Len(t, st.saved, 1)
	assert.Equal(t, "2024ITA90GUEST000000000123", st.saved[0].ParticipantID)
	assert.Equal(t, store.PaymentPending, st.saved[0].PaymentStatus)
}

func TestStepFreeEntry(t *testing.T) {
	svc, st, _ := newTestService(t, testMerchant())
	svc.wizard = flow.NewWizard(roster.New([]roster.Participant{{FullName: "Ana"}}), flow.Pricing{MaxPerCategory: 10})
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Ana"})
	require.NoError(t, err)
	res, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionGuests, Guests: flow.GuestCounts{Under5: 2, Above12: 1}})
	require.NoError(t, err)

	assert.Equal(t, flow.StepDone, res.State.Step)
	assert.Nil(t, res.Payment)
	require.Len(t, st.saved, 1)
	assert.Equal(t, store.PaymentFree, st.saved[0].PaymentStatus)
}

func TestStepDeclineSavesNothing(t *testing.T) {
	svc, st, _ := newTestService(t, testMerchant())
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Maria da Conceição"})
	require.NoError(t, err)
	res, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionDecline})
	require.NoError(t, err)

	assert.Equal(t, flow.StepDone, res.State.Step)
	assert.Empty(t, st.saved)
}

func TestStepBackAndReset(t *testing.T) {
	svc, _, _ := newTestService(t, testMerchant())
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Maria da Conceição"})
	require.NoError(t, err)
	res, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionGuests, Guests: flow.GuestCounts{Above12: 2}})
	require.NoError(t, err)

	back, err := svc.Step(ctx, StepInput{State: res.State, Action: ActionBack})
	require.NoError(t, err)
	assert.Equal(t, flow.StepGuests, back.State.Step)
	assert.Equal(t, 2, back.State.Guests.Above12)

	reset, err := svc.Step(ctx, StepInput{State: back.State, Action: ActionReset})
	require.NoError(t, err)
	assert.Equal(t, flow.StepVerify, reset.State.Step)
	assert.Nil(t, reset.State.Participant)
}

func TestStepInvalidMerchantSavesNothing(t *testing.T) {
	merchant := testMerchant()
	merchant.Key = "###"
	svc, st, m := newTestService(t, merchant)
	ctx := testContext()

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Maria da Conceição"})
	require.NoError(t, err)
	_, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionGuests, Guests: flow.GuestCounts{Above12: 1}})
	require.Error(t, err)
	assert.True(t, pix.IsValidationError(err))
	assert.Empty(t, st.saved)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentCodes.WithLabelValues("invalid")))
}

func TestStepErrors(t *testing.T) {
	svc, st, m := newTestService(t, testMerchant())
	ctx := testContext()

	_, err := svc.Step(ctx, StepInput{Action: "jump"})
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Ninguém"})
	assert.ErrorIs(t, err, roster.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NameLookups.WithLabelValues("not_found")))

	res, err := svc.Step(ctx, StepInput{Action: ActionVerify, Name: "Maria da Conceição"})
	require.NoError(t, err)
	st.err = errors.New("disk full")
	_, err = svc.Step(ctx, StepInput{State: res.State, Action: ActionGuests, Guests: flow.GuestCounts{Above12: 1}})
	assert.ErrorContains(t, err, "disk full")
}

func TestPaymentCode(t *testing.T) {
	svc, _, _ := newTestService(t, testMerchant())

	p, err := svc.PaymentCode(decimal.RequireFromString("75"), "ID42ID")
	require.NoError(t, err)
	assert.Equal(t,
		"00020126390014BR.GOV.BCB.PIX0117toni@ita90.com.br520400005303986540575.005802BR"+
			"5925ANTONIO MAGNO LIMA ESPESC6015SAO JOSE DOS CA62100506ID42ID6304ADEE",
		p.Code)
	assert.Equal(t, "ID42ID", p.ReferenceTag)

	_, err = svc.PaymentCode(decimal.RequireFromString("-1"), "")
	assert.True(t, pix.IsValidationError(err))
}
