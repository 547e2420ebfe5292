// Package registration drives the wizard and performs its side effects:
// saving confirmations and generating PIX payment codes.
package registration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/common"
	"github.com/AlexZinkM/event-registration/internal/flow"
	"github.com/AlexZinkM/event-registration/internal/metrics"
	"github.com/AlexZinkM/event-registration/internal/requestcontext"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/internal/store"
	"github.com/AlexZinkM/event-registration/pix"
)

// Wizard actions
const (
	ActionVerify  = "verify"
	ActionDecline = "decline"
	ActionGuests  = "guests"
	ActionBack    = "back"
	ActionReset   = "reset"
)

// ErrUnknownAction is returned for an action name the wizard does not have.
var ErrUnknownAction = errors.New("unknown action")

// ConfirmationStore saves confirmations
type ConfirmationStore interface {
	Append(c store.Confirmation) error
}

// PaymentEncoder turns a payment request into payload text and a QR image
type PaymentEncoder interface {
	Encode(req pix.PaymentRequest) (string, []byte, error)
}

// Merchant is the static receiving side of every payment.
type Merchant struct {
	Key  string
	Name string
	City string
}

// StepInput is one wizard action with the state the client holds.
type StepInput struct {
	State  flow.State
	Action string
	Name   string
	Guests flow.GuestCounts
}

// StepResult is the next state plus whatever the transition produced.
type StepResult struct {
	State        flow.State
	Breakdown    []flow.Line
	Confirmation *store.Confirmation
	Payment      *Payment
}

// Payment is a generated PIX charge
type Payment struct {
	Code         string
	QRCode       []byte
	Amount       decimal.Decimal
	ReferenceTag string
}

// Service is safe for concurrent use
type Service struct {
	wizard   *flow.Wizard
	store    ConfirmationStore
	encoder  PaymentEncoder
	merchant Merchant
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewService creates a registration Service
func NewService(wizard *flow.Wizard, confirmations ConfirmationStore, encoder PaymentEncoder, merchant Merchant, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{
		wizard:   wizard,
		store:    confirmations,
		encoder:  encoder,
		merchant: merchant,
		metrics:  m,
		logger:   logger,
	}
}

// Pricing returns the configured prices
func (s *Service) Pricing() flow.Pricing {
	return s.wizard.Pricing()
}

// Step applies one action. A zero State (no step) is treated as the start page.
func (s *Service) Step(ctx context.Context, in StepInput) (*StepResult, error) {
	st := in.State
	if st.Step == "" {
		st = s.wizard.Start()
	}

	switch in.Action {
	case ActionReset:
		return &StepResult{State: s.wizard.Start()}, nil

	case ActionVerify:
		next, err := s.wizard.Verify(st, in.Name)
		if errors.Is(err, roster.ErrNotFound) || err == nil {
			s.metrics.LookupResult(err == nil)
		}
		if err != nil {
			return nil, err
		}
		return &StepResult{State: next}, nil

	case ActionDecline:
		next, err := s.wizard.Decline(st)
		if err != nil {
			return nil, err
		}
		s.logger.Info("participant declined",
			zap.String("request_id", requestcontext.RequestID(ctx)),
			zap.String("participant", next.Participant.FullName))
		return &StepResult{State: next}, nil

	case ActionBack:
		next, err := s.wizard.Back(st)
		if err != nil {
			return nil, err
		}
		return &StepResult{State: next, Breakdown: s.wizard.Pricing().Breakdown(next.Guests)}, nil

	case ActionGuests:
		next, err := s.wizard.SubmitGuests(st, in.Guests)
		if err != nil {
			return nil, err
		}
		return s.confirm(ctx, next)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, in.Action)
	}
}

// confirm saves the confirmation for a priced state. The payment code is built
// before saving so an unencodable charge leaves no record behind.
func (s *Service) confirm(ctx context.Context, st flow.State) (*StepResult, error) {
	res := &StepResult{State: st, Breakdown: s.wizard.Pricing().Breakdown(st.Guests)}

	c := store.Confirmation{
		ID:              uuid.NewString()[:8],
		Timestamp:       requestcontext.Now(ctx),
		ParticipantName: st.Participant.FullName,
		ParticipantID:   st.Participant.ID,
		GuestsUnder5:    st.Guests.Under5,
		Guests5To12:     st.Guests.From5To12,
		GuestsAbove12:   st.Guests.Above12,
		TotalAmount:     st.Total,
		PaymentStatus:   store.PaymentFree,
	}

	if st.Step == flow.StepPayment {
		payment, err := s.PaymentCode(st.Total, pix.ParticipantReference(st.Participant.ID))
		if err != nil {
			return nil, err
		}
		res.Payment = payment
		c.PaymentStatus = store.PaymentPending
	}

	if err := s.store.Append(c); err != nil {
		return nil, fmt.Errorf("failed to save confirmation: %w", err)
	}
	res.Confirmation = &c

	s.metrics.Confirmations.WithLabelValues(c.PaymentStatus).Inc()
	if c.PaymentStatus == store.PaymentPending {
		total, _ := c.TotalAmount.Float64()
		s.metrics.RevenuePending.Add(total)
	}
	s.logger.Info("confirmation saved",
		zap.String("request_id", requestcontext.RequestID(ctx)),
		zap.String("confirmation_id", c.ID),
		zap.String("participant", c.ParticipantName),
		zap.Int("people", c.People()),
		zap.String("total", common.FormatAmount(c.TotalAmount)),
		zap.String("status", c.PaymentStatus))

	return res, nil
}

// PaymentCode generates a PIX charge to the configured merchant. An empty ref
// gets a generated reference label.
func (s *Service) PaymentCode(amount decimal.Decimal, ref string) (*Payment, error) {
	code, img, err := s.encoder.Encode(pix.PaymentRequest{
		RecipientKey: s.merchant.Key,
		Amount:       amount,
		MerchantName: s.merchant.Name,
		MerchantCity: s.merchant.City,
		ReferenceTag: ref,
	})
	if err != nil {
		result := "error"
		if pix.IsValidationError(err) {
			result = "invalid"
		}
		s.metrics.PaymentCodes.WithLabelValues(result).Inc()
		return nil, err
	}
	s.metrics.PaymentCodes.WithLabelValues("ok").Inc()

	return &Payment{
		Code:         code,
		QRCode:       img,
		Amount:       amount,
		ReferenceTag: referenceOf(code),
	}, nil
}

// referenceOf reads back the reference label actually encoded, generated or not.
func referenceOf(code string) string {
	fields, err := pix.Parse(code)
	if err != nil {
		return ""
	}
	additional, ok := pix.Lookup(fields, pix.TagAdditionalData)
	if !ok {
		return ""
	}
	sub, err := additional.Nested()
	if err != nil {
		return ""
	}
	ref, _ := pix.Lookup(sub, pix.TagReferenceLabel)
	return ref.Value
}
