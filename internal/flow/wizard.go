// Package flow is the registration wizard as a pure state machine: every
// transition takes the current State and returns the next one. Nothing is
// kept between requests, the caller carries the State.
package flow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AlexZinkM/event-registration/internal/roster"
)

// Step is a page of the wizard
type Step string

const (
	StepVerify  Step = "verify"  // type your name
	StepGuests  Step = "guests"  // attend or not, how many guests
	StepPayment Step = "payment" // PIX code shown
	StepDone    Step = "done"    // declined or free entry
)

// ErrNameRequired is returned when verify is called with a blank name.
var ErrNameRequired = errors.New("name is required")

// StepError is an action that is not allowed on the current step.
type StepError struct {
	Step   Step
	Action string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("action %q is not allowed on step %q", e.Action, e.Step)
}

// State is everything the wizard knows about one registration in progress.
type State struct {
	Step        Step                `json:"step"`
	Participant *roster.Participant `json:"participant,omitempty"`
	Attending   bool                `json:"attending"`
	Guests      GuestCounts         `json:"guests"`
	Total       decimal.Decimal     `json:"total"`
}

// Matcher finds a guest by typed name
type Matcher interface {
	Find(rawName string) (roster.Participant, bool)
}

// Wizard holds the static dependencies of the transitions.
type Wizard struct {
	matcher Matcher
	pricing Pricing
}

// NewWizard creates a Wizard
func NewWizard(matcher Matcher, pricing Pricing) *Wizard {
	return &Wizard{matcher: matcher, pricing: pricing}
}

// Pricing returns the configured prices
func (w *Wizard) Pricing() Pricing {
	return w.pricing
}

// Start returns the initial state
func (w *Wizard) Start() State {
	return State{Step: StepVerify, Total: decimal.Zero}
}

// Verify matches name against the guest list and moves to the guests page.
func (w *Wizard) Verify(st State, name string) (State, error) {
	if err := expect(st, "verify", StepVerify); err != nil {
		return st, err
	}
	if strings.TrimSpace(name) == "" {
		return st, ErrNameRequired
	}

	p, ok := w.matcher.Find(name)
	if !ok {
		return st, roster.ErrNotFound
	}

	return State{
		Step:        StepGuests,
		Participant: &p,
		Attending:   true,
		Guests:      GuestCounts{Above12: minGuestsAbove12},
		Total:       decimal.Zero,
	}, nil
}

// Decline records that the participant will not attend.
func (w *Wizard) Decline(st State) (State, error) {
	if err := expect(st, "decline", StepGuests); err != nil {
		return st, err
	}
	p, err := w.participant(st)
	if err != nil {
		return st, err
	}

	return State{Step: StepDone, Participant: &p, Attending: false, Total: decimal.Zero}, nil
}

// SubmitGuests prices the guest counts. A positive total moves to the payment
// page, a zero total (only small children) ends the wizard as free entry.
func (w *Wizard) SubmitGuests(st State, counts GuestCounts) (State, error) {
	if err := expect(st, "guests", StepGuests); err != nil {
		return st, err
	}
	p, err := w.participant(st)
	if err != nil {
		return st, err
	}
	if err := w.pricing.Validate(counts); err != nil {
		return st, err
	}

	next := State{
		Step:        StepPayment,
		Participant: &p,
		Attending:   true,
		Guests:      counts,
		Total:       w.pricing.Total(counts),
	}
	if !next.Total.IsPositive() {
		next.Step = StepDone
	}
	return next, nil
}

// Back returns from the payment page to correct the guest counts.
func (w *Wizard) Back(st State) (State, error) {
	if err := expect(st, "back", StepPayment); err != nil {
		return st, err
	}
	st.Step = StepGuests
	return st, nil
}

// participant re-resolves the state's participant against the guest list,
// since the state comes back from the client.
func (w *Wizard) participant(st State) (roster.Participant, error) {
	if st.Participant == nil {
		return roster.Participant{}, &StepError{Step: st.Step, Action: "missing participant"}
	}
	p, ok := w.matcher.Find(st.Participant.FullName)
	if !ok {
		return roster.Participant{}, roster.ErrNotFound
	}
	return p, nil
}

func expect(st State, action string, want Step) error {
	if st.Step != want {
		return &StepError{Step: st.Step, Action: action}
	}
	return nil
}
