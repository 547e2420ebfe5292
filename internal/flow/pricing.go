package flow

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Guest categories, named as in the confirmations file
const (
	CategoryUnder5    = "under_5"
	Category5To12     = "5_to_12"
	CategoryAbove12   = "above_12"
	minGuestsAbove12  = 1 // the participant
	defaultMaxPerKind = 10
)

// GuestCounts is how many people of each age group come, the participant included.
type GuestCounts struct {
	Under5    int `json:"under5"`
	From5To12 int `json:"from5To12"`
	Above12   int `json:"above12"`
}

// InputError is a form value outside its allowed range
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Pricing holds per-category prices and the per-category limit.
type Pricing struct {
	Under5         decimal.Decimal
	From5To12      decimal.Decimal
	Above12        decimal.Decimal
	MaxPerCategory int
}

// Line is one row of the amount breakdown.
type Line struct {
	Category  string          `json:"category"`
	Count     int             `json:"count"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Validate checks counts against the limits: 0..max per category and at least one above 12.
func (p Pricing) Validate(c GuestCounts) error {
	limit := p.MaxPerCategory
	if limit <= 0 {
		limit = defaultMaxPerKind
	}

	for _, v := range []struct {
		field string
		n     int
		min   int
	}{
		{CategoryUnder5, c.Under5, 0},
		{Category5To12, c.From5To12, 0},
		{CategoryAbove12, c.Above12, minGuestsAbove12},
	} {
		if v.n < v.min || v.n > limit {
			return &InputError{Field: v.field, Reason: fmt.Sprintf("must be between %d and %d", v.min, limit)}
		}
	}
	return nil
}

// Breakdown returns one line per category with at least one guest.
func (p Pricing) Breakdown(c GuestCounts) []Line {
	var lines []Line
	for _, l := range []struct {
		category string
		n        int
		price    decimal.Decimal
	}{
		{CategoryUnder5, c.Under5, p.Under5},
		{Category5To12, c.From5To12, p.From5To12},
		{CategoryAbove12, c.Above12, p.Above12},
	} {
		if l.n == 0 {
			continue
		}
		lines = append(lines, Line{
			Category:  l.category,
			Count:     l.n,
			UnitPrice: l.price,
			Subtotal:  l.price.Mul(decimal.NewFromInt(int64(l.n))),
		})
	}
	return lines
}

// Total is the amount due for c
func (p Pricing) Total(c GuestCounts) decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Breakdown(c) {
		total = total.Add(l.Subtotal)
	}
	return total
}
