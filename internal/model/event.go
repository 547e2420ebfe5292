package model

import "github.com/shopspring/decimal"

// Prices per guest category
type Prices struct {
	Under5         decimal.Decimal `json:"under5" swaggertype:"string" example:"0.00"`
	From5To12      decimal.Decimal `json:"from5To12" swaggertype:"string" example:"37.50"`
	Above12        decimal.Decimal `json:"above12" swaggertype:"string" example:"75.00"`
	MaxPerCategory int             `json:"maxPerCategory" example:"10"`
}

// EventResponse is the public event information
type EventResponse struct {
	Name           string `json:"name"`
	Date           string `json:"date,omitempty"`
	Location       string `json:"location,omitempty"`
	Welcome        string `json:"welcome"`
	Prices         Prices `json:"prices"`
	VisitsEnabled  bool   `json:"visitsEnabled"`
	SecurityNotice string `json:"securityNotice,omitempty"`
}
