package model

import "github.com/AlexZinkM/event-registration/internal/store"

// ConfirmationsResponse is the admin table of confirmations with totals
type ConfirmationsResponse struct {
	Stats         store.Stats          `json:"stats"`
	Confirmations []store.Confirmation `json:"confirmations"`
}

// VisitsResponse lists registered visitors with opened documents
type VisitsResponse struct {
	Total  int           `json:"total"`
	Visits []store.Visit `json:"visits"`
}
