package model

import (
	"github.com/shopspring/decimal"

	"github.com/AlexZinkM/event-registration/internal/flow"
	"github.com/AlexZinkM/event-registration/internal/store"
)

// StepRequest is the body of POST /registration/step.
// State is what the previous response returned; omit it to start over.
type StepRequest struct {
	State  flow.State       `json:"state"`
	Action string           `json:"action" example:"verify"`
	Name   string           `json:"name,omitempty" example:"Antonio Magno Lima Espeschit"`
	Guests flow.GuestCounts `json:"guests"`
}

// StepResponse is the next wizard state with what the step produced.
type StepResponse struct {
	State        flow.State          `json:"state"`
	Message      string              `json:"message,omitempty"`
	Breakdown    []flow.Line         `json:"breakdown,omitempty"`
	TotalDisplay string              `json:"totalDisplay,omitempty" example:"R$ 112,50"`
	Confirmation *store.Confirmation `json:"confirmation,omitempty"`
	Payment      *PaymentResponse    `json:"payment,omitempty"`
}

// PaymentResponse is a PIX charge. QRCode is a base64 PNG.
type PaymentResponse struct {
	Code         string          `json:"code"`
	QRCode       []byte          `json:"qrCode" swaggertype:"string" format:"base64"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string" example:"75.00"`
	ReferenceTag string          `json:"referenceTag" example:"ID42ID"`
}
