// Package pix builds PIX "copia e cola" payloads (EMV merchant-presented QR)
// and renders them as QR codes.
package pix

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AlexZinkM/event-registration/internal/common"
)

const (
	payloadFormat   = "01"
	pixGUI          = "BR.GOV.BCB.PIX"
	merchantCatCode = "0000"
	currencyBRL     = "986"
	countryBR       = "BR"

	maxMerchantName = 25
	maxMerchantCity = 15
)

// PaymentRequest is everything needed to encode one payment. It is built per
// user action and not modified afterwards.
type PaymentRequest struct {
	RecipientKey string
	Amount       decimal.Decimal
	MerchantName string
	MerchantCity string
	// ReferenceTag is placed in the reference label (62/05). Empty or "***" means generate one.
	ReferenceTag string
}

// Encoder builds payload text and its QR image. The zero value is not usable, see NewEncoder.
type Encoder struct {
	renderer Renderer
	now      func() time.Time
}

// Option configures an Encoder
type Option func(*Encoder)

// WithRenderer replaces the QR renderer
func WithRenderer(r Renderer) Option {
	return func(e *Encoder) { e.renderer = r }
}

// WithClock sets the clock used for generated reference labels
func WithClock(now func() time.Time) Option {
	return func(e *Encoder) { e.now = now }
}

// NewEncoder creates an Encoder rendering QR PNGs with QRRenderer
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		renderer: QRRenderer{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode returns the payload text and the PNG that encodes it.
// On error nothing is returned.
func (e *Encoder) Encode(req PaymentRequest) (string, []byte, error) {
	text, err := e.Payload(req)
	if err != nil {
		return "", nil, err
	}

	img, err := e.renderer.Render(text)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render payload: %w", err)
	}
	return text, img, nil
}

// Payload builds the payload text, checksum included.
func (e *Encoder) Payload(req PaymentRequest) (string, error) {
	if req.Amount.IsNegative() {
		return "", &ValidationError{Field: "amount", Reason: "must not be negative"}
	}

	key := sanitizeKey(req.RecipientKey)
	if key == "" {
		return "", &ValidationError{Field: "recipient key", Reason: "empty after sanitization"}
	}
	name := sanitizeText(req.MerchantName, maxMerchantName)
	if name == "" {
		return "", &ValidationError{Field: "merchant name", Reason: "empty after sanitization"}
	}
	city := sanitizeText(req.MerchantCity, maxMerchantCity)
	if city == "" {
		return "", &ValidationError{Field: "merchant city", Reason: "empty after sanitization"}
	}

	ref, err := e.reference(req.ReferenceTag)
	if err != nil {
		return "", err
	}

	var account tlvWriter
	account.field(TagAccountGUI, "account domain", pixGUI)
	account.field(TagAccountKey, "recipient key", key)
	if account.err != nil {
		return "", account.err
	}

	var additional tlvWriter
	additional.field(TagReferenceLabel, "reference tag", ref)
	if additional.err != nil {
		return "", additional.err
	}

	var w tlvWriter
	w.field(TagPayloadFormat, "payload format", payloadFormat)
	w.field(TagMerchantAccount, "merchant account", account.String())
	w.field(TagCategory, "merchant category", merchantCatCode)
	w.field(TagCurrency, "currency", currencyBRL)

	// amounts that round to zero centavos are "no amount": the payer types it
	amount := req.Amount.Round(common.BRLDecimals)
	if amount.IsPositive() {
		w.field(TagAmount, "amount", common.FormatAmount(amount))
	}

	w.field(TagCountry, "country", countryBR)
	w.field(TagMerchantName, "merchant name", name)
	w.field(TagMerchantCity, "merchant city", city)
	w.field(TagAdditionalData, "additional data", additional.String())
	w.raw(TagCRC + "04")
	if w.err != nil {
		return "", w.err
	}

	body := w.String()
	return body + FormatChecksum(Checksum([]byte(body))), nil
}

func (e *Encoder) reference(tag string) (string, error) {
	if tag == "" || tag == noReference {
		return NewReference(e.now()), nil
	}

	ref := sanitizeReference(tag)
	if ref == "" {
		return "", &ValidationError{Field: "reference tag", Reason: "empty after sanitization"}
	}
	if len(ref) > maxReferenceLen {
		return "", &ValidationError{
			Field:  "reference tag",
			Reason: fmt.Sprintf("%d characters, the limit is %d", len(ref), maxReferenceLen),
		}
	}
	return ref, nil
}
