package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/common"
	"github.com/AlexZinkM/event-registration/internal/flow"
	"github.com/AlexZinkM/event-registration/internal/model"
	"github.com/AlexZinkM/event-registration/internal/registration"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/pix"
)

// RegistrationService advances the wizard and generates payment codes
type RegistrationService interface {
	Step(ctx context.Context, in registration.StepInput) (*registration.StepResult, error)
	PaymentCode(amount decimal.Decimal, ref string) (*registration.Payment, error)
	Pricing() flow.Pricing
}

// Event is the static event description shown on the first page.
type Event struct {
	Name          string
	Date          string
	Location      string
	VisitsEnabled bool
}

// RegistrationHandler serves the attendance wizard
type RegistrationHandler struct {
	service RegistrationService
	event   Event
	logger  *zap.Logger
}

// NewRegistrationHandler creates a RegistrationHandler
func NewRegistrationHandler(service RegistrationService, event Event, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{service: service, event: event, logger: logger}
}

// Event handles GET /event
// @Summary      Event information
// @Description  Event name, date, location and prices per guest category
// @Tags         registration
// @Produce      json
// @Success      200  {object}  model.EventResponse
// @Router       /event [get]
func (h *RegistrationHandler) Event(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	p := h.service.Pricing()
	resp := model.EventResponse{
		Name:     h.event.Name,
		Date:     h.event.Date,
		Location: h.event.Location,
		Welcome:  model.MsgWelcome,
		Prices: model.Prices{
			Under5:         p.Under5,
			From5To12:      p.From5To12,
			Above12:        p.Above12,
			MaxPerCategory: p.MaxPerCategory,
		},
		VisitsEnabled: h.event.VisitsEnabled,
	}
	if h.event.VisitsEnabled {
		resp.SecurityNotice = model.MsgSecurityNotice
	}
	writeJSON(w, http.StatusOK, resp)
}

// Step handles POST /registration/step
// @Summary      Advance the registration wizard
// @Description  Applies one action (verify, decline, guests, back, reset) to the state returned by the previous call.
// @Description  Submitting guests saves the confirmation and, for a positive total, returns a PIX payment code.
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        request  body      model.StepRequest  true  "Current state and action"
// @Success      200      {object}  model.StepResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /registration/step [post]
func (h *RegistrationHandler) Step(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.StepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err.Error())
		return
	}

	res, err := h.service.Step(r.Context(), registration.StepInput{
		State:  req.State,
		Action: req.Action,
		Name:   req.Name,
		Guests: req.Guests,
	})
	if err != nil {
		h.stepError(w, r, err)
		return
	}

	resp := model.StepResponse{
		State:        res.State,
		Message:      stepMessage(res),
		Breakdown:    res.Breakdown,
		Confirmation: res.Confirmation,
	}
	if len(res.Breakdown) > 0 {
		resp.TotalDisplay = common.FormatBRL(res.State.Total)
	}
	if res.Payment != nil {
		resp.Payment = paymentResponse(res.Payment)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *RegistrationHandler) stepError(w http.ResponseWriter, r *http.Request, err error) {
	var stepErr *flow.StepError
	var inputErr *flow.InputError

	switch {
	case errors.Is(err, roster.ErrNotFound):
		writeError(w, http.StatusNotFound, model.CodeNotFound, model.MsgNotFound)
	case errors.Is(err, flow.ErrNameRequired):
		writeError(w, http.StatusBadRequest, model.CodeInvalidInput, model.MsgNameRequired)
	case errors.Is(err, registration.ErrUnknownAction):
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err.Error())
	case errors.As(err, &stepErr):
		writeError(w, http.StatusBadRequest, model.CodeInvalidStep, err.Error())
	case errors.As(err, &inputErr):
		writeError(w, http.StatusUnprocessableEntity, model.CodeInvalidInput, err.Error())
	case pix.IsValidationError(err):
		h.logger.Warn("payment code rejected", zap.Error(err))
		writeError(w, http.StatusUnprocessableEntity, model.CodeInvalidPayment, model.MsgInvalidPaymentData)
	default:
		writeInternal(w, r, h.logger, err)
	}
}

func stepMessage(res *registration.StepResult) string {
	switch res.State.Step {
	case flow.StepDone:
		if !res.State.Attending {
			return model.MsgDeclined
		}
		return model.MsgFreeConfirmed
	case flow.StepPayment:
		return model.MsgPaymentPending
	}
	return ""
}

func paymentResponse(p *registration.Payment) *model.PaymentResponse {
	return &model.PaymentResponse{
		Code:         p.Code,
		QRCode:       p.QRCode,
		Amount:       p.Amount,
		ReferenceTag: p.ReferenceTag,
	}
}

// PaymentQR handles GET /payment/qr
// @Summary      PIX QR code
// @Description  Renders a PIX charge to the event account as a PNG. Without amount the payer types it.
// @Tags         payment
// @Produce      png
// @Param        amount  query     string  false  "Amount in BRL, up to 2 decimals (e.g. 75.00)"
// @Param        ref     query     string  false  "Reference tag, up to 25 letters and digits"
// @Success      200     {file}    binary
// @Failure      400     {object}  model.ErrorResponse
// @Failure      422     {object}  model.ErrorResponse
// @Router       /payment/qr [get]
func (h *RegistrationHandler) PaymentQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	amount := decimal.Zero
	if s := r.URL.Query().Get("amount"); s != "" {
		a, err := common.ParseAmount(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, "invalid amount: "+err.Error())
			return
		}
		amount = a
	}

	payment, err := h.service.PaymentCode(amount, r.URL.Query().Get("ref"))
	if err != nil {
		if pix.IsValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, model.CodeInvalidPayment, err.Error())
			return
		}
		writeInternal(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(payment.QRCode)
}
