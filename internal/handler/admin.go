package handler

import (
	"crypto/subtle"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/model"
	"github.com/AlexZinkM/event-registration/internal/requestcontext"
	"github.com/AlexZinkM/event-registration/internal/store"
)

// AdminPasswordHeader carries the admin password
const AdminPasswordHeader = "X-Admin-Password"

// ConfirmationLister reads saved confirmations
type ConfirmationLister interface {
	List() ([]store.Confirmation, error)
	Export() ([][]string, error)
}

// VisitLister reads saved visits
type VisitLister interface {
	List() ([]store.Visit, error)
}

// DocumentOpener decrypts sealed documents
type DocumentOpener interface {
	Open(sealed string) (string, error)
}

// AdminConfig controls the admin endpoints. An empty Password disables them.
type AdminConfig struct {
	Password      string
	ExportEnabled bool
}

// AdminHandler serves the organizers' views. visits and opener are nil when
// visitor registration is disabled.
type AdminHandler struct {
	cfg           AdminConfig
	confirmations ConfirmationLister
	visits        VisitLister
	opener        DocumentOpener
	logger        *zap.Logger
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(cfg AdminConfig, confirmations ConfirmationLister, visits VisitLister, opener DocumentOpener, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		cfg:           cfg,
		confirmations: confirmations,
		visits:        visits,
		opener:        opener,
		logger:        logger,
	}
}

// authorize answers the request itself and returns false when access is denied.
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.cfg.Password == "" {
		writeError(w, http.StatusForbidden, model.CodeDisabled, "admin access is disabled")
		return false
	}
	got := r.Header.Get(AdminPasswordHeader)
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.cfg.Password)) != 1 {
		h.logger.Warn("admin access denied",
			zap.String("request_id", requestcontext.RequestID(r.Context())),
			zap.String("remote_addr", r.RemoteAddr))
		writeError(w, http.StatusUnauthorized, model.CodeUnauthorized, "invalid admin password")
		return false
	}
	return true
}

// Confirmations handles GET /admin/confirmations
// @Summary      List confirmations
// @Description  All confirmations, newest first, with totals (people, revenue, average ticket)
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Password  header    string  true  "Admin password"
// @Success      200  {object}  model.ConfirmationsResponse
// @Failure      401  {object}  model.ErrorResponse
// @Failure      403  {object}  model.ErrorResponse
// @Router       /admin/confirmations [get]
func (h *AdminHandler) Confirmations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorize(w, r) {
		return
	}

	cs, err := h.confirmations.List()
	if err != nil {
		writeInternal(w, r, h.logger, err)
		return
	}
	if cs == nil {
		cs = []store.Confirmation{}
	}

	writeJSON(w, http.StatusOK, model.ConfirmationsResponse{
		Stats:         store.Summarize(cs),
		Confirmations: cs,
	})
}

// Export handles GET /admin/confirmations/export
// @Summary      Export confirmations
// @Description  Downloads the confirmations file as CSV
// @Tags         admin
// @Produce      text/csv
// @Param        X-Admin-Password  header    string  true  "Admin password"
// @Success      200  {file}    binary
// @Failure      401  {object}  model.ErrorResponse
// @Failure      403  {object}  model.ErrorResponse
// @Router       /admin/confirmations/export [get]
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorize(w, r) {
		return
	}
	if !h.cfg.ExportEnabled {
		writeError(w, http.StatusForbidden, model.CodeDisabled, "export is disabled")
		return
	}

	rows, err := h.confirmations.Export()
	if err != nil {
		writeInternal(w, r, h.logger, err)
		return
	}

	filename := ExportFilename(requestcontext.Now(r.Context()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		// headers are already sent
		h.logger.Error("export interrupted", zap.Error(err))
	}
}

// ExportFilename names a confirmations export taken at t
func ExportFilename(t time.Time) string {
	return "confirmacoes_" + t.Format("20060102_150405") + ".csv"
}

// Visits handles GET /admin/visits
// @Summary      List visitors
// @Description  Registered visitors with their identity documents, for facility security
// @Tags         admin
// @Produce      json
// @Param        X-Admin-Password  header    string  true  "Admin password"
// @Success      200  {object}  model.VisitsResponse
// @Failure      401  {object}  model.ErrorResponse
// @Failure      403  {object}  model.ErrorResponse
// @Router       /admin/visits [get]
func (h *AdminHandler) Visits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}
	if !h.authorize(w, r) {
		return
	}
	if h.visits == nil || h.opener == nil {
		writeError(w, http.StatusForbidden, model.CodeDisabled, "visitor registration is disabled")
		return
	}

	vs, err := h.visits.List()
	if err != nil {
		writeInternal(w, r, h.logger, err)
		return
	}

	for i := range vs {
		doc, err := h.opener.Open(vs[i].Document)
		if err != nil {
			writeInternal(w, r, h.logger, fmt.Errorf("visit %s: %w", vs[i].ID, err))
			return
		}
		vs[i].Document = doc
	}
	if vs == nil {
		vs = []store.Visit{}
	}

	h.logger.Info("visitor documents viewed",
		zap.String("request_id", requestcontext.RequestID(r.Context())),
		zap.Int("visits", len(vs)))
	writeJSON(w, http.StatusOK, model.VisitsResponse{Total: len(vs), Visits: vs})
}
