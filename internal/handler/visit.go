package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AlexZinkM/event-registration/internal/model"
	"github.com/AlexZinkM/event-registration/internal/roster"
	"github.com/AlexZinkM/event-registration/internal/visit"
)

// VisitRegistrar registers facility visits
type VisitRegistrar interface {
	Register(ctx context.Context, req visit.Request) (*visit.Result, error)
}

// VisitHandler serves visitor registration
type VisitHandler struct {
	service VisitRegistrar
	logger  *zap.Logger
}

// NewVisitHandler creates a VisitHandler
func NewVisitHandler(service VisitRegistrar, logger *zap.Logger) *VisitHandler {
	return &VisitHandler{service: service, logger: logger}
}

// Register handles POST /visits
// @Summary      Register a visit
// @Description  Registers the invited participant and companions for facility access. Documents (RG) are digits only after removing dots, dashes and spaces.
// @Tags         visits
// @Accept       json
// @Produce      json
// @Param        request  body      model.VisitRequest  true  "Visitors"
// @Success      200      {object}  model.VisitResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      404      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Router       /visits [post]
func (h *VisitHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.VisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.CodeInvalidRequest, err.Error())
		return
	}

	in := visit.Request{Name: req.Name, Document: req.Document}
	for _, c := range req.Companions {
		in.Companions = append(in.Companions, visit.Person{Name: c.Name, Document: c.Document})
	}

	res, err := h.service.Register(r.Context(), in)
	if err != nil {
		var fieldErr *visit.FieldError
		switch {
		case errors.Is(err, roster.ErrNotFound):
			writeError(w, http.StatusNotFound, model.CodeNotFound, model.MsgNotFound)
		case errors.As(err, &fieldErr) && strings.HasSuffix(fieldErr.Field, "document"):
			writeError(w, http.StatusUnprocessableEntity, model.CodeInvalidDocument, model.MsgInvalidDocument+" ("+fieldErr.Field+")")
		case errors.As(err, &fieldErr):
			writeError(w, http.StatusUnprocessableEntity, model.CodeInvalidInput, err.Error())
		default:
			writeInternal(w, r, h.logger, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, model.VisitResponse{
		Success:  true,
		Message:  model.MsgVisitRegistered,
		VisitID:  res.VisitID,
		Visitors: res.Visitors,
	})
}
