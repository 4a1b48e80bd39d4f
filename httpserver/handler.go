package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ruteri/arc-name-service/controller"
	"github.com/ruteri/arc-name-service/interfaces"
)

// OutcomeResponse is the JSON form of a settled operation.
type OutcomeResponse struct {
	Outcome string `json:"outcome"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
	TxHash  string `json:"tx_hash,omitempty"`
	Error   string `json:"error,omitempty"`

	// Message is the line shown to users.
	Message string `json:"message"`
}

// StateResponse is the JSON form of a controller snapshot.
type StateResponse struct {
	Panel    string           `json:"panel"`
	InFlight bool             `json:"in_flight"`
	Version  uint64           `json:"version"`
	Last     *OutcomeResponse `json:"last_outcome,omitempty"`
}

// Handler serves the name service API. Registration and resolution are
// separate panels, each with its own controller, so a pending registration
// never blocks lookups.
type Handler struct {
	register *controller.Controller
	resolve  *controller.Controller
	log      *slog.Logger
}

// NewHandler creates a handler over the register and resolve panels.
func NewHandler(register, resolve *controller.Controller, log *slog.Logger) *Handler {
	return &Handler{
		register: register,
		resolve:  resolve,
		log:      log,
	}
}

// HandleRegister registers the name in the URL.
//
// URL format: POST /api/register/{name}[?async=true]
//
// Synchronous requests block until the transaction is mined. Asynchronous ones
// return 202 right away; poll /api/state/register for the outcome. A request
// arriving while a registration is in flight gets 409.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	h.handleOperation(w, r, h.register, (*controller.Controller).RunRegister, (*controller.Controller).TriggerRegister)
}

// HandleResolve looks up the name in the URL.
//
// URL format: GET /api/resolve/{name}[?async=true]
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	h.handleOperation(w, r, h.resolve, (*controller.Controller).RunResolve, (*controller.Controller).TriggerResolve)
}

// HandleState returns the current state of a panel.
//
// URL format: GET /api/state/{panel}
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	panel, err := pathParam(r, "panel")
	if err != nil {
		http.Error(w, "Invalid panel in URL", http.StatusBadRequest)
		return
	}

	var c *controller.Controller
	switch panel {
	case controller.OpRegister:
		c = h.register
	case controller.OpResolve:
		c = h.resolve
	default:
		http.Error(w, "Unknown panel", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, stateResponse(c.Snapshot()))
}

type runFunc func(c *controller.Controller, ctx context.Context, raw string) (interfaces.Outcome, bool)

type triggerFunc func(c *controller.Controller, ctx context.Context, raw string) bool

func (h *Handler) handleOperation(w http.ResponseWriter, r *http.Request, c *controller.Controller, run runFunc, trigger triggerFunc) {
	raw, err := pathParam(r, "name")
	if err != nil {
		http.Error(w, "Invalid name in URL", http.StatusBadRequest)
		return
	}
	if raw == "" {
		http.Error(w, "Missing name in URL", http.StatusBadRequest)
		return
	}

	// Operations outlive the request: a client hanging up does not abandon a
	// transaction that is already signed.
	ctx := context.WithoutCancel(r.Context())

	if r.URL.Query().Get("async") == "true" {
		if !trigger(c, ctx, raw) {
			http.Error(w, "Operation already in flight", http.StatusConflict)
			return
		}
		h.writeJSON(w, http.StatusAccepted, stateResponse(c.Snapshot()))
		return
	}

	outcome, ok := run(c, ctx, raw)
	if !ok {
		http.Error(w, "Operation already in flight", http.StatusConflict)
		return
	}

	h.writeJSON(w, statusFor(outcome), outcomeResponse(outcome))
}

// pathParam returns the decoded value of a URL parameter. chi matches on the
// raw path when the request carries escapes such as %2F, leaving them in the
// parameter.
func pathParam(r *http.Request, key string) (string, error) {
	value := r.PathValue(key)
	if r.URL.RawPath == "" {
		return value, nil
	}
	return url.PathUnescape(value)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", "err", err)
	}
}

func statusFor(outcome interfaces.Outcome) int {
	if outcome.Kind != interfaces.OutcomeFailed {
		return http.StatusOK
	}

	switch {
	case errors.Is(outcome.Err, interfaces.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(outcome.Err, interfaces.ErrCapabilityUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func outcomeResponse(outcome interfaces.Outcome) *OutcomeResponse {
	resp := &OutcomeResponse{
		Outcome: outcome.Kind.String(),
		Name:    string(outcome.Name),
		Message: outcome.String(),
	}

	switch outcome.Kind {
	case interfaces.OutcomeRegistered:
		resp.TxHash = outcome.TxHash.Hex()
	case interfaces.OutcomeResolved:
		resp.Address = outcome.Address.Hex()
	case interfaces.OutcomeFailed:
		resp.Error = outcome.Reason
	}
	return resp
}

func stateResponse(s controller.State) *StateResponse {
	resp := &StateResponse{
		Panel:    s.Panel,
		InFlight: s.InFlight,
		Version:  s.Version,
	}
	if s.HasOutcome {
		resp.Last = outcomeResponse(s.Outcome)
	}
	return resp
}
