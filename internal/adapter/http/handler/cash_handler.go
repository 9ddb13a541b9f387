package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/caja/internal/adapter/http/dto"
	"github.com/iho/caja/internal/domain"
	"github.com/iho/caja/internal/usecase"
)

// CashService defines the behavior needed by CashHandler.
type CashService interface {
	OpenSession(ctx context.Context, input usecase.OpenSessionInput) (*domain.CashSession, error)
	GetSession(ctx context.Context, id string) (*domain.CashSession, error)
	ListSessions(ctx context.Context, input usecase.ListSessionsInput) ([]*domain.CashSession, error)
	RecordMovement(ctx context.Context, input usecase.RecordMovementInput) (*domain.CashMovement, error)
	ListMovements(ctx context.Context, sessionID string, limit, offset int) ([]*domain.CashMovement, error)
	Summary(ctx context.Context, id string) (*usecase.SessionSummary, error)
	CloseSession(ctx context.Context, input usecase.CloseSessionInput) (*domain.CashSession, error)
}

// CashHandler handles cash session HTTP requests.
type CashHandler struct {
	cashUC          CashService
	defaultCurrency string
}

// NewCashHandler creates a new CashHandler. Sessions opened without a
// currency use defaultCurrency.
func NewCashHandler(cashUC CashService, defaultCurrency string) *CashHandler {
	return &CashHandler{cashUC: cashUC, defaultCurrency: defaultCurrency}
}

// Open opens a new cash session.
func (h *CashHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.cashUC.OpenSession(r.Context(), req.ToUseCaseInput(h.defaultCurrency))
	if err != nil {
		writeDomainError(w, "failed to open session", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SessionFromDomain(session))
}

// Get retrieves a session by ID.
func (h *CashHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session ID", "")
		return
	}

	session, err := h.cashUC.GetSession(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get session", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}

// List lists sessions, optionally filtered by ?status=open|closed.
func (h *CashHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListSessionsInput{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	switch status := domain.SessionStatus(r.URL.Query().Get("status")); status {
	case "":
	case domain.SessionStatusOpen, domain.SessionStatusClosed:
		input.Status = &status
	default:
		writeError(w, http.StatusBadRequest, "invalid status filter", string(status))
		return
	}

	sessions, err := h.cashUC.ListSessions(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to list sessions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListSessionsResponse{
		Sessions: dto.SessionsFromDomain(sessions),
		Total:    int64(len(sessions)),
	})
}

// RecordMovement records an inflow or outflow against an open session.
func (h *CashHandler) RecordMovement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.RecordMovementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	movement, err := h.cashUC.RecordMovement(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to record movement", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MovementFromDomain(movement))
}

// ListMovements lists the movements of a session.
func (h *CashHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	movements, err := h.cashUC.ListMovements(r.Context(), id, limit, offset)
	if err != nil {
		writeDomainError(w, "failed to list movements", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListMovementsResponse{
		Movements: dto.MovementsFromDomain(movements),
		Total:     int64(len(movements)),
	})
}

// Summary returns the live expected balance of a session.
func (h *CashHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.cashUC.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SummaryFromUseCase(summary))
}

// Close records the physical count and closes the session.
func (h *CashHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.CloseSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := h.cashUC.CloseSession(r.Context(), req.ToUseCaseInput(id))
	if err != nil {
		writeDomainError(w, "failed to close session", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session))
}
