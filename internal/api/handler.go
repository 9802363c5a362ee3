package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/knap/internal/solver"
	"github.com/eugenenazirov/knap/internal/storage"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// SolveObserver receives the outcome of every solve attempt.
type SolveObserver interface {
	ObserveSolve(strategy string, elapsed time.Duration, selected int, err error)
}

// Handler wires solver and storage dependencies into HTTP handlers.
type Handler struct {
	solver   solver.Solver
	storage  storage.Storage
	observer SolveObserver
	logger   *zap.Logger

	clock func() time.Time

	mu             sync.RWMutex
	itemsUpdatedAt time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// WithObserver records solve outcomes, typically into Prometheus.
func WithObserver(observer SolveObserver) HandlerOption {
	return func(h *Handler) {
		h.observer = observer
	}
}

// WithLogger attaches a logger for solve failures.
func WithLogger(logger *zap.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(s solver.Solver, store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		solver:  s,
		storage: store,
		logger:  zap.NewNop(),
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	h.itemsUpdatedAt = h.clock()
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetItems(w http.ResponseWriter, r *http.Request) {
	_ = r
	items, err := h.storage.GetItems()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := itemsResponse{
		Items:     items,
		UpdatedAt: h.currentItemsUpdatedAt(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handlePutItems(w http.ResponseWriter, r *http.Request) {
	var req itemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "Invalid items", "items must contain at least one entry")
		return
	}

	if err := h.storage.SetItems(req.Items); err != nil {
		if errors.Is(err, storage.ErrInvalidItems) {
			writeError(w, http.StatusBadRequest, "Invalid items", err.Error())
			return
		}
		writeInternalError(w, err)
		return
	}

	h.markItemsUpdated()

	items, err := h.storage.GetItems()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	resp := itemsResponse{
		Items:     items,
		UpdatedAt: h.currentItemsUpdatedAt(),
		Message:   "Items updated successfully",
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	strategy, err := solver.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	items, ok := h.resolveItems(w, req.Items)
	if !ok {
		return
	}

	start := time.Now()
	result, solveErr := h.solver.Solve(items, req.Capacity, strategy)
	elapsed := time.Since(start)
	h.observe(r.Context(), string(strategy), req.Capacity, elapsed, len(result.Items), solveErr)

	if solveErr != nil {
		writeSolveError(w, solveErr)
		return
	}

	writeJSON(w, http.StatusOK, newSolveResponse(result, elapsed))
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", "unable to parse JSON payload")
		return
	}

	items, ok := h.resolveItems(w, req.Items)
	if !ok {
		return
	}

	start := time.Now()
	cmp, err := h.solver.Compare(items, req.Capacity)
	elapsed := time.Since(start)
	h.observe(r.Context(), "compare", req.Capacity, elapsed, len(cmp.Optimal.Items), err)

	if err != nil {
		writeSolveError(w, err)
		return
	}

	resp := compareResponse{
		Optimal:           newSolveResponse(cmp.Optimal, 0),
		Greedy:            newSolveResponse(cmp.Greedy, 0),
		Gap:               cmp.Gap,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveItems returns the request's inline items, or the stored catalog when none were sent.
func (h *Handler) resolveItems(w http.ResponseWriter, inline []storage.Item) ([]storage.Item, bool) {
	if len(inline) > 0 {
		if err := storage.ValidateItems(inline); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid items", err.Error())
			return nil, false
		}
		return inline, true
	}

	items, err := h.storage.GetItems()
	if err != nil {
		writeInternalError(w, err)
		return nil, false
	}
	return items, true
}

func (h *Handler) observe(ctx context.Context, strategy string, capacity int, elapsed time.Duration, selected int, err error) {
	if h.observer != nil {
		h.observer.ObserveSolve(strategy, elapsed, selected, err)
	}
	if err != nil {
		h.logger.Warn("solve rejected",
			zap.String("strategy", strategy),
			zap.Int("capacity", capacity),
			zap.String("request_id", requestIDFromContext(ctx)),
			zap.Error(err),
		)
	}
}

func writeSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, solver.ErrInvalidCapacity),
		errors.Is(err, solver.ErrInvalidItems),
		errors.Is(err, solver.ErrUnknownStrategy):
		writeError(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, solver.ErrCapacityTooLarge):
		writeError(w, http.StatusUnprocessableEntity, "Capacity too large", err.Error(), capacitySuggestion(err))
	default:
		writeInternalError(w, err)
	}
}

// capacitySuggestion points the caller at the bound that rejected the request.
func capacitySuggestion(err error) string {
	var limitErr *solver.LimitError
	if !errors.As(err, &limitErr) {
		return "Reduce the capacity"
	}
	if limitErr.Bound == solver.BoundTable {
		return fmt.Sprintf("Use a capacity of at most %d for %d items, send fewer items, or use the greedy strategy",
			limitErr.MaxCapacity, limitErr.Items)
	}
	return fmt.Sprintf("Use a capacity of at most %d", limitErr.MaxCapacity)
}

func (h *Handler) currentItemsUpdatedAt() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.itemsUpdatedAt
}

func (h *Handler) markItemsUpdated() {
	h.mu.Lock()
	h.itemsUpdatedAt = h.clock()
	h.mu.Unlock()
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type itemsRequest struct {
	Items []storage.Item `json:"items"`
}

type solveRequest struct {
	Capacity int            `json:"capacity"`
	Strategy string         `json:"strategy"`
	Items    []storage.Item `json:"items,omitempty"`
}

type compareRequest struct {
	Capacity int            `json:"capacity"`
	Items    []storage.Item `json:"items,omitempty"`
}

type solveResponse struct {
	Strategy          string         `json:"strategy"`
	Capacity          int            `json:"capacity"`
	Items             []storage.Item `json:"items"`
	TotalWeight       int            `json:"totalWeight"`
	TotalValue        int            `json:"totalValue"`
	RemainingCapacity int            `json:"remainingCapacity"`
	CalculationTimeMs int64          `json:"calculationTimeMs"`
}

func newSolveResponse(result solver.Result, elapsed time.Duration) solveResponse {
	return solveResponse{
		Strategy:          string(result.Strategy),
		Capacity:          result.Capacity,
		Items:             result.Items,
		TotalWeight:       result.TotalWeight,
		TotalValue:        result.TotalValue,
		RemainingCapacity: result.Capacity - result.TotalWeight,
		CalculationTimeMs: elapsed.Milliseconds(),
	}
}

type compareResponse struct {
	Optimal           solveResponse `json:"optimal"`
	Greedy            solveResponse `json:"greedy"`
	Gap               int           `json:"gap"`
	CalculationTimeMs int64         `json:"calculationTimeMs"`
}

type itemsResponse struct {
	Items     []storage.Item `json:"items"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Message   string         `json:"message,omitempty"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
