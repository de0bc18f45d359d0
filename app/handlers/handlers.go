package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	playerservice "github.com/fairway-collective/foursome/app/modules/player/application"
	roundservice "github.com/fairway-collective/foursome/app/modules/round/application"
	rounddb "github.com/fairway-collective/foursome/app/modules/round/infrastructure/repositories"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the signup tracker over HTTP.
type Handler struct {
	rounds  roundservice.Service
	players playerservice.Service
	logger  *slog.Logger
}

// New creates a new Handler.
func New(rounds roundservice.Service, players playerservice.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{rounds: rounds, players: players, logger: logger}
}

// ListRounds returns the upcoming rounds with current entries and occupancy.
// The feed runs the sweep-and-promote pass before reading.
func (h *Handler) ListRounds(w http.ResponseWriter, r *http.Request) {
	views, err := h.rounds.ListUpcoming(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, views)
}

type proposeRoundRequest struct {
	Course  string    `json:"course"`
	Date    time.Time `json:"date"`
	Golfers int       `json:"golfers"`
	Notes   string    `json:"notes"`
}

type proposeRoundResponse struct {
	Round   *rounddb.Round `json:"round"`
	Created bool           `json:"created"`
}

// ProposeRound creates a round unless one exists for the same course and
// date; duplicates come back with created=false.
func (h *Handler) ProposeRound(w http.ResponseWriter, r *http.Request) {
	var req proposeRoundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	round, created, err := h.rounds.ProposeRound(r.Context(), roundservice.ProposeRoundInput{
		Course:  req.Course,
		Date:    req.Date,
		Golfers: req.Golfers,
		Notes:   req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSON(w, status, proposeRoundResponse{Round: round, Created: created})
}

type createEntryRequest struct {
	Status rounddb.EntryStatus `json:"status"`
	Guests int                 `json:"guests"`
	Notes  string              `json:"notes"`
}

// CreateEntry signs the caller up for a round, creating their player record
// on first use.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	roundID, err := strconv.ParseInt(chi.URLParam(r, "roundID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid round ID", http.StatusBadRequest)
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	player, err := h.players.EnsureForUser(r.Context(), identity.Subject, identity.Name, identity.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	entry, err := h.rounds.CreateEntry(r.Context(), roundservice.CreateEntryInput{
		RoundID:  roundID,
		PlayerID: player.ID,
		Status:   req.Status,
		Guests:   req.Guests,
		Notes:    req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, entry)
}

// RemoveEntry deletes the caller's own entry and backfills the round from
// the waitlist.
func (h *Handler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid entry ID", http.StatusBadRequest)
		return
	}

	player, err := h.players.ResolvePlayer(r.Context(), identity.Subject)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.rounds.RemoveEntry(r.Context(), entryID, player.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateGuestsRequest struct {
	Guests int `json:"guests"`
}

// UpdateGuests changes the guest count on the caller's own entry.
func (h *Handler) UpdateGuests(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(chi.URLParam(r, "entryID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid entry ID", http.StatusBadRequest)
		return
	}

	var req updateGuestsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	player, err := h.players.ResolvePlayer(r.Context(), identity.Subject)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.rounds.UpdateGuests(r.Context(), entryID, req.Guests, player.ID); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Healthz is a liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", slog.Any("error", err))
	}
}

// writeError maps domain errors to HTTP statuses: validation to 400, missing
// records to 404, ownership to 403, everything else to 500.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, roundservice.ErrGuestLimit),
		errors.Is(err, roundservice.ErrInvalidStatus),
		errors.Is(err, roundservice.ErrMissingField):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, roundservice.ErrRoundNotFound),
		errors.Is(err, roundservice.ErrEntryNotFound),
		errors.Is(err, roundservice.ErrPlayerNotFound),
		errors.Is(err, playerservice.ErrNoPlayer):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, roundservice.ErrNotEntryOwner):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
