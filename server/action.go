package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/wfunc/galaxyserver/game"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/network"
	"github.com/wfunc/galaxyserver/room"
)

const maxActionBytes = 1 << 20

var (
	errRateLimited     = errors.New("rate limited")
	errMissingPlayerID = errors.New("missing " + network.QueryPlayerID)
)

// handleAction authenticates before reading the body, so a rejected caller
// never reaches the engine.
func (s *GameServer) handleAction(w http.ResponseWriter, r *http.Request) {
	playerID, secret := credentials(r)
	roomID, err := s.roomManager.Authenticate(playerID, secret)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	if !s.limiter(playerID).Allow() {
		writeError(w, http.StatusTooManyRequests, errRateLimited)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxActionBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ev, err := game.DecodeEvent(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.roomManager.Apply(r.Context(), roomID, playerID, ev)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *GameServer) handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *GameServer) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.opts.AllowedOrigin)
		h.Set("Access-Control-Allow-Headers", "Cache-Control, Last-Event-ID, Content-Type")
		h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		next.ServeHTTP(w, r)
	})
}

// limiter returns the player's submit limiter. A non-positive rate disables
// limiting.
func (s *GameServer) limiter(playerID string) *rate.Limiter {
	s.limiterMutex.Lock()
	defer s.limiterMutex.Unlock()

	l, ok := s.limiters[playerID]
	if !ok {
		limit, burst := rate.Limit(s.opts.ActionsPerSecond), s.opts.Burst
		if s.opts.ActionsPerSecond <= 0 {
			limit, burst = rate.Inf, math.MaxInt32
		}
		if burst <= 0 {
			burst = 1
		}
		l = rate.NewLimiter(limit, burst)
		s.limiters[playerID] = l
	}
	return l
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, room.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, room.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, room.ErrPlayerAlreadyRegistered):
		return http.StatusConflict
	case errors.Is(err, room.ErrManagerClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, game.ErrMalformedEvent):
		return http.StatusBadRequest
	case errors.Is(err, game.ErrNotPlayersTurn),
		errors.Is(err, game.ErrSectorExhausted),
		errors.Is(err, game.ErrCoordinateOccupied),
		errors.Is(err, game.ErrInfluenceExhausted):
		return http.StatusConflict
	case errors.Is(err, game.ErrUnsupportedAction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	body := errorBody{Error: err.Error()}
	var ge *game.Error
	if errors.As(err, &ge) {
		body.Code = string(ge.Code)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", network.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnw("Failed to write response", "status", status, "error", err)
	}
}
