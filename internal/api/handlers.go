package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pable/go-ulti-metrics/internal/analytics"
	"github.com/pable/go-ulti-metrics/internal/model"
	"github.com/pable/go-ulti-metrics/internal/service"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.respondError(w, r, http.StatusServiceUnavailable, "database unhealthy", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	})
}

// players serves GET /api/players?team_id=&gender=&position=
func (s *Server) players(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.PlayerFilter{Gender: q.Get("gender"), Position: q.Get("position")}
	if v := q.Get("team_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "team_id must be an integer", nil)
			return
		}
		filter.TeamID = id
	}

	players, err := s.svc.Players(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load players", err)
		return
	}
	out := make([]playerJSON, 0, len(players))
	for _, p := range players {
		out = append(out, toPlayerJSON(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) teams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.store.ListTeams(r.Context())
	if err != nil {
		s.respondError(w, r, http.StatusInternalServerError, "failed to load teams", err)
		return
	}
	out := make([]teamJSON, 0, len(teams))
	for _, t := range teams {
		out = append(out, teamJSON{ID: t.ID, Name: t.Name, Region: t.Region})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) statIndex(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"metrics": service.Metrics})
}

// stat serves GET /api/stats/{metric}. Query parameters: breakdown, position,
// line, full_line, and the event filters tournament, opponent, date.
func (s *Server) stat(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := service.Request{
		Metric:    chi.URLParam(r, "metric"),
		Breakdown: q.Get("breakdown"),
		Position:  q.Get("position"),
		Line:      q.Get("line"),
	}
	query := service.Query{Filter: model.EventFilter{
		Tournament: q.Get("tournament"),
		Opponent:   q.Get("opponent"),
		Date:       q.Get("date"),
	}}
	if v := q.Get("full_line"); v != "" {
		full, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, http.StatusBadRequest, "full_line must be a boolean", nil)
			return
		}
		query.FullLine = full
	}

	result, err := s.svc.Stat(r.Context(), query, req)
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidArgument) {
			s.respondError(w, r, http.StatusBadRequest, err.Error(), nil)
			return
		}
		s.respondError(w, r, http.StatusInternalServerError, "failed to compute "+req.Metric, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type playerJSON struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Position string `json:"position,omitempty"`
	OD       string `json:"od,omitempty"`
	TeamID   *int64 `json:"team_id"`
}

func toPlayerJSON(p model.Player) playerJSON {
	out := playerJSON{ID: int64(p.ID), Name: p.Name, Gender: p.Gender, Position: p.Position, OD: p.OD}
	if p.TeamID != 0 {
		id := p.TeamID
		out.TeamID = &id
	}
	return out
}

type teamJSON struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Msg(message)
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
