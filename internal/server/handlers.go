package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/lox/pushfold/decision"
	"github.com/lox/pushfold/internal/profile"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/strategy"
)

// requestError is a client error reported with its own status.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

type profileEntry struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	players, err := parsePlayers(q.Get("players"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	depth, err := s.parseDepth(q.Get("depth"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	hand := q.Get("hand")

	resolver, active := s.resolver()
	sweep, err := resolver.Sweep(players, depth, hand)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	name := ""
	if active != nil {
		name = active.Name
	}
	s.writeJSON(w, r, http.StatusOK, sweep.Document(hand, name))
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	active := s.activeName()
	list := make([]profileEntry, 0, len(names))
	for _, name := range names {
		list = append(list, profileEntry{Name: name, Active: name == active})
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"profiles": list})
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			s.respondError(w, r, badRequest("invalid JSON payload"))
			return
		}
	}
	name := body.Name
	if name == "" {
		name = r.URL.Query().Get("name")
	}
	if name == "" {
		s.respondError(w, r, badRequest("Missing profile name"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.store.Load(name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.holder.Swap(next)
	zerolog.Ctx(r.Context()).Info().Str("profile", name).Msg("Activated profile")
	s.writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "active": name})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	name := r.URL.Query().Get("name")

	s.mu.Lock()
	defer s.mu.Unlock()

	var next *strategy.Active
	if name != "" {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, data, "", "  "); err != nil {
			s.respondError(w, r, &strategy.ParseError{Err: err})
			return
		}
		next, err = s.store.Save(name, pretty.Bytes())
	} else {
		var table *strategy.Table
		table, err = strategy.Load(data)
		next = &strategy.Active{Name: "uploaded", Table: table}
	}
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.holder.Swap(next)
	zerolog.Ctx(r.Context()).Info().Str("profile", next.Name).Bool("saved", name != "").Msg("Uploaded table activated")
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"ok":      true,
		"message": "Ranges uploaded and activated",
		"profile": next.Name,
	})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"note":              "Ranges loaded (use /api/decide to query)",
		"activeProfile":     s.activeName(),
		"availableProfiles": names,
	})
}

func parsePlayers(v string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, badRequest("players must be 2 or 3, got %q", v)
	}
	if _, err := poker.ParsePlayers(n); err != nil {
		return 0, badRequest("%s", err)
	}
	return n, nil
}

// parseDepth clamps to the configured range. An empty value clamps up to the
// minimum.
func (s *Server) parseDepth(v string) (float64, error) {
	depth := 0.0
	if v = strings.TrimSpace(v); v != "" {
		var err error
		depth, err = strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, badRequest("invalid depth %q", v)
		}
	}
	return decision.ClampDepth(depth, s.cfg.Depth.Min, s.cfg.Depth.Max), nil
}

// statusFor maps an error to the response status.
func statusFor(err error) int {
	var reqErr *requestError
	var parseErr *strategy.ParseError
	var validationErr *strategy.ValidationError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, profile.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, poker.ErrInvalidHandFormat),
		errors.Is(err, profile.ErrInvalidName),
		errors.As(err, &parseErr),
		errors.As(err, &validationErr):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Request failed")
	}
	s.writeJSON(w, r, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode response")
	}
}
