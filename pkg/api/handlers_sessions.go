package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/session"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.WarmupTicks < 0 || req.WarmupTicks > MaxWarmupTicks {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("warmup_ticks must be between 0 and %d", MaxWarmupTicks))
		return
	}

	sess, err := s.store.Create(req.Claims)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	if req.WarmupTicks > 0 {
		sess.Step(req.WarmupTicks)
	}

	s.logger.Info("session created",
		logging.SessionID(sess.ID),
		logging.Nodes(sess.Summary().Nodes()),
		logging.Edges(sess.Summary().Edges),
	)
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.respondJSON(w, http.StatusCreated, sessionResponse(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.store.IDs()
	s.respondJSON(w, http.StatusOK, SessionListResponse{Sessions: ids, Count: len(ids)})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, sessionResponse(sess))
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Close(r.PathValue("id")); err != nil {
		s.respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleFrame returns the current layout. ?velocity=true and ?claims=true add
// velocities and claim payloads.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var opts []visualization.FrameOption
	q := r.URL.Query()
	if flag(q.Get("velocity")) {
		opts = append(opts, visualization.IncludeVelocity())
	}
	if flag(q.Get("claims")) {
		opts = append(opts, visualization.IncludeClaims())
	}
	s.respondJSON(w, http.StatusOK, sess.Frame(opts...))
}

func (s *Server) handleRings(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	rings := sess.Rings()
	s.respondJSON(w, http.StatusOK, RingsResponse{
		Rings:      rings,
		Count:      len(rings),
		Suspicious: sess.Summary().SuspiciousRings,
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req SelectionRequest
	if err := s.decode(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := sess.Select(req.NodeID); err != nil {
		s.respondErr(w, err)
		return
	}

	s.store.Publish(sess)

	id, _ := sess.Selected()
	s.respondJSON(w, http.StatusOK, SelectionResponse{NodeID: id})
}

// handleTick advances a session by ?n ticks (default 1).
func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	n := 1
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > MaxTicksPerRequest {
			s.respondError(w, http.StatusBadRequest, fmt.Sprintf("n must be an integer between 1 and %d", MaxTicksPerRequest))
			return
		}
		n = v
	}

	energy := sess.Step(n)
	s.store.Publish(sess)
	s.respondJSON(w, http.StatusOK, TickResponse{Ticks: sess.Ticks(), KineticEnergy: energy})
}

func sessionResponse(sess *session.Session) SessionResponse {
	selected, _ := sess.Selected()
	return SessionResponse{
		ID:            sess.ID,
		CreatedAt:     sess.CreatedAt,
		Summary:       sess.Summary(),
		Ticks:         sess.Ticks(),
		KineticEnergy: sess.KineticEnergy(),
		Selected:      selected,
	}
}

func flag(v string) bool {
	b, err := strconv.ParseBool(v)
	return err == nil && b
}
