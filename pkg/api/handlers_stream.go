package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-ringview/pkg/logging"
	"github.com/dd0wney/cluso-ringview/pkg/visualization"
)

// handleStream pushes frames as server-sent events: the current frame first,
// then one for every driver tick, tick request or selection change. The
// stream ends when the client goes away or the session is closed.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	sub, err := s.store.Subscribe(r.Context(), sess.ID)
	if err != nil {
		s.respondErr(w, err)
		return
	}
	defer sub.Unsubscribe()

	s.metricsRegistry.StreamOpened()
	defer s.metricsRegistry.StreamClosed()

	rc := http.NewResponseController(w)
	// the server write timeout would otherwise cut long streams
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := s.writeFrameEvent(w, sess.Frame()); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		s.logger.Warn("streaming unsupported", logging.Error(err))
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case frame, ok := <-sub.C():
			if !ok {
				s.metricsRegistry.RecordStreamEvent("closed")
				fmt.Fprint(w, "event: closed\ndata: {}\n\n")
				rc.Flush()
				return
			}
			if err := s.writeFrameEvent(w, frame); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

func (s *Server) writeFrameEvent(w io.Writer, f visualization.Frame) error {
	data, err := f.ExportJSON()
	if err != nil {
		return err
	}
	s.metricsRegistry.RecordStreamEvent("frame")
	_, err = fmt.Fprintf(w, "event: frame\nid: %d\ndata: %s\n\n", f.Tick, data)
	return err
}
