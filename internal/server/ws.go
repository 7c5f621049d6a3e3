package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/raysh454/paydash/internal/app"
	"github.com/raysh454/paydash/internal/logging"
)

const (
	eventBuffer = 32
	pingEvery   = 30 * time.Second
	writeWait   = 10 * time.Second
)

// handleEventsWS streams the caller's session events until either side closes.
// @Summary Session event stream
// @Description WebSocket pushing history, validation and transformation events of the caller's session.
// @Tags events
// @Success 101 {object} app.Event
// @Router /ws/events [get]
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	// Subscribe before the handshake completes so no event after it is missed.
	events, unsubscribe := sess.Subscribe(eventBuffer)
	defer unsubscribe()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Err(err))
		return
	}
	defer conn.Close()
	s.logger.Info("event stream opened", logging.Field{Key: "session_id", Value: sess.ID})

	// The read side only detects the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingEvery)
	defer ping.Stop()

	for {
		select {
		case <-gone:
			s.logger.Info("event stream closed", logging.Field{Key: "session_id", Value: sess.ID})
			return
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				// Session ended or server shutting down.
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			if err := writeEvent(conn, ev); err != nil {
				s.logger.Debug("writing event", logging.Err(err))
				return
			}
		}
	}
}

func writeEvent(conn *websocket.Conn, ev app.Event) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(ev)
}
