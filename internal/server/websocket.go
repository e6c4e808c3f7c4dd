package server

import (
	"bytes"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// handleWebSocket reads action messages and answers each with one
// ActionResponse until the client disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()

	s.metrics.SocketOpened()
	defer s.metrics.SocketClosed()

	s.log.Debug("websocket connected", zap.String("remote_addr", r.RemoteAddr))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket error", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
			}
			break
		}

		resp := ActionResponse{Success: true}
		msg, err := decodeMessage(bytes.NewReader(data))
		if err == nil {
			resp.Action = msg.Action
			err = s.controls.activate(msg.Action)
		}
		if err != nil {
			resp, _ = s.failure(msg.Action, err)
			s.log.Debug("action rejected", zap.String("action", msg.Action), zap.Error(err))
		} else {
			s.metrics.ActionAccepted()
			s.log.Info("control activated", zap.String("action", msg.Action), zap.String("transport", "websocket"))
		}

		if err := conn.WriteJSON(resp); err != nil {
			s.log.Warn("websocket write failed", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
			break
		}
	}

	s.log.Debug("websocket disconnected", zap.String("remote_addr", r.RemoteAddr))
}
