package handlers

import (
	"io"
	"net/http"

	"golang.org/x/net/websocket"
)

// InboundMessage is what the chat widget sends over the socket.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what the agent sends to the widget.
type OutboundMessage struct {
	Type      string `json:"type"` // "message", "session", "pong", "error"
	Text      string `json:"text,omitempty"`
	State     string `json:"state,omitempty"`
	SessionID string `json:"session_id,omitempty"`
}

// HandleWebSocket runs a chat session over a websocket. Each connection is
// its own session; resuming is done via the session query parameter.
func (h *ChatHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *ChatHandler) serveWS(conn *websocket.Conn, r *http.Request) {
	defer conn.Close()
	ctx := r.Context()

	var ms *managedSession
	if id := r.URL.Query().Get("session"); id != "" {
		if existing, ok := h.sessions.Get(id); ok {
			ms = existing
		}
	}
	if ms == nil {
		ms = h.sessions.Create()
		turn := h.advance(ctx, ms, "")
		if h.disclaimer != nil {
			h.disclaimer.RecordDelivered(ms.id)
		}
		if err := websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: ms.id}); err != nil {
			return
		}
		if err := websocket.JSON.Send(conn, OutboundMessage{Type: "message", Text: turn.Text, State: string(turn.State)}); err != nil {
			return
		}
	} else if err := websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: ms.id}); err != nil {
		return
	}

	h.logger.Info("websocket chat connected", "session_id", ms.id)

	for {
		var in InboundMessage
		if err := websocket.JSON.Receive(conn, &in); err != nil {
			if err != io.EOF {
				h.logger.Debug("websocket receive ended", "session_id", ms.id, "error", err)
			}
			return
		}

		switch in.Type {
		case "ping":
			if err := websocket.JSON.Send(conn, OutboundMessage{Type: "pong"}); err != nil {
				return
			}
		case "message":
			turn := h.advance(ctx, ms, in.Text)
			if err := websocket.JSON.Send(conn, OutboundMessage{Type: "message", Text: turn.Text, State: string(turn.State)}); err != nil {
				return
			}
		default:
			if err := websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "unknown message type"}); err != nil {
				return
			}
		}
	}
}
