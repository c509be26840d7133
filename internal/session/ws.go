package session

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/typemaster/backend/internal/engine"
	"github.com/typemaster/backend/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsInput mirrors TypeRequest for messages arriving over the socket.
type wsInput struct {
	TypedText string `json:"typed_text"`
}

// StreamSession upgrades to a websocket and streams one snapshot per
// engine tick. Inbound messages replace the typed text, so a client can
// drive the whole exercise over the single connection. The stream ends
// after the finished snapshot is delivered.
func (h *Handler) StreamSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	id := mux.Vars(r)["id"]
	rec, snaps, cancel, err := h.manager.Subscribe(userID, id)
	if err != nil {
		status, msg := sessionError(err)
		writeJSON(w, status, models.ErrorResponse{Error: msg})
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[session] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// First frame is the current state so the client never starts blind.
	if err := conn.WriteJSON(h.manager.Wire(rec, rec.session.Snapshot())); err != nil {
		return
	}

	done := make(chan struct{})

	// Inbound: typed-text updates. Closing the socket ends the stream
	// without finishing the session; the countdown keeps running.
	go func() {
		defer close(done)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("[session] websocket read error: %v", err)
				}
				return
			}

			var msg wsInput
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}
			if err := rec.session.Type(msg.TypedText); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case es, ok := <-snaps:
			if !ok {
				return
			}
			if err := conn.WriteJSON(h.manager.Wire(rec, es)); err != nil {
				return
			}
			if es.Phase == engine.PhaseFinished {
				return
			}
		}
	}
}
