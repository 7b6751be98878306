package ws

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ZelenyMartin/quiz-server/internal/app"
	"github.com/ZelenyMartin/quiz-server/internal/domain"
	"github.com/gorilla/websocket"
)

// Handler upgrades registration requests and wires each connection into the
// session: one reader goroutine feeding the answer gate, one writer draining
// the player's outbound channel.
type Handler struct {
	session  *app.Session
	upgrader websocket.Upgrader
}

func NewHandler(session *app.Session) *Handler {
	return &Handler{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Register mounts the handler on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/register/{playerID}", h.ServeWS)
}

// ServeWS handles GET /register/{playerID}.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	playerID := r.PathValue("playerID")
	if playerID == "" {
		http.Error(w, "missing player id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	player, err := h.session.Join(playerID)
	if err != nil {
		// Registration failures concern this connection only; everyone
		// else plays on.
		_ = conn.WriteJSON(domain.InfoMessage("registration failed: " + err.Error()))
		return
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range player.Outbound() {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write to %s failed: %v", playerID, err)
				return
			}
		}
		// Outbound closed: the session ended or the player was dropped.
		// A close frame unblocks the read loop below.
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var answer domain.Answer
		if err := json.Unmarshal(raw, &answer); err != nil || answer.Answer == "" {
			// Free-form chatter outside the expected shape is not an error.
			log.Printf("player %s: ignoring message %q", playerID, raw)
			continue
		}
		h.session.HandleAnswer(player, answer)
	}

	h.session.Leave(playerID)
	<-writerDone
}
