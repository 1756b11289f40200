package network

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/algotycoon/server/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades /ws?game_id=XXX. Without game_id the client must send a
// NEW_GAME action first.
func ServeWS(hub *Hub, sessions *session.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := r.URL.Query().Get("game_id")
		if gameID != "" {
			if _, err := sessions.Get(gameID); err != nil {
				jsonError(w, "Unknown game_id", http.StatusNotFound)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.logger.Error("websocket upgrade failed", zap.Error(err))
			return
		}
		NewClient(hub, sessions, conn, gameID).Start()
	}
}
