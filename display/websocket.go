package epicycle

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// How often the latest frames are pushed to a client
const frameStreamInterval = 100 * time.Millisecond

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler streams the latest []Frame as JSON until the client goes away
func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Websocket upgrade failed", slog.Any("Error", err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(frameStreamInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteJSON(v.Frames()); err != nil {
			return // Connection closed
		}
	}
}
