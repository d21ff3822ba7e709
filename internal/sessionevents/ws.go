package sessionevents

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/polarisml/console-gateway/internal/token"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades a tab's connection and subscribes it under the token
// fingerprint. Anonymous visitors are rejected: there is no session to
// watch.
func Handler(hub *Hub, store *token.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok := store.Get(r)
		if tok == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fp := token.Fingerprint(tok)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("sessionevents: upgrade failed: %v", err)
			return
		}

		id := hub.Register(fp, conn)
		defer hub.Unregister(fp, id)

		// Tabs never send application data; the read loop only detects
		// close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
