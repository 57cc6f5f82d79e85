package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
	"github.com/vietnoy/pantry/internal/auth"
)

// HandleWebSocket upgrades the connection and runs it as a hub client for
// the caller's active group. Users without a group have nothing to
// subscribe to.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac, derr := auth.RequireGroup(r.Context())
		if derr != nil {
			http.Error(w, derr.Error(), http.StatusBadRequest)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(hub, conn, ac.GroupID)
		client.Run(r.Context())
	}
}
