package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

const wsWriteTimeout = 5 * time.Second

// handleGameSocket pushes game snapshots over a WebSocket. The stream is one
// way: anything the client sends is discarded, and state changes go through
// the REST routes. The socket is closed normally after the game is deleted.
func handleGameSocket(logger *slog.Logger, games GameService, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		ch := broker.Subscribe(code)
		defer broker.Unsubscribe(code, ch)

		if _, err := games.Get(r.Context(), code); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		// CloseRead handles control frames and cancels ctx once the peer goes away.
		ctx := conn.CloseRead(r.Context())

		send := func(data []byte) error { return writeFrame(ctx, conn, data) }
		if err := streamGame(ctx, games, code, ch, send, nil); err != nil {
			logger.Debug("websocket stream ended", "game_code", code, "error", err)
			return
		}
		if ctx.Err() != nil {
			logger.Debug("websocket closed", "game_code", code)
			return
		}
		conn.Close(websocket.StatusNormalClosure, "game deleted")
	}
}

func writeFrame(ctx context.Context, conn *websocket.Conn, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
