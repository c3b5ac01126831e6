package server

import (
	"fmt"
	"log/slog"
	"net/http"
)

// handleEvents streams game snapshots as Server-Sent Events. The current
// state is sent first so a client never has to poll before subscribing. The
// stream ends with a deleted event when the game is removed.
func handleEvents(logger *slog.Logger, games GameService, broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := gameCode(r)

		// Subscribe before the first read so no change slips in between.
		ch := broker.Subscribe(code)
		defer broker.Unsubscribe(code, ch)

		if _, err := games.Get(r.Context(), code); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		send := func(data []byte) error {
			if _, err := fmt.Fprintf(w, "event: game\ndata: %s\n\n", data); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		}
		ping := func() error {
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return err
			}
			flusher.Flush()
			return nil
		}

		err := streamGame(r.Context(), games, code, ch, send, ping)
		if err != nil && r.Context().Err() == nil {
			logger.Error("event stream failed", "game_code", code, "error", err)
		}
	}
}
