package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize = 320
	minQRSize     = 128
	maxQRSize     = 1024
)

// handleQRCode renders a PNG QR code pointing at the game's join page so
// players can open the scoreboard on their phones. publicURL overrides the
// scheme and host taken from the request.
func handleQRCode(logger *slog.Logger, games GameService, publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := games.Get(r.Context(), gameCode(r))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		size := defaultQRSize
		if raw := r.URL.Query().Get("size"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < minQRSize || n > maxQRSize {
				writeError(w, http.StatusBadRequest, "size must be between 128 and 1024")
				return
			}
			size = n
		}

		url := joinURL(r, publicURL, sess.GameCode)
		png, err := qrcode.Encode(url, qrcode.Medium, size)
		if err != nil {
			logger.Error("qr generation failed", "game_code", sess.GameCode, "error", err)
			writeError(w, http.StatusInternalServerError, "qr generation failed")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(png)
	}
}

func joinURL(r *http.Request, publicURL, code string) string {
	base := strings.TrimRight(publicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + code
}
