package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jwold/trailblazerstrivia/internal/trivia"
)

const streamPingInterval = 30 * time.Second

// loadEvent reads the stored state of a game and encodes it for a stream.
// A game that no longer exists yields a deleted event and done set.
func loadEvent(ctx context.Context, games GameService, code string) (data []byte, done bool, err error) {
	sess, err := games.Get(ctx, code)
	switch {
	case errors.Is(err, trivia.ErrNotFound):
		data, err = json.Marshal(GameEvent{Type: eventDeleted})
		if err != nil {
			return nil, true, fmt.Errorf("encoding event: %w", err)
		}
		return data, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("loading game: %w", err)
	}

	data, err = json.Marshal(GameEvent{Type: eventState, Session: &sess})
	if err != nil {
		return nil, false, fmt.Errorf("encoding event: %w", err)
	}
	return data, false, nil
}

// streamGame sends the current state of a game, then the stored state again
// each time changed fires. It returns nil once the game is deleted or ctx
// ends. Identical consecutive snapshots are sent once. When keepalive is set
// it runs every streamPingInterval while the game is idle.
func streamGame(ctx context.Context, games GameService, code string, changed <-chan struct{}, send func([]byte) error, keepalive func() error) error {
	var tick <-chan time.Time
	if keepalive != nil {
		t := time.NewTicker(streamPingInterval)
		defer t.Stop()
		tick = t.C
	}

	var last []byte
	for {
		data, done, err := loadEvent(ctx, games, code)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !bytes.Equal(data, last) {
			if err := send(data); err != nil {
				return err
			}
			last = data
		}
		if done {
			return nil
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-changed:
				break wait
			case <-tick:
				if err := keepalive(); err != nil {
					return err
				}
			}
		}
	}
}
