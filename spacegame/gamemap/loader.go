// Package gamemap loads the galaxy map for a game.
package gamemap

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/valerio/go-spacegame/spacegame/api"
)

// Result is what the map view needs: either MapData or a display-ready Error.
type Result struct {
	GameID  string          `json:"gameId"`
	MapData json.RawMessage `json:"mapData"`
	Error   string          `json:"error,omitempty"`
}

// Loader fetches maps without authentication. Concurrent loads of the same
// game share one request.
type Loader struct {
	client *api.Client
	group  singleflight.Group
}

func NewLoader(baseURL string, opts ...api.Option) *Loader {
	return &Loader{client: api.New(baseURL, nil, opts...)}
}

// Load never returns a Go error; failures are reported in Result.Error.
// The shared request outlives any single caller's context, so one caller
// giving up does not fail the others.
func (l *Loader) Load(ctx context.Context, gameID string) Result {
	ch := l.group.DoChan(gameID, func() (any, error) {
		return l.load(context.WithoutCancel(ctx), gameID), nil
	})
	select {
	case res := <-ch:
		return res.Val.(Result)
	case <-ctx.Done():
		return Result{GameID: gameID, Error: "Failed to connect to server"}
	}
}

func (l *Loader) load(ctx context.Context, gameID string) Result {
	result := Result{GameID: gameID}

	resp, err := l.client.Fetch(ctx, "/games/"+url.PathEscape(gameID)+"/map", nil)
	if err != nil {
		slog.WarnContext(ctx, "Map request failed", "game", gameID, "error", err)
		result.Error = "Failed to connect to server"
		return result
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		result.Error = fmt.Sprintf("Failed to load map: %d", resp.StatusCode)
		return result
	}

	var data json.RawMessage
	if err := api.Decode(resp, &data); err != nil {
		slog.WarnContext(ctx, "Map response unreadable", "game", gameID, "error", err)
		result.Error = "Failed to connect to server"
		return result
	}

	result.MapData = data
	return result
}
