// Package orders keeps the local copy of the orders placed for one turn.
package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/valerio/go-spacegame/spacegame/api"
)

// Fetcher sends authenticated requests. *session.Session and *api.Client
// both satisfy it.
type Fetcher interface {
	Fetch(ctx context.Context, path string, opts *api.RequestOptions) (*http.Response, error)
}

// Book mirrors the server's order list for the turn last loaded. Reads never
// fail: network and decode errors are logged and leave the list as it was.
// Writes return the server's error message.
type Book struct {
	fetch Fetcher

	mu        sync.RWMutex
	orders    []Order
	loading   bool
	submitted bool
}

func NewBook(fetch Fetcher) *Book {
	return &Book{fetch: fetch}
}

// Orders returns a copy of the cached list.
func (b *Book) Orders() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.orders)
}

func (b *Book) IsLoading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

func (b *Book) IsSubmitted() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.submitted
}

func (b *Book) SetSubmitted(v bool) {
	b.mu.Lock()
	b.submitted = v
	b.mu.Unlock()
}

// Reset clears the list and the flags, e.g. when switching turns.
func (b *Book) Reset() {
	b.mu.Lock()
	b.orders = nil
	b.submitted = false
	b.loading = false
	b.mu.Unlock()
}

// Load replaces the cached list with the server's.
func (b *Book) Load(ctx context.Context, gameID, turnID string) {
	b.setLoading(true)
	defer b.setLoading(false)

	resp, err := b.fetch.Fetch(ctx, ordersPath(gameID, turnID), nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load orders", "game", gameID, "turn", turnID, "error", err)
		return
	}
	if !api.OK(resp) {
		resp.Body.Close()
		slog.WarnContext(ctx, "Failed to load orders", "game", gameID, "turn", turnID, "status", resp.StatusCode)
		return
	}

	var loaded []Order
	if err := api.Decode(resp, &loaded); err != nil {
		slog.ErrorContext(ctx, "Failed to load orders", "game", gameID, "turn", turnID, "error", err)
		return
	}

	b.mu.Lock()
	b.orders = loaded
	b.mu.Unlock()
	slog.DebugContext(ctx, "Orders loaded", "game", gameID, "turn", turnID, "count", len(loaded))
}

// TurnStatus returns the per-player submission status of a turn, or an empty
// list when it can't be fetched.
func (b *Book) TurnStatus(ctx context.Context, gameID, turnID string) []json.RawMessage {
	resp, err := b.fetch.Fetch(ctx, turnPath(gameID, turnID)+"/status", nil)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load turn status", "game", gameID, "turn", turnID, "error", err)
		return []json.RawMessage{}
	}
	if !api.OK(resp) {
		resp.Body.Close()
		return []json.RawMessage{}
	}

	var status []json.RawMessage
	if err := api.Decode(resp, &status); err != nil {
		slog.ErrorContext(ctx, "Failed to load turn status", "game", gameID, "turn", turnID, "error", err)
		return []json.RawMessage{}
	}
	return status
}

// Create places a new order and appends the server's copy to the list.
func (b *Book) Create(ctx context.Context, gameID, turnID string, orderData any) (Order, error) {
	resp, err := b.postJSON(ctx, ordersPath(gameID, turnID), orderData)
	if err != nil {
		return Order{}, err
	}
	if !api.OK(resp) {
		return Order{}, api.DecodeError(resp, "Failed to create order")
	}

	var created Order
	if err := api.Decode(resp, &created); err != nil {
		return Order{}, err
	}

	b.mu.Lock()
	b.orders = append(slices.Clone(b.orders), created)
	b.mu.Unlock()
	return created, nil
}

// Cancel deletes an order and drops it from the list.
func (b *Book) Cancel(ctx context.Context, gameID, turnID, orderID string) error {
	resp, err := b.fetch.Fetch(ctx, ordersPath(gameID, turnID)+"/"+url.PathEscape(orderID), &api.RequestOptions{
		Method: http.MethodDelete,
	})
	if err != nil {
		return err
	}
	if !api.OK(resp) {
		return api.DecodeError(resp, "Failed to cancel order")
	}
	resp.Body.Close()

	b.mu.Lock()
	b.orders = slices.DeleteFunc(slices.Clone(b.orders), func(o Order) bool { return o.ID() == orderID })
	b.mu.Unlock()
	return nil
}

// Submit locks in the player's orders for the turn.
func (b *Book) Submit(ctx context.Context, gameID, turnID string) (json.RawMessage, error) {
	resp, err := b.fetch.Fetch(ctx, turnPath(gameID, turnID)+"/submit", &api.RequestOptions{
		Method: http.MethodPost,
	})
	if err != nil {
		return nil, err
	}
	if !api.OK(resp) {
		return nil, api.DecodeError(resp, "Failed to submit turn")
	}

	b.SetSubmitted(true)

	var result json.RawMessage
	if err := api.Decode(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (b *Book) postJSON(ctx context.Context, path string, in any) (*http.Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}
	return b.fetch.Fetch(ctx, path, &api.RequestOptions{
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    bytes.NewReader(body),
	})
}

func (b *Book) setLoading(v bool) {
	b.mu.Lock()
	b.loading = v
	b.mu.Unlock()
}

func turnPath(gameID, turnID string) string {
	return "/games/" + url.PathEscape(gameID) + "/turns/" + url.PathEscape(turnID)
}

func ordersPath(gameID, turnID string) string {
	return turnPath(gameID, turnID) + "/orders"
}
