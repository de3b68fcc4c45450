// Package ws provides the interactive recompute channel: a client keeps one
// WebSocket open, pushes scenario updates as the user edits inputs, and gets
// freshly priced call/put values and PnL surfaces back without an HTTP
// round-trip per change.
package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Hub tracks live scenario connections and closes them on shutdown.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zap.Logger
	encoder    *Encoder
	maxSamples int
}

// NewHub creates a Hub. maxSamples bounds the per-axis resolution a scenario
// may request, mirroring the HTTP surface endpoint.
func NewHub(logger *zap.Logger, encoder *Encoder, maxSamples int) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
		encoder:    encoder,
		maxSamples: maxSamples,
	}
}

// Run processes hub events. Call this in a goroutine.
// Returns when context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("scenario hub shutting down")
			h.shutdown()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("connID", client.connID))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("connID", client.connID))
		}
	}
}

// ClientCount returns the number of live connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// shutdown gracefully closes all client connections.
func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
}
