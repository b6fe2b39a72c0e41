// Package events streams the simulator's dispatch decisions to attached
// observers over websockets, so a test harness can watch which requests were
// mocked and which passed through.
package events

import (
	"encoding/json"
)

// Type classifies a dispatch decision.
type Type string

const (
	TypeRequestMocked      Type = "request.mocked"
	TypeRequestPassthrough Type = "request.passthrough"
)

// Event describes one intercepted request and what the simulator did with it.
type Event struct {
	Type      Type   `json:"type"`
	RequestID string `json:"requestId"`
	Method    string `json:"method"`
	Path      string `json:"path"`
	Status    int    `json:"status,omitempty"`
}

// Hub fans dispatch events out to connected observer clients.
type Hub struct {
	clients map[*Client]bool

	register chan *Client

	unregister chan *Client

	broadcast chan []byte
}

// NewHub creates an empty hub. Run must be started before clients attach.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte),
	}
}

// Broadcast delivers an event to every connected observer. Events for
// observers that cannot keep up are dropped along with the observer.
func (h *Hub) Broadcast(ev Event) {
	message, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.broadcast <- message
}

// Run owns the client set. It must run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}
