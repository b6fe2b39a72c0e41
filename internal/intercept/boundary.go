// Package intercept is the boundary between the application under test and
// the simulator. It captures outbound requests, hands them to the
// dispatcher, and either relays the mocked decision or forwards the request
// to the real upstream.
package intercept

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/pizza-nz/backend-simulator/internal/dispatch"
	"github.com/pizza-nz/backend-simulator/internal/events"
	"github.com/pizza-nz/backend-simulator/internal/simulator"
	"go.uber.org/zap"
)

// Boundary adapts HTTP traffic onto the simulator. Requests are dispatched
// one at a time so no handler ever observes a half-updated fixture.
type Boundary struct {
	sim   *simulator.Simulator
	proxy *httputil.ReverseProxy
	hub   *events.Hub
	log   *zap.Logger

	mu sync.Mutex
}

// New creates a boundary. upstream is where unmatched requests pass through
// to; when nil, unmatched requests answer 502. hub may be nil when no
// observers are wanted.
func New(sim *simulator.Simulator, upstream *url.URL, hub *events.Hub, log *zap.Logger) *Boundary {
	b := &Boundary{sim: sim, hub: hub, log: log}
	if upstream != nil {
		b.proxy = httputil.NewSingleHostReverseProxy(upstream)
	}
	return b
}

// ServeHTTP implements the http.Handler interface.
func (b *Boundary) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	r.Body.Close()

	req := &dispatch.Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header,
		Body:   body,
	}

	b.mu.Lock()
	resp, mocked := b.sim.Dispatch(req)
	b.mu.Unlock()

	if !mocked {
		b.emit(events.Event{
			Type:      events.TypeRequestPassthrough,
			RequestID: requestID,
			Method:    r.Method,
			Path:      r.URL.Path,
		})
		b.passthrough(w, r, body)
		return
	}

	b.emit(events.Event{
		Type:      events.TypeRequestMocked,
		RequestID: requestID,
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    resp.Status,
	})
	b.relay(w, resp)
}

// relay writes a mocked decision back as an HTTP response.
func (b *Boundary) relay(w http.ResponseWriter, resp dispatch.Response) {
	if resp.Body == nil {
		w.WriteHeader(resp.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	if err := json.NewEncoder(w).Encode(resp.Body); err != nil {
		b.log.Error("failed to encode response body", zap.Error(err))
	}
}

// passthrough forwards an unmatched request to the real upstream unmodified.
func (b *Boundary) passthrough(w http.ResponseWriter, r *http.Request, body []byte) {
	if b.proxy == nil {
		http.Error(w, "no upstream configured", http.StatusBadGateway)
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	b.proxy.ServeHTTP(w, r)
}

func (b *Boundary) emit(ev events.Event) {
	if b.hub != nil {
		b.hub.Broadcast(ev)
	}
}
