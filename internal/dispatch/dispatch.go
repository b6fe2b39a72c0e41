// Package dispatch routes intercepted requests to mock handlers. Routes are
// evaluated in registration order and the first pattern whose path matches
// wins, regardless of method: a matched handler that does not support the
// request's method answers Method Not Allowed itself rather than letting a
// later route match. A request matching no route is passed through to the
// real network.
package dispatch

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

// Request is the descriptor of one intercepted request.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	// Params holds captures extracted by the matched pattern.
	Params map[string]string
}

// BearerToken extracts the token from the Authorization header, or returns
// an empty string when the header is absent or not Bearer-shaped.
func (r *Request) BearerToken() string {
	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// DecodeJSON unmarshals the request body into v.
func (r *Request) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Response is a handler's decision: a status and a JSON-shaped body. A nil
// body means an empty response.
type Response struct {
	Status int
	Body   any
}

// HandlerFunc answers one matched request.
type HandlerFunc func(*Request) Response

type route struct {
	pattern Pattern
	handler HandlerFunc
}

// Dispatcher is an ordered list of (pattern, handler) pairs.
type Dispatcher struct {
	routes []route
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Handle appends a route. Registration order defines precedence.
func (d *Dispatcher) Handle(pattern string, h HandlerFunc) {
	d.routes = append(d.routes, route{pattern: MustParsePattern(pattern), handler: h})
}

// Dispatch invokes the first route whose path matches. The second return is
// false when no pattern matched and the request should pass through.
func (d *Dispatcher) Dispatch(req *Request) (Response, bool) {
	for _, rt := range d.routes {
		params, ok := rt.pattern.Match(req.Path)
		if !ok {
			continue
		}
		req.Params = params
		return rt.handler(req), true
	}
	return Response{}, false
}
