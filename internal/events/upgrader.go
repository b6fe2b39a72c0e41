package events

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Upgrader upgrades observer connections. The feed serves local test
// harnesses, so origins are not checked.
var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}
