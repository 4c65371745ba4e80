// Package server exposes HTTP handlers, including WebSocket upgrades and
// health checks, owned by the Gateway type.
package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Tyrowin/roomchat/internal/chat"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// Gateway owns the relay state for one process: the chat registry, the
// router dispatching inbound events into it, and the hub managing
// connection lifecycle. Construct one per process and hand it to
// SetupRoutes; there is no package-level instance.
type Gateway struct {
	hub    *Hub
	router *chat.Router
}

// NewGateway builds a gateway with a fresh registry, router, and hub.
func NewGateway() *Gateway {
	registry := chat.NewRegistry()
	return &Gateway{
		hub:    NewHub(registry),
		router: chat.NewRouter(registry),
	}
}

// Start launches the hub's event loop in its own goroutine. It must be
// called before the first WebSocket upgrade is served.
func (g *Gateway) Start() {
	go g.hub.Run()
	log.Println("Hub started and ready to manage WebSocket connections")
}

// Shutdown gracefully stops the hub, closing every client connection
// and waiting for the pump goroutines up to the timeout.
func (g *Gateway) Shutdown(timeout time.Duration) error {
	return g.hub.Shutdown(timeout)
}

// Hub returns the gateway's hub for shutdown coordination and tests.
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// WebSocketHandler handles WebSocket upgrade requests and manages client connections.
// It validates that the request uses the GET method, upgrades the HTTP connection
// to WebSocket, creates a new Client instance, and registers it with the hub,
// which allocates the chat session and starts the read/write pumps.
func (g *Gateway) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(conn, g.hub, g.router, r.RemoteAddr)

	// Register the client with the hub; the hub will launch the pump goroutines.
	g.hub.register <- client
}

// HealthHandler provides a simple health check endpoint that returns server status.
// It responds with a plain text message indicating the server is running.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "RoomChat server is running!")
}
