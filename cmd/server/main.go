package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tyrowin/roomchat/internal/server"
)

func main() {
	fmt.Println("Starting RoomChat server...")

	// Load configuration from the environment
	config, err := server.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	server.SetConfig(config)

	// Build the relay and start the hub
	gateway := server.NewGateway()
	gateway.Start()

	// Setup routes
	mux := server.SetupRoutes(gateway)

	// Create and start server
	httpServer := server.CreateServer(config.Port, mux)

	go func() {
		if err := server.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	if err := server.ShutdownServer(httpServer, 10*time.Second); err != nil {
		log.Printf("HTTP server did not shut down cleanly: %v", err)
	}
	if err := gateway.Shutdown(5 * time.Second); err != nil {
		log.Printf("Hub did not shut down cleanly: %v", err)
	}
}
