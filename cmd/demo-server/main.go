package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yttext/internal/demo"
)

func main() {
	port := flag.Int("port", 8080, "Port to run the demo server on")
	host := flag.String("host", "localhost", "Host to bind the demo server to")
	flag.Parse()

	base := fmt.Sprintf("http://%s:%d", *host, *port)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", *host, *port),
		Handler: demo.NewHandler(),
	}

	go func() {
		log.Printf("Demo server starting on %s", base)
		log.Printf("Watch pages available at: %s/watch?v=%s", base, demo.VideoID)
		log.Printf("Point yttext at it with youtube.watch_url: %q", demo.WatchURLFormat(base))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down demo server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Demo server stopped")
}
