// Headless simulation server streaming world snapshots over websocket
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clothsim/internal/config"
	"clothsim/internal/physics"
	"clothsim/internal/scene"
	"clothsim/internal/transport/ws"
)

func main() {
	configPath := flag.String("config", "config/clothsim.yaml", "simulation config")
	scenePath := flag.String("scene", "", "optional JSON scene added on top of the demo")
	addr := flag.String("addr", "", "listen address (overrides the config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	var sceneFile *scene.SceneFile
	if *scenePath != "" {
		if sceneFile, err = scene.Load(*scenePath); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}

	factory := func() (*physics.World, error) {
		w, _, err := cfg.NewWorld()
		if err != nil {
			return nil, err
		}
		if sceneFile != nil {
			if _, err := scene.Apply(w, sceneFile); err != nil {
				return nil, err
			}
		}
		return w, nil
	}

	srv, err := ws.NewServer(factory,
		ws.WithUpdateInterval(cfg.Server.UpdateInterval),
		ws.WithSubsteps(cfg.Simulation.Substeps))
	if err != nil {
		log.Fatalf("Failed to start simulation: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.HandleWS)
	httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go func() {
		log.Printf("[clothserver] listening on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	if err := srv.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[clothserver] simulation stopped: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[clothserver] shutdown: %v", err)
	}
}
