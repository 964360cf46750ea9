package main

import (
	"log"
	"time"

	"github.com/rohanthewiz/logger"
	"github.com/rohanthewiz/rweb"
	"github.com/rohanthewiz/serr"

	"repomuse/config"
	"repomuse/db"
	"repomuse/platform/shutdown"
	"repomuse/web"
)

func main() {
	config.Initialize()
	cfg := config.Get()

	// Open the registry up front so a broken data dir fails fast
	database, err := db.GetDB()
	if err != nil {
		log.Fatal("Failed to open registry database: ", err)
	}

	done := make(chan struct{})
	shutdown.InitShutdownService(done)
	shutdown.RegisterHook(func(_ time.Duration) error {
		return database.Close()
	})

	web.InitServices(cfg)

	// Create a new rweb server with options
	s := rweb.NewServer(rweb.ServerOptions{
		Address: cfg.Address,
		Verbose: true,
	})

	// Add middleware for request logging
	s.Use(rweb.RequestInfo)
	s.Use(drainMiddleware)

	// Setup routes
	web.SetupRoutes(s)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting Repomuse server on %s", cfg.Address)
		serverErr <- s.Run()
	}()

	select {
	case err := <-serverErr:
		log.Fatal(err)
	case <-done:
		logger.Info("Repomuse shut down")
	}
}

// drainMiddleware turns away new requests once shutdown has begun
func drainMiddleware(next rweb.HandlerFunc) rweb.HandlerFunc {
	return func(c rweb.Context) error {
		if shutdown.CheckShutdown() {
			return c.WriteError(serr.New("server is shutting down"), 503)
		}
		return next(c)
	}
}
