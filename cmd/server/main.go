package main

import (
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/lunchdesk/api/internal/config"
	"github.com/lunchdesk/api/internal/router"
	"github.com/lunchdesk/api/internal/service"
	"github.com/lunchdesk/api/internal/upstream"
	"github.com/lunchdesk/api/internal/ws"
)

func main() {
	// .env is optional; real deployments configure via the environment
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg := config.Load()

	loc, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		log.Fatalf("load timezone %q: %v", cfg.TimezoneName, err)
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamToken, cfg.UpstreamTimeout)
	svc := service.NewOrderService(client, service.Options{
		Concurrency:   cfg.UpstreamConcurrency,
		StrictDetails: cfg.StrictDetails,
		DeliveryTime:  cfg.DeliveryTime,
		Location:      loc,
	})

	hub := ws.NewHub()
	go hub.Run()

	r := router.New(cfg, client, svc, hub)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
