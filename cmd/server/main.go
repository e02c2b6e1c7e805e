package main

import (
	"log"
	"time"

	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/api"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/config"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/database"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/explore"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/repository"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/service"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/stats"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/stream"
	"github.com/ScienceIsNeato/fogofdog-backend-go/internal/track"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.Open(database.Config{Path: cfg.DBPath})
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	classifier := track.NewClassifier(track.ClassifierConfig{
		MaxGapSeconds:     cfg.MaxGapSeconds,
		MaxSpeedMph:       cfg.MaxSpeedMph,
		MinMovementMeters: cfg.MinMovementMeters,
	})
	area := &explore.AreaAccumulator{BufferRadiusM: cfg.AreaBufferRadiusM}
	engine := stats.NewEngine(classifier, area)
	grid := explore.NewGrid(cfg.GridPrecision)
	hub := stream.NewHub()

	trackRepo := repository.NewTrackRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	tracking, err := service.NewTrackingService(engine, grid, trackRepo, statsRepo, hub)
	if err != nil {
		log.Fatal("Failed to initialize tracking service:", err)
	}
	history := service.NewHistoryService(engine, classifier, grid, trackRepo, tracking)

	// Session timer tick: drives time accumulation for the active session
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for range ticker.C {
			tracking.Tick()
		}
	}()

	router := api.SetupRouter(cfg, tracking, history, hub)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
