package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/availability"
	"github.com/evzav/lab-resource-loans/internal/config"
	"github.com/evzav/lab-resource-loans/internal/database"
	"github.com/evzav/lab-resource-loans/internal/handler"
	"github.com/evzav/lab-resource-loans/internal/middleware"
	"github.com/evzav/lab-resource-loans/internal/queue"
	"github.com/evzav/lab-resource-loans/internal/repository"
	"github.com/evzav/lab-resource-loans/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	// Repositories.
	rooms := repository.NewRoomRepo(db)
	units := repository.NewRoomUnitRepo(db)
	equipment := repository.NewEquipmentRepo(db)
	students := repository.NewStudentRepo(db)
	professors := repository.NewProfessorRepo(db)
	campuses := repository.NewCampusRepo(db)
	projects := repository.NewProjectRepo(db)
	staff := repository.NewStaffRepo(db)
	tokens := repository.NewTokenRepo(db)
	loans := repository.NewLoanRepo(db)
	dash := repository.NewDashboardRepo(db)

	tracker := availability.NewTracker(loans)

	refresh := config.DashboardRefresh()
	dashboard := handler.NewDashboardHandler(dash, rdb, refresh)

	h := router.Handlers{
		Rooms:      handler.NewRoomHandler(rooms, tracker),
		Equipment:  handler.NewEquipmentHandler(equipment, tracker),
		Units:      handler.NewRoomUnitHandler(units, rooms),
		Students:   handler.NewStudentHandler(students),
		Professors: handler.NewProfessorHandler(professors),
		Campuses:   handler.NewCampusHandler(campuses),
		Projects:   handler.NewProjectHandler(projects),
		Loans:      handler.NewLoanHandler(tracker, loans, staff),
		Dashboard:  dashboard,
		Export:     handler.NewExportHandler(loans),
	}

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, staff, tokens), cfg.JWTSecret)
	router.RegisterStaff(e, h, cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
	)

	// Loan activity consumer appends broker events to logs/loan-activity.log.
	go func() {
		if err := queue.StartLoanActivityConsumer(); err != nil {
			log.Printf("loan-consumer stopped: %v", err)
		}
	}()

	// Dashboard warmer keeps the Redis copy of the aggregates fresh.
	go func() {
		ticker := time.NewTicker(refresh)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if _, err := dashboard.Warm(ctx); err != nil {
				log.Printf("dashboard warm failed: %v", err)
			}
			cancel()
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
