package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/parking-garage-api/internal/config"
	"github.com/iliyamo/parking-garage-api/internal/database"
	"github.com/iliyamo/parking-garage-api/internal/handler"
	"github.com/iliyamo/parking-garage-api/internal/middleware"
	"github.com/iliyamo/parking-garage-api/internal/queue"
	"github.com/iliyamo/parking-garage-api/internal/repository"
	"github.com/iliyamo/parking-garage-api/internal/router"
	"github.com/iliyamo/parking-garage-api/internal/service"
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

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiter disabled")
	}

	userRepo := repository.NewUserRepo(db)
	garageRepo := repository.NewGarageRepo(db)
	spotRepo := repository.NewSpotRepo(db)
	vehicleRepo := repository.NewVehicleRepo(db)

	uh := handler.NewUserHandler(cfg, userRepo)
	gh := handler.NewGarageHandler(cfg, garageRepo)
	sh := handler.NewSpotHandler(spotRepo, service.NewOccupancyPublisher())
	vh := handler.NewVehicleHandler(vehicleRepo)

	e := echo.New()
	e.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAPI(e, cfg, uh, gh, sh, vh)

	// The occupancy consumer keeps its own reconnect loop; it never
	// stops the server when the broker is down.
	go func() {
		if err := queue.StartOccupancyConsumer(); err != nil {
			log.Printf("occupancy consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
