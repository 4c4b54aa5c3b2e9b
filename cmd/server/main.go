package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/movielab/movie-reservation/internal/config"
	"github.com/movielab/movie-reservation/internal/database"
	"github.com/movielab/movie-reservation/internal/handler"
	"github.com/movielab/movie-reservation/internal/middleware"
	"github.com/movielab/movie-reservation/internal/queue"
	"github.com/movielab/movie-reservation/internal/repository"
	"github.com/movielab/movie-reservation/internal/router"
	"github.com/movielab/movie-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	movieRepo := repository.NewMovieRepo(db)
	showtimeRepo := repository.NewShowtimeRepo(db)
	seatRepo := repository.NewSeatRepo(db)
	reservationRepo := repository.NewReservationRepo(db)

	publisher := queue.NewPublisher(cfg.RabbitURL)
	reservationSvc := service.NewReservationService(db, showtimeRepo, seatRepo, reservationRepo, movieRepo, publisher)
	showtimeSvc := service.NewShowtimeService(db, showtimeRepo, seatRepo, movieRepo)

	go func() {
		if err := queue.StartReservationConsumer(cfg.RabbitURL); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	var cache echo.MiddlewareFunc
	if rdb != nil {
		cache = middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	}

	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, userRepo, tokenRepo),
		Movie:       handler.NewMovieHandler(movieRepo, showtimeRepo, seatRepo),
		Showtime:    handler.NewShowtimeHandler(showtimeSvc),
		Reservation: handler.NewReservationHandler(reservationSvc),
		Admin:       handler.NewAdminHandler(userRepo, reservationRepo),
		JWTSecret:   cfg.JWTSecret,
		Cache:       cache,
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
