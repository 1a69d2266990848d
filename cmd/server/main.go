package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/hamdiks/cardstore/internal/cart"
	"github.com/hamdiks/cardstore/internal/config"
	"github.com/hamdiks/cardstore/internal/database"
	"github.com/hamdiks/cardstore/internal/handler"
	"github.com/hamdiks/cardstore/internal/notify"
	"github.com/hamdiks/cardstore/internal/queue"
	"github.com/hamdiks/cardstore/internal/repository"
	"github.com/hamdiks/cardstore/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the response cache, the rate limiter and the guest cart.
	// A nil client disables all three; the API itself keeps working.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache, rate limiting and guest carts disabled")
	}

	users := repository.NewUserRepo(db)
	products := repository.NewProductRepo(db)
	options := repository.NewOptionRepo(db)
	orders := repository.NewOrderRepo(db)

	mailer := notify.NewMailer(cfg)
	if !mailer.Enabled() {
		log.Println("mail not configured; operator order notifications disabled")
	}

	e := echo.New()
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FrontendOrigin},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization, "X-Guest-ID"},
	}))
	e.Static("/uploads", cfg.UploadDir)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret, rdb)
	router.RegisterCatalog(e, handler.NewCatalogHandler(products, options), rdb)
	router.RegisterAdmin(e, handler.NewAdminProductHandler(products, options, cfg.UploadDir), cfg.JWTSecret)
	router.RegisterOrders(e, handler.NewOrderHandler(cfg, users, products, options, orders, mailer), cfg.JWTSecret, rdb)
	if rdb != nil {
		store := cart.NewRedisStore(rdb, config.LoadCartConfig())
		router.RegisterCart(e, handler.NewCartHandler(store, products, options))
	}

	// Background consumer mirrors order.placed events into logs/orders.log.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
