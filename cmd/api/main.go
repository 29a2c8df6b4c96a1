package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/barberian/booking-api/internal/cache"
	"github.com/barberian/booking-api/internal/config"
	dbpkg "github.com/barberian/booking-api/internal/db"
	"github.com/barberian/booking-api/internal/routes"
)

func main() {

	// .env é opcional; em produção as variáveis vêm do ambiente.
	_ = godotenv.Load()

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	rdb := cache.NewClient(cfg.RedisURL)

	r := gin.Default()

	routes.Setup(r, db, rdb, cfg)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
