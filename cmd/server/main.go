package main

import (
	"log"

	"markettrack-backend/internal/config"
	"markettrack-backend/internal/database"
	"markettrack-backend/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)
	database.EnsureAdmin(cfg)

	app := server.New(cfg)

	log.Println("Server running on port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
