package main

import (
	"log"

	_ "officina/docs"
	"officina/internal/config"
	"officina/internal/server"
)

// @title           Officina API
// @version         1.0
// @description     Multi-tenant kanban reconciliation and task history API.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
