package main

import (
	"context"
	"log"

	"lead-inbox-be/internal/bootstrap"
	"lead-inbox-be/internal/config"
	"lead-inbox-be/internal/server"
	"lead-inbox-be/internal/tracer"
	"lead-inbox-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Initialize Tracer
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Operational store is optional; without it the service still files
	// notes, it just keeps no audit rows.
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	} else {
		log.Println("DB_CONNECTION_STRING not set, audit persistence disabled")
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	// 6. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
