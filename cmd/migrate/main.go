// Command migrate applies the GORM schema to the configured database.
// Connect only auto-migrates outside production, so production deploys
// run this explicitly.
package main

import (
	"log"

	"ourcircle/internal/config"
	"ourcircle/internal/database"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("Schema is up to date")
}
