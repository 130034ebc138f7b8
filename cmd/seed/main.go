package main

import (
	"log"

	"partnerhub/config"
	"partnerhub/database"
)

// Seeds the initial ADMIN account and a few demo records. Safe to run more
// than once; it exits quietly when an admin already exists.
func main() {
	if err := config.LoadENV(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	store, err := database.StartGORM()
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	if err := store.Seed(); err != nil {
		log.Fatal("Seed failed: ", err)
	}
}
