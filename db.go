package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// initStore connects to Postgres when DATABASE_URL is set; otherwise it falls
// back to the in-memory store so the service runs without any setup.
func initStore() store.ProfileStore {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Default().Println("Warning: DATABASE_URL not set, using in-memory profile store")
		return store.NewMemory()
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Error connecting to the database:", err)
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Cannot reach the database:", err)
	}

	pg := store.NewPostgres(db)
	if err := pg.EnsureSchema(context.Background()); err != nil {
		log.Fatal("Cannot initialize the database schema:", err)
	}
	log.Default().Println("Database connection established successfully")
	return pg
}
