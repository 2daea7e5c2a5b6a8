package main

import (
	"log"
	"net/http"
	"os"

	"gitea.kood.tech/petrkubec/socialdir/engine"
	"gitea.kood.tech/petrkubec/socialdir/store"
)

// app bundles the profile store with the engines the handlers call into.
type app struct {
	store   store.ProfileStore
	follows *engine.FollowManager
	suggest *engine.SuggestionEngine
	matches *engine.MatchEngine
}

func newApp(s store.ProfileStore) *app {
	return &app{
		store:   s,
		follows: engine.NewFollowManager(s),
		suggest: engine.NewSuggestionEngine(s, true),
		matches: engine.NewMatchEngine(s),
	}
}

func main() {
	app := newApp(initStore())

	mux := http.NewServeMux()

	// Everything lives under /users; the dispatcher routes the sub-paths.
	mux.Handle("/users", usersDispatcher(app))
	mux.Handle("/users/", usersDispatcher(app))

	// Health check endpoint for Docker
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Default().Println("Starting profile directory on port " + port + "...")
	http.ListenAndServe(":"+port, withCORS(mux))
}
