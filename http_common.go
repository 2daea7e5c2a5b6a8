package main

import (
	"errors"
	"log"
	"net/http"

	json "github.com/goccy/go-json"

	"gitea.kood.tech/petrkubec/socialdir/engine"
	"gitea.kood.tech/petrkubec/socialdir/store"
)

// --- Response helpers ---
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps engine and store errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	var notFound *store.NotFoundError
	var exists *store.AlreadyExistsError
	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, "user_not_found")
	case errors.As(err, &exists):
		writeError(w, http.StatusBadRequest, "already_exists")
	case errors.Is(err, engine.ErrSelfFollow):
		writeError(w, http.StatusBadRequest, "self_follow")
	default:
		log.Println("store error:", err)
		writeError(w, http.StatusInternalServerError, "store_error")
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// profileList never encodes as JSON null.
func profileList(profiles []*store.Profile) []*store.Profile {
	if profiles == nil {
		return []*store.Profile{}
	}
	return profiles
}

func intList(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
