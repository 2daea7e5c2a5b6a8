package main

import "net/http"

// GET /users/{id}/suggestions returns friend-of-friend suggestions.
func suggestionsHandler(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		id, ok := parseUserID(r, 1)
		if !ok {
			http.NotFound(w, r)
			return
		}

		suggestions, err := app.suggest.Suggestions(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profileList(suggestions))
	}
}

// GET /users/{id}/matches returns single profiles ranked by shared interests,
// then proximity.
func matchesHandler(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		id, ok := parseUserID(r, 1)
		if !ok {
			http.NotFound(w, r)
			return
		}

		matches, err := app.matches.Matches(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profileList(matches))
	}
}
