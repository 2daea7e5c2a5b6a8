package main

import (
	"net/http"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// POST /users/{id}/follow/{follow_id} follows, DELETE unfollows.
// Both are idempotent and respond with the post-mutation following set.
func followHandler(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followerID, ok := parseUserID(r, 1)
		if !ok {
			http.NotFound(w, r)
			return
		}
		targetID, ok := parseUserID(r, 3)
		if !ok {
			http.NotFound(w, r)
			return
		}

		var (
			following []int
			err       error
		)
		switch r.Method {
		case http.MethodPost:
			following, err = app.follows.Follow(r.Context(), followerID, targetID)
		case http.MethodDelete:
			following, err = app.follows.Unfollow(r.Context(), followerID, targetID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":        followerID,
			"following": intList(following),
		})
	}
}

// GET /users/{id}/followers lists the profiles whose following set contains {id}.
func followersHandler(app *app) http.HandlerFunc {
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

		exists, err := app.store.Exists(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !exists {
			writeError(w, http.StatusNotFound, "user_not_found")
			return
		}

		followers, err := app.store.Search(r.Context(), store.Query{
			Filter: store.Filter{Following: &id},
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, profileList(followers))
	}
}

// GET /users/{id}/following lists the profiles {id} follows, in insertion order.
// Followed ids that no longer exist are skipped.
func followingHandler(app *app) http.HandlerFunc {
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

		profile, err := app.store.Get(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		followed := make([]*store.Profile, 0, len(profile.Following))
		for _, fid := range profile.Following {
			p, err := app.store.Get(r.Context(), fid)
			if err != nil {
				if store.IsNotFound(err) {
					continue
				}
				writeDomainError(w, err)
				return
			}
			followed = append(followed, p)
		}
		writeJSON(w, http.StatusOK, followed)
	}
}
