package main

import (
	"net/http"
	"strconv"
	"strings"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

// A dispatcher router function for all /users/... requests
func usersDispatcher(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(r.URL.Path, "/")
		parts := strings.Split(path, "/")
		if parts[0] != "users" {
			http.NotFound(w, r)
			return
		}

		switch {
		// /users → collection (create, list, delete all)
		case len(parts) == 1:
			usersCollectionHandler(app).ServeHTTP(w, r)

		// /users/{id} → single profile (get, patch, delete)
		case len(parts) == 2:
			userHandler(app).ServeHTTP(w, r)

		// /users/{id}/(followers|following|suggestions|matches)
		case len(parts) == 3:
			switch parts[2] {
			case "followers":
				followersHandler(app).ServeHTTP(w, r)
			case "following":
				followingHandler(app).ServeHTTP(w, r)
			case "suggestions":
				suggestionsHandler(app).ServeHTTP(w, r)
			case "matches":
				matchesHandler(app).ServeHTTP(w, r)
			default:
				http.NotFound(w, r)
			}

		// /users/{id}/follow/{follow_id}
		case len(parts) == 4 && parts[2] == "follow":
			followHandler(app).ServeHTTP(w, r)

		default:
			http.NotFound(w, r)
		}
	}
}

// parseUserID extracts parts[idx] of the trimmed path as an integer id.
func parseUserID(r *http.Request, idx int) (int, bool) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if idx >= len(parts) {
		return 0, false
	}
	id, err := strconv.Atoi(parts[idx])
	if err != nil {
		return 0, false
	}
	return id, true
}

// POST /users creates, GET /users is a filtered search, DELETE /users wipes.
func usersCollectionHandler(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createUser(app, w, r)
		case http.MethodGet:
			listUsers(app, w, r)
		case http.MethodDelete:
			deleteAllUsers(app, w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	}
}

func createUser(app *app, w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID        *int           `json:"id"`
		Name      string         `json:"name"`
		Gender    store.Gender   `json:"gender"`
		Status    store.Status   `json:"status"`
		Location  store.Position `json:"location"`
		Interests []string       `json:"interests"`
		Following []int          `json:"following"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if req.ID == nil {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	profile := &store.Profile{
		ID:        *req.ID,
		Name:      req.Name,
		Gender:    req.Gender,
		Status:    req.Status,
		Location:  req.Location,
		Interests: req.Interests,
		Following: req.Following,
	}
	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile")
		return
	}
	if err := app.store.Put(r.Context(), profile); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profile)
}

func listUsers(app *app, w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.Filter{Name: q.Get("name")}

	if g := q.Get("gender"); g != "" {
		gender := store.Gender(g)
		if !gender.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_gender")
			return
		}
		filter.Gender = gender
	}
	if s := q.Get("status"); s != "" {
		status := store.Status(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		filter.Status = status
	}
	if f := q.Get("following"); f != "" {
		id, err := strconv.Atoi(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_following")
			return
		}
		filter.Following = &id
	}

	lonStr, latStr := q.Get("lon"), q.Get("lat")
	if (lonStr == "") != (latStr == "") {
		writeError(w, http.StatusBadRequest, "lon_lat_pair_required")
		return
	}
	if lonStr != "" {
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		lat, latErr := strconv.ParseFloat(latStr, 64)
		if lonErr != nil || latErr != nil {
			writeError(w, http.StatusBadRequest, "invalid_coordinates")
			return
		}
		radius := 10.0
		if rs := q.Get("radius"); rs != "" {
			var err error
			if radius, err = strconv.ParseFloat(rs, 64); err != nil || radius < 0.1 {
				writeError(w, http.StatusBadRequest, "invalid_radius")
				return
			}
		}
		filter.Near = &store.Radius{Center: store.Position{Lon: lon, Lat: lat}, Km: radius}
	}

	profiles, err := app.store.Search(r.Context(), store.Query{Filter: filter})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileList(profiles))
}

func deleteAllUsers(app *app, w http.ResponseWriter, r *http.Request) {
	if _, err := app.store.DeleteAll(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET/PATCH/DELETE /users/{id}
func userHandler(app *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseUserID(r, 1)
		if !ok {
			http.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			profile, err := app.store.Get(r.Context(), id)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, profile)

		case http.MethodPatch:
			var patch store.ProfilePatch
			if err := decodeJSON(r, &patch); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_body")
				return
			}
			if patch.Empty() {
				writeError(w, http.StatusBadRequest, "empty_patch")
				return
			}
			if err := patch.Validate(); err != nil {
				writeError(w, http.StatusBadRequest, "invalid_patch")
				return
			}
			if patch.Following != nil {
				if err := validateFollowing(id, *patch.Following); err != nil {
					writeError(w, http.StatusBadRequest, "invalid_following")
					return
				}
			}
			profile, err := app.store.Patch(r.Context(), id, &patch)
			if err != nil {
				writeDomainError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, profile)

		case http.MethodDelete:
			if err := app.store.Delete(r.Context(), id); err != nil {
				writeDomainError(w, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)

		default:
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
		}
	}
}

// validateFollowing rejects self-follows and duplicates in a replacement set.
func validateFollowing(ownerID int, following []int) error {
	probe := store.Profile{ID: ownerID, Gender: store.GenderMale, Status: store.StatusSingle, Following: following}
	return probe.Validate()
}
