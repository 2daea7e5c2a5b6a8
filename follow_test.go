package main

import (
	"net/http"
	"testing"
)

func seedFollowApp(t *testing.T) *app {
	t.Helper()
	app := newTestApp()
	createProfile(t, app, `{"id": 1, "name": "Ann", "gender": "female", "status": "single", "location": {}}`)
	createProfile(t, app, `{"id": 2, "name": "Ben", "gender": "male", "status": "single", "location": {}}`)
	createProfile(t, app, `{"id": 3, "name": "Cleo", "gender": "female", "status": "single", "location": {}}`)
	return app
}

func TestFollowEndpoints(t *testing.T) {
	app := seedFollowApp(t)

	type followResp struct {
		ID        int   `json:"id"`
		Following []int `json:"following"`
	}

	t.Run("Follow", func(t *testing.T) {
		w := do(t, app, http.MethodPost, "/users/1/follow/2", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var resp followResp
		decodeBody(t, w, &resp)
		if resp.ID != 1 || len(resp.Following) != 1 || resp.Following[0] != 2 {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("Follow again is a no-op", func(t *testing.T) {
		w := do(t, app, http.MethodPost, "/users/1/follow/2", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp followResp
		decodeBody(t, w, &resp)
		if len(resp.Following) != 1 {
			t.Fatalf("follow not idempotent: %+v", resp)
		}
	})

	t.Run("Self-follow rejected", func(t *testing.T) {
		w := do(t, app, http.MethodPost, "/users/1/follow/1", "")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("Unknown target is 404", func(t *testing.T) {
		w := do(t, app, http.MethodPost, "/users/1/follow/99", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("Followers listing", func(t *testing.T) {
		do(t, app, http.MethodPost, "/users/3/follow/2", "")
		w := do(t, app, http.MethodGet, "/users/2/followers", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		got := responseIDs(t, w)
		if len(got) != 2 || got[0] != 1 || got[1] != 3 {
			t.Fatalf("expected followers [1 3], got %v", got)
		}
	})

	t.Run("Following listing", func(t *testing.T) {
		w := do(t, app, http.MethodGet, "/users/1/following", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		got := responseIDs(t, w)
		if len(got) != 1 || got[0] != 2 {
			t.Fatalf("expected following [2], got %v", got)
		}
	})

	t.Run("Following listing skips deleted profiles", func(t *testing.T) {
		do(t, app, http.MethodPost, "/users/3/follow/1", "")
		if w := do(t, app, http.MethodDelete, "/users/2", ""); w.Code != http.StatusNoContent {
			t.Fatalf("deleting user 2: got %d", w.Code)
		}
		w := do(t, app, http.MethodGet, "/users/3/following", "")
		got := responseIDs(t, w)
		if len(got) != 1 || got[0] != 1 {
			t.Fatalf("expected following [1], got %v", got)
		}
	})

	t.Run("Unfollow", func(t *testing.T) {
		w := do(t, app, http.MethodDelete, "/users/3/follow/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp followResp
		decodeBody(t, w, &resp)
		if len(resp.Following) != 1 {
			t.Fatalf("unexpected following after unfollow: %+v", resp)
		}
	})

	t.Run("Unfollow absent target succeeds", func(t *testing.T) {
		w := do(t, app, http.MethodDelete, "/users/3/follow/1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("Followers of unknown user is 404", func(t *testing.T) {
		w := do(t, app, http.MethodGet, "/users/99/followers", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
