package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"gitea.kood.tech/petrkubec/socialdir/store"
)

func newTestApp() *app {
	return newApp(store.NewMemory())
}

func do(t *testing.T, app *app, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	usersDispatcher(app)(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
}

func createProfile(t *testing.T, app *app, body string) {
	t.Helper()
	w := do(t, app, http.MethodPost, "/users", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("creating profile: got status %d, body %s", w.Code, w.Body.String())
	}
}

func responseIDs(t *testing.T, w *httptest.ResponseRecorder) []int {
	t.Helper()
	var profiles []store.Profile
	decodeBody(t, w, &profiles)
	ids := make([]int, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	return ids
}
