package integration__test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/session"
)

func strPtr(s string) *string { return &s }

func TestPagesIntegration_GuardRedirectsAnonymous(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	for _, path := range []string{"/dashboard", "/dashboard/settings"} {
		w, response := doRequest(router, http.MethodGet, path, "")

		if w.Code != http.StatusTemporaryRedirect {
			t.Fatalf("%s got status %d, want %d", path, w.Code, http.StatusTemporaryRedirect)
		}

		if loc := response.Header.Get("Location"); loc != "/" {
			t.Fatalf("%s Location = %q, want /", path, loc)
		}
	}
}

func TestPagesIntegration_DashboardShowsProfile(t *testing.T) {
	fp := newFakeProvider()
	router, store, _ := setupRouter(t, fp)

	_, err := store.Upsert(context.Background(), user.Patch{
		ID:           "u5",
		Name:         strPtr("Maya Chen"),
		BusinessName: strPtr("Chen Ceramics"),
		CategoryID:   strPtr("retail"),
	})

	if err != nil {
		t.Fatalf("seed profile: %v", err)
	}

	fp.addSession("sess-u5", session.Identity{UID: "u5"})
	cookie := &http.Cookie{Name: session.CookieName, Value: "sess-u5"}

	w, response := doRequest(router, http.MethodGet, "/dashboard", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("dashboard got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if ct := response.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Fatalf("dashboard Content-Type = %q", ct)
	}

	body := w.Body.String()

	if !strings.Contains(body, "Maya Chen") || !strings.Contains(body, "Chen Ceramics") {
		t.Fatalf("dashboard body missing profile details:\n%s", body)
	}
}

func TestPagesIntegration_SettingsRendersForFreshUser(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	// a session whose uid has no document yet still gets the page
	fp.addSession("sess-u6", session.Identity{UID: "u6", Email: "u6@example.com"})
	cookie := &http.Cookie{Name: session.CookieName, Value: "sess-u6"}

	w, _ := doRequest(router, http.MethodGet, "/dashboard/settings", "", cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("settings got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "Business settings") {
		t.Fatalf("settings body missing heading:\n%s", w.Body.String())
	}
}

func TestPagesIntegration_LandingIsPublic(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	w, _ := doRequest(router, http.MethodGet, "/", "")

	if w.Code != http.StatusOK {
		t.Fatalf("landing got status %d, want %d", w.Code, http.StatusOK)
	}

	if !strings.Contains(w.Body.String(), "bizdash") {
		t.Fatalf("landing body missing product name:\n%s", w.Body.String())
	}
}

func TestPagesIntegration_CategoriesCatalog(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	// the catalog is public, settings screens load it before login
	w, response := doRequest(router, http.MethodGet, "/api/categories", "")

	if w.Code != http.StatusOK {
		t.Fatalf("categories got status %d, want %d", w.Code, http.StatusOK)
	}

	var payload struct {
		Items []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
			Icon  string `json:"icon"`
		} `json:"items"`
		Count int `json:"count"`
	}
	mustReadJSON(t, w, &payload)

	if payload.Count != 10 || len(payload.Items) != 10 {
		t.Fatalf("categories count = %d, items = %d, want 10", payload.Count, len(payload.Items))
	}

	seen := map[string]bool{}

	for _, item := range payload.Items {
		if item.ID == "" || item.Label == "" || item.Icon == "" {
			t.Fatalf("incomplete category entry: %+v", item)
		}
		if seen[item.ID] {
			t.Fatalf("duplicate category id %q", item.ID)
		}
		seen[item.ID] = true
	}

	if !seen["other"] {
		t.Fatalf("catalog is missing the other bucket: %v", seen)
	}

	etag := response.Header.Get("ETag")

	if etag == "" {
		t.Fatalf("categories response carries no ETag")
	}

	// revalidation answers 304 with an empty body
	req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
	req.Header.Set("If-None-Match", etag)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("categories revalidation got status %d, want %d", rec.Code, http.StatusNotModified)
	}

	if rec.Body.Len() != 0 {
		t.Fatalf("304 must not carry a body, got %s", rec.Body.String())
	}
}

func TestPagesIntegration_HealthEndpoints(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	w, _ := doRequest(router, http.MethodGet, "/healthz", "")

	if w.Code != http.StatusOK {
		t.Fatalf("healthz got status %d, want %d", w.Code, http.StatusOK)
	}

	w2, _ := doRequest(router, http.MethodGet, "/readyz", "")

	if w2.Code != http.StatusOK {
		t.Fatalf("readyz got status %d, want %d", w2.Code, http.StatusOK)
	}
}
