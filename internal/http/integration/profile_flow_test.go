package integration__test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arjunkh87/bizdash/internal/domain/user"
	"github.com/arjunkh87/bizdash/internal/session"
)

func TestProfileIntegration_MergeKeepsUnsentFields(t *testing.T) {
	fp := newFakeProvider()
	router, store, _ := setupRouter(t, fp)

	fp.addSession("sess-u2", session.Identity{UID: "u2", Email: "priya@example.com"})
	cookie := &http.Cookie{Name: session.CookieName, Value: "sess-u2"}

	// first write sets name and category

	w, _ := doRequest(router, http.MethodPatch, "/api/profile", `{"name":"Priya Nair","categoryId":"retail"}`, cookie)

	if w.Code != http.StatusOK {
		t.Fatalf("patch#1 got status %d, want %d, body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var first userResponse
	mustReadJSON(t, w, &first)

	if first.Name != "Priya Nair" || first.CategoryID != "retail" {
		t.Fatalf("patch#1 response = %+v", first)
	}

	// second write touches only the business name, the rest must survive

	w2, _ := doRequest(router, http.MethodPatch, "/api/profile", `{"businessName":"Nair Crafts"}`, cookie)

	if w2.Code != http.StatusOK {
		t.Fatalf("patch#2 got status %d, want %d, body=%s", w2.Code, http.StatusOK, w2.Body.String())
	}

	var second userResponse
	mustReadJSON(t, w2, &second)

	if second.Name != "Priya Nair" || second.CategoryID != "retail" {
		t.Fatalf("patch#2 dropped earlier fields: %+v", second)
	}

	if second.BusinessName != "Nair Crafts" {
		t.Fatalf("patch#2 businessName = %q", second.BusinessName)
	}

	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %s then %s", first.UpdatedAt, second.UpdatedAt)
	}

	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("createdAt changed on update: %s then %s", first.CreatedAt, second.CreatedAt)
	}

	// reading it back shows the merged document

	w3, _ := doRequest(router, http.MethodGet, "/api/profile", "", cookie)

	if w3.Code != http.StatusOK {
		t.Fatalf("get profile got status %d, want %d", w3.Code, http.StatusOK)
	}

	var read userResponse
	mustReadJSON(t, w3, &read)

	if read.Name != "Priya Nair" || read.BusinessName != "Nair Crafts" || read.CategoryID != "retail" {
		t.Fatalf("read-back profile = %+v", read)
	}

	// and the store agrees
	stored, err := store.Get(context.Background(), "u2")

	if err != nil {
		t.Fatalf("store read failed: %v", err)
	}

	if stored.BusinessName != "Nair Crafts" {
		t.Fatalf("stored businessName = %q", stored.BusinessName)
	}
}

func TestProfileIntegration_UnknownCategoryRejected(t *testing.T) {
	fp := newFakeProvider()
	router, store, _ := setupRouter(t, fp)

	fp.addSession("sess-u3", session.Identity{UID: "u3"})
	cookie := &http.Cookie{Name: session.CookieName, Value: "sess-u3"}

	w, _ := doRequest(router, http.MethodPatch, "/api/profile", `{"categoryId":"florist"}`, cookie)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("patch(bad category) got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	var e struct {
		Error   string `json:"error"`
		Details struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	mustReadJSON(t, w, &e)

	if e.Error != "Unknown business category" || e.Details.Field != "categoryId" {
		t.Fatalf("patch(bad category) body = %s", w.Body.String())
	}

	// the rejected write must not have created anything
	if _, err := store.Get(context.Background(), "u3"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("rejected patch reached the store: %v", err)
	}
}

func TestProfileIntegration_GetMissingProfile(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	fp.addSession("sess-u9", session.Identity{UID: "u9"})
	cookie := &http.Cookie{Name: session.CookieName, Value: "sess-u9"}

	w, _ := doRequest(router, http.MethodGet, "/api/profile", "", cookie)

	if w.Code != http.StatusNotFound {
		t.Fatalf("get(missing profile) got status %d, want %d, body=%s", w.Code, http.StatusNotFound, w.Body.String())
	}

	var e struct {
		Error string `json:"error"`
	}
	mustReadJSON(t, w, &e)

	if e.Error != "Profile not found" {
		t.Fatalf("get(missing profile) error = %q", e.Error)
	}
}

func TestProfileIntegration_Validation(t *testing.T) {
	fp := newFakeProvider()
	router, _, _ := setupRouter(t, fp)

	fp.addSession("sess-u4", session.Identity{UID: "u4"})
	cookie := &http.Cookie{Name: session.CookieName, Value: "sess-u4"}

	// phone numbers must be E.164
	w, _ := doRequest(router, http.MethodPatch, "/api/profile", `{"phone":"12345"}`, cookie)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("patch(bad phone) got status %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
	}

	// broken json
	w2, _ := doRequest(router, http.MethodPatch, "/api/profile", `{"name":`, cookie)

	if w2.Code != http.StatusBadRequest {
		t.Fatalf("patch(broken json) got status %d, want %d", w2.Code, http.StatusBadRequest)
	}

	// wrong content type never reaches the handler
	req := httptest.NewRequest(http.MethodPatch, "/api/profile", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "text/plain")
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("patch(text/plain) got status %d, want %d", rec.Code, http.StatusUnsupportedMediaType)
	}

	// and without a session the guard answers first
	w3, _ := doRequest(router, http.MethodPatch, "/api/profile", `{"name":"x"}`)

	if w3.Code != http.StatusUnauthorized {
		t.Fatalf("patch(no session) got status %d, want %d", w3.Code, http.StatusUnauthorized)
	}
}
