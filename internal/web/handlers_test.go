package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mwhitt/bloglite/blog/application"
	"github.com/mwhitt/bloglite/blog/persistence"
	"github.com/mwhitt/bloglite/shared/db/sqlite"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: dbPath})
	if err := database.Connect(); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := persistence.NewSQLitePostStore(database.DB())
	service := application.NewPostService(store).WithClock(func() time.Time {
		return time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	})
	handler := NewHandler(service, application.NewBodyRenderer())

	return NewRouter(handler, "../../web/templates/*.html")
}

func postForm(t *testing.T, router *gin.Engine, path string, fields url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(fields.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validFields() url.Values {
	return url.Values{
		"title":    {"My First Post"},
		"subtitle": {"A subtitle"},
		"author":   {"Jane Doe"},
		"img_url":  {"http://example.com/cover.png"},
		"body":     {"Some **bold** body."},
	}
}

func TestListEmptyStore(t *testing.T) {
	router := setupRouter(t)

	w := get(t, router, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "No posts yet") {
		t.Error("empty listing should say there are no posts")
	}
}

func TestCreateFlow(t *testing.T) {
	router := setupRouter(t)

	// Form display state.
	w := get(t, router, "/new-post")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /new-post status = %d, want 200", w.Code)
	}

	// Submission state.
	w = postForm(t, router, "/new-post", validFields())
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST /new-post status = %d, want 303, body: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}

	// The post shows up on the listing with the stamped date.
	w = get(t, router, "/")
	body := w.Body.String()
	if !strings.Contains(body, "My First Post") {
		t.Error("listing does not show the new post")
	}
	if !strings.Contains(body, "August 31, 2026") {
		t.Error("listing does not show the creation date")
	}
}

func TestCreateValidationErrors(t *testing.T) {
	router := setupRouter(t)

	fields := validFields()
	fields.Set("img_url", "not-a-url")
	fields.Set("author", "")

	w := postForm(t, router, "/new-post", fields)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Must be a valid URL.") {
		t.Error("missing URL format error")
	}
	if !strings.Contains(body, "This field is required.") {
		t.Error("missing required field error")
	}
	// Already-entered values are preserved in the re-render.
	if !strings.Contains(body, "My First Post") {
		t.Error("submitted title not preserved")
	}

	// Nothing was created.
	w = get(t, router, "/")
	if !strings.Contains(w.Body.String(), "No posts yet") {
		t.Error("invalid submission must not create a post")
	}
}

func TestCreateDuplicateTitleConflict(t *testing.T) {
	router := setupRouter(t)

	if w := postForm(t, router, "/new-post", validFields()); w.Code != http.StatusSeeOther {
		t.Fatalf("first create status = %d, want 303", w.Code)
	}

	w := postForm(t, router, "/new-post", validFields())
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate create status = %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Error("missing title conflict error")
	}
}

func TestShowPost(t *testing.T) {
	router := setupRouter(t)
	postForm(t, router, "/new-post", validFields())

	w := get(t, router, "/post/1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "My First Post") {
		t.Error("detail page missing title")
	}
	// Markdown body rendered to HTML.
	if !strings.Contains(body, "<strong>bold</strong>") {
		t.Error("detail page missing rendered body")
	}
}

func TestShowPostNotFound(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name string
		path string
	}{
		{"unknown id", "/post/9999"},
		{"non-integer id", "/post/abc"},
		{"non-positive id", "/post/0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(t, router, tt.path)
			if w.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", w.Code)
			}
		})
	}
}

func TestEditFlow(t *testing.T) {
	router := setupRouter(t)
	postForm(t, router, "/new-post", validFields())

	// Form display state is pre-filled.
	w := get(t, router, "/edit_post/1")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /edit_post/1 status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "My First Post") {
		t.Error("edit form not pre-filled")
	}

	// Submission state redirects to the detail page.
	fields := validFields()
	fields.Set("title", "My Edited Post")
	w = postForm(t, router, "/edit_post/1", fields)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("POST /edit_post/1 status = %d, want 303, body: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/post/1" {
		t.Errorf("redirect = %q, want /post/1", loc)
	}

	// Edit keeps the original date.
	w = get(t, router, "/post/1")
	body := w.Body.String()
	if !strings.Contains(body, "My Edited Post") {
		t.Error("edit did not apply")
	}
	if !strings.Contains(body, "August 31, 2026") {
		t.Error("edit must not change the creation date")
	}
}

func TestEditUnknownPost(t *testing.T) {
	router := setupRouter(t)

	if w := get(t, router, "/edit_post/9999"); w.Code != http.StatusNotFound {
		t.Errorf("GET status = %d, want 404", w.Code)
	}

	if w := postForm(t, router, "/edit_post/9999", validFields()); w.Code != http.StatusNotFound {
		t.Errorf("POST status = %d, want 404", w.Code)
	}
}

func TestEditTitleConflict(t *testing.T) {
	router := setupRouter(t)
	postForm(t, router, "/new-post", validFields())

	second := validFields()
	second.Set("title", "Another Post")
	postForm(t, router, "/new-post", second)

	// Renaming the second post to the first post's title is a conflict.
	second.Set("title", "My First Post")
	w := postForm(t, router, "/edit_post/2", second)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if !strings.Contains(w.Body.String(), "already exists") {
		t.Error("missing title conflict error")
	}
}

func TestDeleteFlow(t *testing.T) {
	router := setupRouter(t)
	postForm(t, router, "/new-post", validFields())

	w := get(t, router, "/delete/1")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}

	if w := get(t, router, "/post/1"); w.Code != http.StatusNotFound {
		t.Errorf("deleted post status = %d, want 404", w.Code)
	}

	if w := get(t, router, "/delete/1"); w.Code != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", w.Code)
	}
}

func TestStaticPages(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/about", "/contact", "/healthz"} {
		if w := get(t, router, path); w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}
