package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
	"github.com/authgate/authgate-go/internal/session"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGateFixture(t *testing.T) (http.Handler, *http.Cookie) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	sessions := session.NewManager(repository.NewSessionRepository(db), session.Config{
		Secret: "test-secret",
		TTL:    time.Hour,
	})

	rec := httptest.NewRecorder()
	if _, err := sessions.Issue(context.Background(), rec, &model.User{ID: 1, Email: "a@x.com"}); err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("Issue() set %d cookies, want 1", len(cookies))
	}

	handler := AccessGate(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	return handler, cookies[0]
}

func TestAccessGate(t *testing.T) {
	handler, validCookie := newGateFixture(t)

	tests := []struct {
		name         string
		path         string
		withSession  bool
		wantStatus   int
		wantLocation string
	}{
		{"protected without session", "/dashboard", false, http.StatusFound, "/login"},
		{"protected subpath without session", "/dashboard/settings", false, http.StatusFound, "/login"},
		{"protected with session", "/dashboard", true, http.StatusOK, ""},
		{"auth page with session", "/login", true, http.StatusFound, "/dashboard"},
		{"signup with session", "/signup", true, http.StatusFound, "/dashboard"},
		{"reset subpath with session", "/reset-password/step2", true, http.StatusFound, "/dashboard"},
		{"auth page without session", "/login", false, http.StatusOK, ""},
		{"neutral without session", "/some/public/path", false, http.StatusOK, ""},
		{"neutral with session", "/some/public/path", true, http.StatusOK, ""},
		{"api is neutral", "/api/session", false, http.StatusOK, ""},
		{"lookalike path is neutral", "/loginfoo", true, http.StatusOK, ""},
		{"root is neutral", "/", false, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.withSession {
				req.AddCookie(validCookie)
			}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestAccessGateInvalidCookieIsAbsent(t *testing.T) {
	handler, _ := newGateFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Errorf("location = %q, want /login", got)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("Content-Security-Policy header missing")
	}
}
