package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sessionrecords "github.com/dalemusser/ezdash/internal/app/store/sessions"
	"github.com/dalemusser/ezdash/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		AuthBaseURL:      "http://localhost:8000",
		AnalyticsBaseURL: "https://analytics.example.com/api",
		SessionKey:       "0123456789abcdef0123456789abcdef",
		SessionMaxAge:    24 * time.Hour,
		SessionBackend:   SessionBackendCookie,
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "ezdash",
	}
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	if err := ValidateConfig(&config.CoreConfig{}, validConfig(), testLogger()); err != nil {
		t.Fatalf("ValidateConfig: %v", err)
	}
}

func TestValidateConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppConfig)
		want   string
	}{
		{"relative auth url", func(c *AppConfig) { c.AuthBaseURL = "/api" }, "auth_base_url"},
		{"ftp analytics url", func(c *AppConfig) { c.AnalyticsBaseURL = "ftp://example.com" }, "analytics_base_url"},
		{"no host", func(c *AppConfig) { c.AnalyticsBaseURL = "http://" }, "analytics_base_url"},
		{"empty session key", func(c *AppConfig) { c.SessionKey = "  " }, "session_key"},
		{"unknown backend", func(c *AppConfig) { c.SessionBackend = "redis" }, "session_backend"},
		{"bad mongo uri", func(c *AppConfig) {
			c.SessionBackend = SessionBackendMongo
			c.MongoURI = "localhost:27017"
		}, "MongoDB URI"},
		{"short csrf key", func(c *AppConfig) { c.CSRFKey = "short" }, "csrf_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateConfig_MongoURIOnlyCheckedForMongoBackend(t *testing.T) {
	cfg := validConfig()
	cfg.MongoURI = ""
	if err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger()); err != nil {
		t.Fatalf("cookie backend should ignore mongo_uri: %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(` token , "authToken",, jwt `)
	want := []string{"token", `"authToken"`, "jwt"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil so client defaults apply")
	}
}

func TestConnectDB_CookieBackendSkipsMongo(t *testing.T) {
	deps, err := ConnectDB(context.Background(), &config.CoreConfig{}, validConfig(), testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if deps.MongoClient != nil || deps.SessionRecords != nil || deps.SessionCleanup != nil {
		t.Errorf("expected empty deps for cookie backend, got %+v", deps)
	}

	// Every later hook must tolerate empty deps.
	if err := EnsureSchema(context.Background(), &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Errorf("EnsureSchema: %v", err)
	}
	if err := Shutdown(context.Background(), &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestEnsureSchema_CreatesSessionIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db, SessionRecords: sessionrecords.New(db)}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}

	cur, err := db.Collection("session_records").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list indexes: %v", err)
	}
	defer cur.Close(ctx)

	found := false
	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
		}
		if cur.Decode(&idx) == nil && idx.Name == "idx_session_records_last_active" {
			found = true
		}
	}
	if !found {
		t.Error("expected idx_session_records_last_active to exist")
	}
}

func TestCSRFProtect_RejectsPostWithoutToken(t *testing.T) {
	mw, err := csrfProtect("", false, testLogger())
	if err != nil {
		t.Fatalf("csrfProtect: %v", err)
	}
	called := false
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "http://localhost/login", strings.NewReader("email=a@b.c"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Error("handler should not run without a CSRF token")
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCSRFProtect_AllowsGet(t *testing.T) {
	mw, err := csrfProtect("0123456789abcdef0123456789abcdef", false, testLogger())
	if err != nil {
		t.Fatalf("csrfProtect: %v", err)
	}
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "http://localhost/login", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
