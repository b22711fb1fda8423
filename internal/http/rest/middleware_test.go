package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ccloudinthesky/journee/util"
	"github.com/google/uuid"
)

func protected(a *API) http.Handler {
	return RequestTracing(a.RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := util.GetUserIDFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User", id.String())
		w.WriteHeader(http.StatusNoContent)
	})))
}

func TestTokenRoundTrip(t *testing.T) {
	a := newTestAPI(t, nil)
	userID := uuid.New()

	token, expiresAt, err := a.createToken(userID)
	if err != nil {
		t.Fatalf("createToken returned error %v", err)
	}
	if d := time.Until(expiresAt); d < 59*time.Minute || d > time.Hour {
		t.Errorf("expiry in %v; want about an hour", d)
	}

	claims, err := a.verifyToken(token)
	if err != nil {
		t.Fatalf("verifyToken returned error %v", err)
	}
	if claims.UserID != userID || claims.Type != "access" {
		t.Errorf("claims = %+v", claims)
	}

	other := newTestAPI(t, nil)
	other.Config.JwtSecret = "another-secret"
	if _, err := other.verifyToken(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestRequireLogin(t *testing.T) {
	a := newTestAPI(t, nil)
	h := protected(a)
	userID := uuid.New()
	token := tokenFor(t, a, userID)

	testCases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("status = %d; want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusNoContent && rec.Header().Get("X-User") != userID.String() {
				t.Errorf("user = %q; want %s", rec.Header().Get("X-User"), userID)
			}
		})
	}
}

func TestRequireLoginExpiredToken(t *testing.T) {
	a := newTestAPI(t, nil)
	a.Config.JwtExpires = -time.Minute
	token := tokenFor(t, a, uuid.New())

	_, env := doRequest(t, protected(a), http.MethodGet, "/", token, nil)
	if env.Error != "token_expired" {
		t.Errorf("error = %q; want token_expired", env.Error)
	}
}

func TestRequireLoginQueryTokenOnlyForUpgrades(t *testing.T) {
	a := newTestAPI(t, nil)
	h := protected(a)
	token := tokenFor(t, a, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("plain request with query token = %d; want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
	req.Header.Set("Upgrade", "websocket")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("upgrade request with query token = %d; want 204", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("a") {
		t.Error("third request in the same instant should be refused")
	}
	if !rl.Allow("b") {
		t.Error("another key has its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("a") {
		t.Error("a token should be refilled after a second")
	}

	now = now.Add(limiterIdleTTL + time.Second)
	rl.Allow("c")
	if _, ok := rl.clients["a"]; ok {
		t.Error("idle bucket should have been swept")
	}
}

func TestAuthRateLimit(t *testing.T) {
	a := newTestAPI(t, nil)
	a.Config.AuthRateLimit = 2
	a.Init()
	h := a.setUpServerHandler()

	for i := 0; i < 2; i++ {
		rec, _ := doRequest(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("request %d = %d; want 400 from validation", i+1, rec.Code)
		}
	}
	rec, env := doRequest(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{})
	if rec.Code != http.StatusTooManyRequests || env.Error != "too_many_requests" {
		t.Errorf("third request = %d %+v; want 429", rec.Code, env)
	}

	rec, _ = doRequest(t, h, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("logout is not limited, got %d", rec.Code)
	}
}

func TestClientIP(t *testing.T) {
	testCases := map[string]string{
		"192.0.2.1:1234":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"2001:db8::2":      "2001:db8::2",
		"203.0.113.9":      "203.0.113.9",
	}
	for addr, want := range testCases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := clientIP(req); got != want {
			t.Errorf("clientIP(%q) = %q; want %q", addr, got, want)
		}
	}
}
