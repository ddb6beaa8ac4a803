package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Hydrocalc/internal/apperr"

	"golang.org/x/crypto/bcrypt"
)

func newEnv(t *testing.T) *Authenv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return &Authenv{
		JWTkey:     []byte("test-key"),
		AdminLogin: "admin",
		AdminHash:  hash,
		TTL:        time.Hour,
	}
}

func protected() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, _ := LoginFrom(r.Context())
		w.Write([]byte(login))
	})
}

func TestTokenRoundTrip(t *testing.T) {
	env := newEnv(t)
	tok, err := env.IssueToken("admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	login, err := env.ParseToken(tok)
	if err != nil || login != "admin" {
		t.Errorf("ParseToken = %q, %v", login, err)
	}

	other := &Authenv{JWTkey: []byte("other-key")}
	if _, err := other.ParseToken(tok); !apperr.IsKind(err, apperr.KindUnauthorized) {
		t.Errorf("foreign key: err = %v", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	env := newEnv(t)
	tok, err := env.IssueToken("admin", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	env.Now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := env.ParseToken(tok); err == nil {
		t.Error("expected expired token to fail")
	}
}

func TestIssueToken_NoKey(t *testing.T) {
	env := &Authenv{}
	if _, err := env.IssueToken("admin", time.Minute); err != ErrNoKey {
		t.Errorf("err = %v, want ErrNoKey", err)
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newEnv(t)
	tok, _ := env.IssueToken("admin", time.Minute)
	h := env.AuthMiddleware(protected())

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"none", func(r *http.Request) {}, http.StatusUnauthorized},
		{"garbage bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: cookieName, Value: tok}) }, http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/premium/batch", nil)
		c.setup(req)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != c.status {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.status)
		}
		if c.status == http.StatusOK && rec.Body.String() != "admin" {
			t.Errorf("%s: login in context = %q", c.name, rec.Body.String())
		}
	}
}

func TestAuthHandler(t *testing.T) {
	env := newEnv(t)
	cases := []struct {
		body   string
		status int
	}{
		{`{"login":"admin","password":"s3cret!"}`, http.StatusOK},
		{`{"login":"admin","password":"wrong"}`, http.StatusUnauthorized},
		{`{"login":"root","password":"s3cret!"}`, http.StatusUnauthorized},
		{`{"login":"","password":""}`, http.StatusBadRequest},
		{`{`, http.StatusBadRequest},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		env.AuthHandler(rec, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(c.body)))
		if rec.Code != c.status {
			t.Errorf("body %s: status = %d, want %d", c.body, rec.Code, c.status)
		}
		if c.status == http.StatusOK {
			cookies := rec.Result().Cookies()
			if len(cookies) != 1 || cookies[0].Name != cookieName {
				t.Fatalf("cookies = %v", cookies)
			}
			if login, err := env.ParseToken(cookies[0].Value); err != nil || login != "admin" {
				t.Errorf("cookie token: %q, %v", login, err)
			}
		}
	}
}

func TestLimitMiddleware(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	h := l.LimitMiddleware(protected())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/tools/cylinder/units", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	// different source ports share one budget
	if send("10.0.0.1:1000") != http.StatusOK || send("10.0.0.1:1001") != http.StatusOK {
		t.Fatal("first two requests should pass")
	}
	if code := send("10.0.0.1:1002"); code != http.StatusTooManyRequests {
		t.Errorf("third request status = %d", code)
	}
	if code := send("10.0.0.2:1000"); code != http.StatusOK {
		t.Errorf("other client status = %d", code)
	}
}

func TestIPRateLimiter_EvictsIdleClients(t *testing.T) {
	start := time.Now()
	clock := start
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return clock }

	l.getLimiter("10.0.0.1")
	l.getLimiter("10.0.0.2")
	if len(l.ips) != 2 {
		t.Fatalf("tracked = %d", len(l.ips))
	}

	clock = start.Add(limiterIdle + time.Second)
	l.getLimiter("10.0.0.3")
	if len(l.ips) != 1 {
		t.Errorf("tracked after idle sweep = %d, want 1", len(l.ips))
	}
	if _, ok := l.ips["10.0.0.3"]; !ok {
		t.Error("active client was dropped")
	}
}

func TestIPRateLimiter_KeepsThrottledClients(t *testing.T) {
	start := time.Now()
	clock := start
	l := NewIPRateLimiter(0.0001, 1)
	l.now = func() time.Time { return clock }

	if !l.getLimiter("10.0.0.1").Allow() {
		t.Fatal("first request should pass")
	}
	clock = start.Add(limiterIdle + time.Second)
	l.getLimiter("10.0.0.2")
	if _, ok := l.ips["10.0.0.1"]; !ok {
		t.Error("client with an empty bucket was forgotten")
	}
	if l.getLimiter("10.0.0.1").Allow() {
		t.Error("throttled client got a fresh budget")
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")) != nil {
		t.Error("hash does not verify")
	}
}
