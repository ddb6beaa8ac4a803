package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"Hydrocalc/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const loginKey contextKey = "login"

const cookieName = "session_token"

var ErrNoKey = errors.New("token key not configured")

type Authenv struct {
	JWTkey     []byte
	AdminLogin string
	AdminHash  []byte
	TTL        time.Duration
	Log        *slog.Logger
	Now        func() time.Time
}

// limiterIdle is how long a client may stay silent before its bucket is dropped.
const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type IPRateLimiter struct {
	ips       map[string]*visitor
	mu        sync.Mutex
	r         rate.Limit
	b         int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:       make(map[string]*visitor),
		r:         r,
		b:         b,
		idle:      limiterIdle,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	now := i.now()
	if now.Sub(i.lastSweep) >= i.idle {
		i.sweep(now)
	}
	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// sweep drops idle clients whose bucket has refilled, so forgetting them
// never resets a throttled client. Callers hold i.mu.
func (i *IPRateLimiter) sweep(now time.Time) {
	for ip, v := range i.ips {
		if now.Sub(v.lastSeen) >= i.idle && v.limiter.TokensAt(now) >= float64(i.b) {
			delete(i.ips, ip)
		}
	}
	i.lastSweep = now
}

// LimitMiddleware rejects clients that exceed their per-IP budget.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) now() time.Time {
	if env.Now != nil {
		return env.Now()
	}
	return time.Now()
}

func (env *Authenv) logger() *slog.Logger {
	if env.Log != nil {
		return env.Log
	}
	return slog.Default()
}

// IssueToken signs a session token for login valid for ttl.
func (env *Authenv) IssueToken(login string, ttl time.Duration) (string, error) {
	if len(env.JWTkey) == 0 {
		return "", ErrNoKey
	}
	now := env.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"login": login,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	})
	return token.SignedString(env.JWTkey)
}

// ParseToken validates tokenString and returns its login claim.
func (env *Authenv) ParseToken(tokenString string) (string, error) {
	if len(env.JWTkey) == 0 {
		return "", apperr.New("auth.parse", apperr.KindUnauthorized, ErrNoKey)
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	}, jwt.WithTimeFunc(env.now))
	if err != nil || !token.Valid {
		return "", apperr.New("auth.parse", apperr.KindUnauthorized, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", apperr.Invalid("auth.parse", "unexpected claims")
	}
	login, ok := claims["login"].(string)
	if !ok || login == "" {
		return "", apperr.New("auth.parse", apperr.KindUnauthorized, errors.New("missing login claim"))
	}
	return login, nil
}

// AuthMiddleware accepts the session cookie or an Authorization: Bearer token.
func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			if cookie, err := r.Cookie(cookieName); err == nil {
				raw = cookie.Value
			}
		}
		if raw == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		login, err := env.ParseToken(raw)
		if err != nil {
			env.logger().Debug("auth.rejected", "err", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), loginKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// LoginFrom returns the login stored by AuthMiddleware.
func LoginFrom(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey).(string)
	return login, ok
}

func (env *Authenv) addCookie(w http.ResponseWriter, r *http.Request, login string) error {
	tokenString, err := env.IssueToken(login, env.TTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    tokenString,
		Expires:  env.now().Add(env.TTL),
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (env *Authenv) AuthHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}
	if len(env.AdminHash) == 0 || req.Login != env.AdminLogin ||
		bcrypt.CompareHashAndPassword(env.AdminHash, []byte(req.Password)) != nil {
		env.logger().Info("auth.login_failed", "login", req.Login)
		http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		return
	}
	if err := env.addCookie(w, r, req.Login); err != nil {
		env.logger().Error("auth.issue_token", "err", err)
		http.Error(w, "Authentication unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Authentication successful"))
}
