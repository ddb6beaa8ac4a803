package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"Hydrocalc/internal/auth"
	"Hydrocalc/internal/calc/cylinder"
	"Hydrocalc/internal/calc/premium/batch"
	"Hydrocalc/internal/calc/premium/importer"
	"Hydrocalc/internal/calc/premium/sizing"
	"Hydrocalc/internal/calc/report"
	"Hydrocalc/internal/config"

	"github.com/gorilla/mux"
	gonanoid "github.com/matoous/go-nanoid"
	"golang.org/x/time/rate"
)

const requestIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging tags each request with an id and logs it once it completes.
func Logging(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := gonanoid.Generate(requestIDAlphabet, 12)
			if err == nil {
				w.Header().Set("X-Request-Id", id)
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info("http.request",
				"id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
			)
		})
	}
}

// HandleList wires every route onto r.
func HandleList(r *mux.Router, cfg config.Config, log *slog.Logger) {
	f := cylinder.NewFormatterFor(cfg.Locale)

	authEnv := &auth.Authenv{
		JWTkey:     []byte(cfg.Auth.TokenKey),
		AdminLogin: cfg.Auth.AdminLogin,
		AdminHash:  []byte(cfg.Auth.AdminPasswordHash),
		TTL:        cfg.Auth.SessionTTL,
		Log:        log,
	}
	if !cfg.PremiumEnabled() {
		log.Warn("auth.disabled", "reason", "TOKEN_KEY is not set; premium tools will reject every request")
	}

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := r.PathPrefix("/api").Subrouter()

	// the page recomputes on every keystroke, so public tools stay unthrottled
	cylinderH := &cylinder.Handler{Formatter: f, Log: log}
	api.HandleFunc("/tools/cylinder/calc", cylinderH.Calc).Methods("POST")
	api.HandleFunc("/tools/cylinder/convert", cylinderH.Convert).Methods("POST")
	api.HandleFunc("/tools/cylinder/units", cylinderH.Units).Methods("GET")

	api.Handle("/login", limiter.LimitMiddleware(http.HandlerFunc(authEnv.AuthHandler))).Methods("POST")

	premium := api.PathPrefix("/premium").Subrouter()
	premium.Use(limiter.LimitMiddleware, authEnv.AuthMiddleware)

	batchH := &batch.Handler{Formatter: f, Log: log}
	importerH := &importer.Handler{Formatter: f, Log: log}
	sizingH := &sizing.Handler{Log: log}
	reportH := &report.Handler{Formatter: f, Log: log}

	premium.HandleFunc("/batch", batchH.Cylinders).Methods("POST")
	premium.HandleFunc("/import", importerH.Cylinders).Methods("POST")
	premium.HandleFunc("/sizing", sizingH.Bore).Methods("POST")
	premium.HandleFunc("/report", reportH.Generate).Methods("POST")

	r.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))
}

func NewHandler(cfg config.Config, log *slog.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(Logging(log))
	HandleList(r, cfg, log)
	return CORS(r)
}

// Run serves until ctx is cancelled, then drains connections for up to five seconds.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           NewHandler(cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	errCh := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("server.start", "addr", cfg.Addr, "tls", cfg.TLSCert != "")
		var err error
		if cfg.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("server.shutdown_signal")
	case err := <-errCh:
		wg.Wait()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	wg.Wait()
	log.Info("server.stopped")
	return nil
}
