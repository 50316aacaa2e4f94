// Package server exposes the calculator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"RMGScale/internal/auth"
	batch "RMGScale/internal/calc/batch"
	importer "RMGScale/internal/calc/importer"
	report "RMGScale/internal/calc/report"
	scaleup "RMGScale/internal/calc/scaleup"
	"RMGScale/internal/config"
	"RMGScale/internal/metrics"
)

type Server struct {
	cfg     config.Config
	logger  zerolog.Logger
	metrics *metrics.Recorder
	handler http.Handler
}

// New validates cfg and builds the routed handler.
func New(cfg config.Config, logger zerolog.Logger, rec *metrics.Recorder) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = metrics.NewRecorder()
	}
	s := &Server{cfg: cfg, logger: logger, metrics: rec}
	router := mux.NewRouter()
	if err := s.HandleList(router); err != nil {
		return nil, err
	}
	s.handler = s.CORS(router)
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) HandleList(router *mux.Router) error {
	mode, err := s.cfg.Mode()
	if err != nil {
		return err
	}
	router.Use(s.requestID, s.accessLog)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	limiter := auth.NewIPRateLimiter(rate.Limit(s.cfg.RateLimit), s.cfg.RateBurst)
	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)
	if s.cfg.AuthKey != "" {
		authEnv := &auth.Authenv{JWTkey: []byte(s.cfg.AuthKey)}
		api.Use(authEnv.AuthMiddleware)
	}

	scaleupH := &scaleup.Handler{Recorder: s.metrics, Mode: mode}
	batchH := &batch.Handler{Recorder: s.metrics, Mode: mode}
	importerH := &importer.Handler{Recorder: s.metrics, Mode: mode}
	reportH := &report.Handler{Recorder: s.metrics, Mode: mode}

	tools := api.PathPrefix("/tools/scaleup").Subrouter()
	tools.HandleFunc("/time/calc", scaleupH.Duration).Methods("POST")
	tools.HandleFunc("/speed/calc", scaleupH.Speed).Methods("POST")
	tools.HandleFunc("/solve", scaleupH.Solve).Methods("POST")
	tools.HandleFunc("/methods", scaleupH.Methods).Methods("GET")
	tools.HandleFunc("/fields", scaleupH.Fields).Methods("GET")
	tools.HandleFunc("/batch", batchH.Calc).Methods("POST")
	tools.HandleFunc("/import", importerH.Upload).Methods("POST")
	tools.HandleFunc("/import/template", importerH.Template).Methods("GET")
	tools.HandleFunc("/report/pdf", reportH.Generate).Methods("POST")
	return nil
}

func (s *Server) CORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	})(next)
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles connections on ln and shuts down gracefully when ctx is
// cancelled, waiting at most the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		if s.cfg.TLS() {
			err = server.ServeTLS(ln, s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			err = server.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Bool("tls", s.cfg.TLS()).Msg("server started")

	select {
	case err := <-errc:
		wg.Wait()
		return err
	case <-ctx.Done():
	}
	s.logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	wg.Wait()
	s.logger.Info().Msg("server stopped")
	return nil
}
