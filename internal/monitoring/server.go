// internal/monitoring/server.go

package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dacionxo/leadharvest/internal/utils"
)

// StatsFunc supplies the current run counters for the /stats endpoint.
type StatsFunc func() interface{}

// Server exposes /metrics, /healthz, and /stats over HTTP for worker
// processes that run unattended.
type Server struct {
	metrics *Metrics
	stats   StatsFunc
	logger  utils.Logger
	httpSrv *http.Server
}

// NewServer builds the monitoring endpoint on addr. stats may be nil.
func NewServer(addr string, metrics *Metrics, stats StatsFunc, logger utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewLogger()
	}

	s := &Server{metrics: metrics, stats: stats, logger: logger}

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.statsHandler).Methods(http.MethodGet)

	s.httpSrv = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Infof("monitoring endpoint listening on %s", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("monitoring endpoint failed: %v", err)
		}
	}()
}

// Shutdown stops the endpoint, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) statsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.stats == nil {
		w.Write([]byte("{}"))
		return
	}
	if err := json.NewEncoder(w).Encode(s.stats()); err != nil {
		s.logger.Warnf("failed to encode stats: %v", err)
	}
}
