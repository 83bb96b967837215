package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"xpvcc/internal/api"
	"xpvcc/internal/config"
	"xpvcc/internal/logging"
)

// maxRequestBody bounds JSON request bodies.
const maxRequestBody = 1 << 20

// requestIDHeader carries the correlation id in both directions.
const requestIDHeader = "X-Request-ID"

type apiServer struct {
	bind    string
	baseURL string
	logger  *slog.Logger
	daemon  *Daemon
	handler http.Handler

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:    strings.TrimSpace(cfg.Paths.APIBind),
		baseURL: cfg.Download.BaseURL,
		logger:  logger,
		daemon:  d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)

	mux.HandleFunc("POST /unity/install", srv.handleInstall)
	mux.HandleFunc("POST /unity/tell", srv.handleTell)
	mux.HandleFunc("GET /unity/installations", srv.handleInstallations)
	mux.HandleFunc("GET /unity/installations/{version}", srv.handleInstallation)
	mux.HandleFunc("GET /unity/versions", srv.handleVersions)
	mux.HandleFunc("GET /unity/dispatches", srv.handlePendingDispatches)

	// /project/new/{templateKind} overlaps /project/{id}/{action}, so both
	// POST shapes share one pattern.
	mux.HandleFunc("POST /project/{id}/{action}", srv.handleProjectAction)
	mux.HandleFunc("GET /project/{id}/dependency", srv.handleProjectDependency)

	srv.handler = srv.withRequestID(authMiddleware(cfg.Paths.APIToken, mux))
	return srv
}

func (s *apiServer) start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("api bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen on %s: %w", s.bind, err)
	}

	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Install requests block while the installer downloads.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.listener = listener
	s.server = server
	s.mu.Unlock()

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	s.mu.Lock()
	server := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()

	if server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

func (s *apiServer) addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logging.WithRequestID(r.Context(), id)
		logging.WithContext(ctx, s.log()).Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	payload := api.DaemonStatus{
		Running:            status.Running,
		PID:                status.PID,
		Bind:               status.Bind,
		StorePath:          status.StorePath,
		LockFilePath:       status.LockFilePath,
		HubEnabled:         status.HubEnabled,
		PendingDispatches:  status.Stats.PendingDispatches,
		RedeemedDispatches: status.Stats.RedeemedDispatches,
		Installations:      status.Stats.Installations,
		Dependencies:       api.FromDependencyStatuses(status.Dependencies),
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// decodeBody fills dst from a JSON body when one is present. Requests that
// carry only query parameters have no body.
func decodeBody(r *http.Request, w http.ResponseWriter, dst any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	contentType := r.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(strings.ToLower(contentType), "application/json") {
		return nil
	}
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

// writeText sends a plain-text body; the install endpoints answer errors
// this way.
func (s *apiServer) writeText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
