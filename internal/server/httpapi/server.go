// Package httpapi exposes the grocery list REST API.
package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/grocerylist/internal/service"
)

// Pinger reports storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tune the HTTP layer.
type Options struct {
	// AuthRate and AuthBurst bound /auth/* requests per client IP.
	AuthRate  float64
	AuthBurst int
	// Health is checked by GET /healthz; nil reports healthy.
	Health Pinger
}

// Server wires services into HTTP handlers.
type Server struct {
	auth    service.AuthService
	lists   service.ListService
	items   service.ItemService
	signKey []byte
	log     *zap.Logger
	opts    Options
}

// New constructs the API server.
func New(auth service.AuthService, lists service.ListService, items service.ItemService, signKey []byte, log *zap.Logger, opts Options) *Server {
	if opts.AuthRate <= 0 {
		opts.AuthRate = 5
	}
	if opts.AuthBurst <= 0 {
		opts.AuthBurst = 10
	}
	return &Server{auth: auth, lists: lists, items: items, signKey: signKey, log: log, opts: opts}
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	authed := Auth(s.signKey)
	throttle := NewIPLimiter(s.opts.AuthRate, s.opts.AuthBurst).Middleware

	mux.Handle("POST /auth/register", throttle(http.HandlerFunc(s.register)))
	mux.Handle("POST /auth/login", throttle(http.HandlerFunc(s.login)))
	mux.Handle("GET /auth/me", throttle(authed(http.HandlerFunc(s.me))))

	mux.Handle("GET /lists", authed(http.HandlerFunc(s.getLists)))
	mux.Handle("POST /lists", authed(http.HandlerFunc(s.createList)))
	mux.Handle("PUT /lists/{id}", authed(http.HandlerFunc(s.renameList)))
	mux.Handle("DELETE /lists/{id}", authed(http.HandlerFunc(s.deleteList)))

	mux.Handle("GET /items/list/{listId}", authed(http.HandlerFunc(s.getItems)))
	mux.Handle("POST /items", authed(http.HandlerFunc(s.createItem)))
	mux.Handle("PUT /items/{id}", authed(http.HandlerFunc(s.updateItem)))
	mux.Handle("DELETE /items/{id}", authed(http.HandlerFunc(s.deleteItem)))
	mux.Handle("POST /items/batch-create", authed(http.HandlerFunc(s.createItems)))
	mux.Handle("DELETE /items/batch-delete", authed(http.HandlerFunc(s.deleteItems)))

	mux.HandleFunc("GET /healthz", s.healthz)

	return Chain(unmatchedJSON(mux), RequestID(), Logging(s.log), Recover(s.log))
}

func (s *Server) logFor(r *http.Request) *zap.Logger {
	return s.log.With(zap.String("request_id", RequestIDFromCtx(r.Context())))
}

// userID is set by Auth on every protected route.
func userID(r *http.Request) int64 {
	id, _ := UserIDFromCtx(r.Context())
	return id
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if s.opts.Health != nil {
		if err := s.opts.Health.Ping(r.Context()); err != nil {
			s.logFor(r).Warn("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
