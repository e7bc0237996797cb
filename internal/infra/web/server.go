package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"membership-entitlement/internal/application"
	"membership-entitlement/internal/infra/logging"
	"membership-entitlement/internal/infra/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type ctxKey string

const ctxActor ctxKey = "actor_id"

// Server exposes the entitlement facade over the admin HTTP API.
type Server struct {
	facade *application.EntitlementFacade
	auth   *AuthManager
	apiKey string
	log    *zerolog.Logger
}

func NewServer(facade *application.EntitlementFacade, auth *AuthManager, apiKey string, logger *zerolog.Logger) *Server {
	return &Server{facade: facade, auth: auth, apiKey: apiKey, log: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(s.traceID)
	r.Use(s.requestLog)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/codes", s.handleGenerateCode)
			r.Get("/codes", s.handleListCodes)
			r.Post("/codes/redeem", s.handleRedeemCode)
			r.Post("/codes/{code}/revoke", s.handleRevokeCode)
			r.Get("/codes/{code}/redemptions", s.handleListRedemptions)

			r.Get("/users/{userID}/can-create-org", s.handleCanCreate)
			r.Get("/users/{userID}/can-join-org", s.handleCanJoin)
			r.Get("/orgs/{orgID}/member-limit", s.handleMemberLimit)
		})
	})
	return r
}

func (s *Server) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l := logging.With(r.Context(), s.log)
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http_request")
	})
}

// authenticate accepts either an admin session token (cookie or bearer JWT)
// carrying the actor id, or the static API key plus an X-Actor-ID header for
// service-to-service calls. The actor id lands in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, err := s.auth.ParseFromRequest(r); err == nil {
			ctx := context.WithValue(r.Context(), ctxActor, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if s.apiKey != "" && s.bearerToken(r) == s.apiKey {
			actor := r.Header.Get("X-Actor-ID")
			if actor == "" {
				http.Error(w, "X-Actor-ID required with API key auth", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), ctxActor, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		metrics.IncAdminCommand(r.URL.Path, "unauthorized")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func (s *Server) bearerToken(r *http.Request) string {
	hdr := r.Header.Get("Authorization")
	parts := strings.SplitN(hdr, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func actorID(r *http.Request) string {
	if v, ok := r.Context().Value(ctxActor).(string); ok {
		return v
	}
	return ""
}
