package web

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/kopyalagelsin/storefront/internal/domain/ports/repository"
	"github.com/kopyalagelsin/storefront/internal/infra/i18n"
	"github.com/kopyalagelsin/storefront/internal/infra/logging"
	"github.com/kopyalagelsin/storefront/internal/infra/redis"
	"github.com/kopyalagelsin/storefront/internal/usecase"
)

type ctxKey string

const (
	ctxUserID ctxKey = "user_id"
	ctxAdmin  ctxKey = "admin_user"
)

// Per-IP fixed-window budgets for the abuse-prone endpoints.
const (
	checkoutRateLimit = 10
	authRateLimit     = 20
	rateWindow        = time.Minute
)

type Server struct {
	checkoutUC usecase.CheckoutUseCase
	orderUC    usecase.OrderUseCase
	couponUC   usecase.CouponUseCase
	userUC     usecase.UserUseCase
	configUC   usecase.ConfigUseCase

	userRepo  repository.UserRepository
	audit     repository.AuditLogRepository
	documents repository.DocumentStore

	auth    *AuthManager
	limiter *redis.RateLimiter // nil disables rate limiting
	tr      *i18n.Translator

	adminEmail    string
	adminPassword string

	log *zerolog.Logger
	now func() time.Time
}

type ServerDeps struct {
	Checkout usecase.CheckoutUseCase
	Orders   usecase.OrderUseCase
	Coupons  usecase.CouponUseCase
	Users    usecase.UserUseCase
	Config   usecase.ConfigUseCase

	UserRepo  repository.UserRepository
	Audit     repository.AuditLogRepository
	Documents repository.DocumentStore

	Auth          *AuthManager
	Limiter       *redis.RateLimiter
	Translator    *i18n.Translator
	AdminEmail    string
	AdminPassword string
	Logger        *zerolog.Logger
}

func NewServer(d ServerDeps) *Server {
	return &Server{
		checkoutUC:    d.Checkout,
		orderUC:       d.Orders,
		couponUC:      d.Coupons,
		userUC:        d.Users,
		configUC:      d.Config,
		userRepo:      d.UserRepo,
		audit:         d.Audit,
		documents:     d.Documents,
		auth:          d.Auth,
		limiter:       d.Limiter,
		tr:            d.Translator,
		adminEmail:    d.AdminEmail,
		adminPassword: d.AdminPassword,
		log:           d.Logger,
		now:           time.Now,
	}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Storefront API
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", s.publicConfigHandler())
		r.Post("/quote", s.quoteHandler())
		r.With(s.rateLimit("upload", checkoutRateLimit)).Post("/upload", s.uploadHandler())

		r.Route("/paytr", func(r chi.Router) {
			r.With(s.rateLimit("checkout", checkoutRateLimit)).Post("/init", s.checkoutInitHandler())
			// Called server-to-server by the processor; never rate limited.
			r.Post("/notify", s.paymentNotifyHandler())
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(s.rateLimit("auth", authRateLimit)).Post("/register", s.registerHandler())
			r.With(s.rateLimit("auth", authRateLimit)).Post("/login", s.loginHandler())
			r.Post("/logout", s.logoutHandler())
			r.With(s.requireCustomer).Get("/me", s.meHandler())
		})

		r.Route("/my", func(r chi.Router) {
			r.Use(s.requireCustomer)
			r.Get("/orders", s.myOrdersHandler())
			r.Get("/orders/{id}", s.myOrderGetHandler())
			r.Get("/coupons", s.myCouponsHandler())
			r.Post("/coupons/check", s.couponCheckHandler())
		})

		r.Route("/admin", func(r chi.Router) {
			r.With(s.rateLimit("auth", authRateLimit)).Post("/login", s.adminLoginHandler())
			r.Post("/logout", s.adminLogoutHandler())

			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)
				r.Get("/config", s.adminConfigGetHandler())
				r.Put("/config", s.adminConfigPutHandler())
				r.Get("/orders", s.adminOrdersListHandler())
				r.Get("/orders/{id}", s.adminOrderGetHandler())
				r.Get("/coupons", s.adminCouponsListHandler())
				r.Post("/coupons", s.adminCouponIssueHandler())
				r.Patch("/coupons/{id}", s.adminCouponToggleHandler())
				r.Get("/users", s.adminUsersListHandler())
				r.Get("/logs", s.adminLogsListHandler())
				r.Delete("/logs", s.adminLogsClearHandler())
			})
		})
	})

	// Uploaded documents, admin-only: order PDFs are customer data.
	r.With(s.requireAdmin).Get("/uploads/{id}", s.uploadGetHandler())

	return r
}

func (s *Server) uploadGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := s.documents.Get(r.Context(), r.URL.Path)
		if err != nil {
			writeDomainError(w, s.tr, err)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(data)
	}
}

// ===== middleware =====

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))
		logging.With(ctx, s.log).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("ip", clientIP(r)).
			Msg("http request")
	})
}

// rateLimit throttles per client IP. A limiter backend failure fails open:
// throttling is protection, not a correctness requirement.
func (s *Server) rateLimit(endpoint string, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.limiter == nil {
				next.ServeHTTP(w, r)
				return
			}
			key := redis.EndpointKey(clientIP(r), endpoint)
			allowed, err := s.limiter.Allow(r.Context(), key, limit, rateWindow)
			if err != nil {
				s.log.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				writeError(w, http.StatusTooManyRequests, s.tr.T("error_rate_limited"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) requireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.ParseCustomer(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, s.tr.T("error_login_failed"))
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserID, userID)
		ctx = logging.WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, err := s.auth.ParseAdmin(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, s.tr.T("error_login_failed"))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxAdmin, admin)))
	})
}

// ===== request helpers =====

func userIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

func adminFrom(r *http.Request) string {
	admin, _ := r.Context().Value(ctxAdmin).(string)
	return admin
}

func pathID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
