package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"lab-attendance-backend/internal/mw"
)

// RouterConfig carries the HTTP settings taken from the server and session
// config sections.
type RouterConfig struct {
	SessionSecret    []byte
	CookieName       string
	SessionMaxAge    int
	SecureCookie     bool
	RateLimit        rate.Limit
	RateBurst        int
	CacheTTL         time.Duration
	CORSAllowOrigins []string
	// Clock defaults to time.Now. It decides when a faculty login expires.
	Clock            func() time.Time
}

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg RouterConfig, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestID(), mw.AccessLog(log))

	if len(cfg.CORSAllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", mw.RequestIDHeader},
			ExposeHeaders:    []string{mw.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	cookieStore := cookie.NewStore(cfg.SessionSecret)
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	// Options only sets the cookie attribute; the codec keeps its own limit.
	if s, ok := cookieStore.(interface{ MaxAge(int) }); ok {
		s.MaxAge(cfg.SessionMaxAge)
	}
	h.session = sessionPolicy{maxAge: time.Duration(cfg.SessionMaxAge) * time.Second, now: cfg.Clock}

	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	caching := mw.Cache(cache.New(cacheTTL, 2*cacheTTL), cacheTTL)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(mw.RateLimiter(cfg.RateLimit, cfg.RateBurst), sessions.Sessions(cfg.CookieName, cookieStore))
	{
		api.GET("/healthz", h.Healthz)
		api.GET("/options", caching, h.Options)

		student := api.Group("/student")
		student.POST("/login", h.StudentLogin)
		student.POST("/logout", h.StudentLogout)

		fac := api.Group("/faculty")
		fac.GET("/session", h.FacultySession)
		fac.POST("/login", h.FacultyLogin)
		fac.POST("/logout", h.FacultyLogout)

		gated := fac.Group("", h.RequireFaculty())
		gated.GET("/records", h.Records)
		gated.GET("/records.csv", h.RecordsCSV)
	}

	return r
}
