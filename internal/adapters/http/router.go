package http

import (
	"context"
	"path/filepath"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/adapters/signal"
	"github.com/dkeye/Polyglot/internal/app/orch"
	"github.com/dkeye/Polyglot/internal/config"
	"github.com/dkeye/Polyglot/internal/domain"
)

const clientCookieMaxAge = 3600 * 24 * 30

// ClientIDMiddleware keeps a generated client id in the session cookie so a
// browser that does not pass clientId keeps one identity across reconnects.
func ClientIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(signal.ClientIDKey).(string)
		if id == "" {
			id = string(domain.NewClientID())
			session.Set(signal.ClientIDKey, id)
			if err := session.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(signal.ClientIDKey, id)
		c.Next()
	}
}

// SetupRouter wires every route. ctx bounds the WebSocket connections and
// must be the server's root context, not a request's.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	switch cfg.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(cfg.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: clientCookieMaxAge, HttpOnly: true})
	r.Use(sessions.Sessions("PolyglotSessions", store))
	r.Use(ClientIDMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticPath, "index.html"))
	})

	h := &Handlers{
		Orch:        o,
		DefaultLang: domain.Lang(cfg.DefaultLang),
		Languages:   cfg.Languages,
	}
	r.GET("/healthz", h.Health)

	ctrl := signal.NewSignalWSController(o, signal.OptionsFromConfig(cfg))
	r.GET("/ws", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	api := r.Group("/api")
	api.POST("/translate-text", h.TranslateText)
	api.GET("/languages", h.ListLanguages)
	api.GET("/rooms", h.Rooms)
	api.GET("/rooms/:room/members", h.RoomMembers)
	api.PUT("/clients/:clientId/lang", h.SetClientLang)

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")
	return r
}
