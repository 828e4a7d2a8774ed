package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/app/orch"
	"github.com/dkeye/Polyglot/internal/conversion"
	"github.com/dkeye/Polyglot/internal/domain"
)

type Handlers struct {
	Orch        *orch.Orchestrator
	DefaultLang domain.Lang
	Languages   []string
}

// TranslateRequest accepts the older "lang" key when "targetLang" is absent.
type TranslateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"targetLang" binding:"omitempty,max=16"`
	Lang       string `json:"lang" binding:"omitempty,max=16"`
}

type LangRequest struct {
	Lang string `json:"lang" binding:"required,max=16"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	Rooms       int    `json:"rooms"`
	Connections int    `json:"connections"`
}

func (h *Handlers) TranslateText(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid text"})
		return
	}
	raw := req.TargetLang
	if raw == "" {
		raw = req.Lang
	}
	lang, err := domain.ParseLang(raw, h.DefaultLang)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.Orch.Retranslate(c.Request.Context(), req.Text, lang)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, conversion.ErrEmptyText):
			status = http.StatusBadRequest
		case errors.Is(err, conversion.ErrBusy):
			status = http.StatusServiceUnavailable
		}
		log.Error().
			Err(err).
			Str("module", "adapters.http").
			Str("stage", conversion.StageOf(err)).
			Str("lang", string(lang)).
			Msg("translate-text failed")
		c.JSON(status, gin.H{"error": "translation failed", "stage": conversion.StageOf(err)})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handlers) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": h.Languages, "default": h.DefaultLang})
}

func (h *Handlers) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Orch.RoomList()})
}

func (h *Handlers) RoomMembers(c *gin.Context) {
	id := domain.RoomID(c.Param("room"))
	members, ok := h.Orch.RoomMembers(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": id, "members": members})
}

func (h *Handlers) SetClientLang(c *gin.Context) {
	clientID, err := domain.ParseClientID(c.Param("clientId"))
	if err != nil || clientID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client id"})
		return
	}
	var req LangRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid lang"})
		return
	}
	lang, err := domain.ParseLang(req.Lang, h.DefaultLang)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n := h.Orch.SetClientLang(clientID, lang)
	if n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no live connection for client"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientId": clientID, "lang": lang, "sessions": n})
}

func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Rooms:       len(h.Orch.RoomList()),
		Connections: h.Orch.Connections(),
	})
}
