// Package api exposes the thin HTTP surface over the application handlers.
// Route handlers only translate requests and responses; all behavior lives in
// the application and domain layers.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ersonp/worldloom/internal/application/handlers"
	"github.com/ersonp/worldloom/internal/domain/entities"
)

// Server wires the application handlers into a gin router.
type Server struct {
	worlds   *handlers.WorldHandler
	populate *handlers.PopulateHandler
	admin    *handlers.AdminHandler
	logger   *slog.Logger
}

// NewServer creates a Server.
func NewServer(worlds *handlers.WorldHandler, populate *handlers.PopulateHandler, admin *handlers.AdminHandler, logger *slog.Logger) *Server {
	return &Server{worlds: worlds, populate: populate, admin: admin, logger: logger}
}

// Router builds the HTTP route table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/worlds/generate", s.generateWorld)
	r.GET("/worlds/:world_id", s.getWorld)
	r.POST("/worlds/:world_id/fill", s.fillWorld)
	r.POST("/worlds/:world_id/pacts", s.completePacts)

	r.GET("/locales", s.getLocale)
	r.POST("/locales/generate", s.generateLocale)

	r.DELETE("/admin/dump", s.dumpAll)

	return r
}

type generateWorldRequest struct {
	Creator string `json:"creator" binding:"required"`
}

func (s *Server) generateWorld(c *gin.Context) {
	var req generateWorldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing creator ID"})
		return
	}

	world, err := s.worlds.CreateWorld(c.Request.Context(), req.Creator)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "World generated", "world": world})
}

func (s *Server) getWorld(c *gin.Context) {
	world, err := s.worlds.GetWorld(c.Request.Context(), c.Param("world_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	if world == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "World not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "World found", "world": world})
}

type fillWorldRequest struct {
	Races    int `json:"races"`
	Factions int `json:"factions"`
}

func (s *Server) fillWorld(c *gin.Context) {
	req := fillWorldRequest{Races: 3, Factions: 4}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	if err := s.worlds.FillWorld(c.Request.Context(), c.Param("world_id"), req.Races, req.Factions); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "World filled"})
}

func (s *Server) completePacts(c *gin.Context) {
	pacts, err := s.worlds.CompletePacts(c.Request.Context(), c.Param("world_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Pacts completed", "pacts": pacts})
}

type localeQuery struct {
	WorldID string `form:"world_id" binding:"required"`
	X       *int   `form:"x" binding:"required"`
	Y       *int   `form:"y" binding:"required"`
}

func (s *Server) getLocale(c *gin.Context) {
	var q localeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing world_id or coordinates"})
		return
	}

	locale, err := s.populate.GetLocale(c.Request.Context(), q.WorldID, *q.X, *q.Y)
	if err != nil {
		s.fail(c, err)
		return
	}
	if locale == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Locale not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Locale found", "locale": locale})
}

type generateLocaleRequest struct {
	WorldID string `json:"world_id" binding:"required"`
	X       *int   `json:"x" binding:"required"`
	Y       *int   `json:"y" binding:"required"`
	Seed    *int64 `json:"seed"`
}

func (s *Server) generateLocale(c *gin.Context) {
	var req generateLocaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing world_id or coordinates"})
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	res, err := s.populate.PopulateLocale(c.Request.Context(), req.WorldID, *req.X, *req.Y, seed)
	if err != nil {
		s.fail(c, err)
		return
	}
	if res.Existed {
		c.JSON(http.StatusOK, gin.H{"message": "Locale found", "locale": res.Locale})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Locale generated",
		"locale":     res.Locale,
		"characters": len(res.Characters),
	})
}

func (s *Server) dumpAll(c *gin.Context) {
	dropped, err := s.admin.DropAllTenants(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All worlds and their databases have been deleted.", "dropped": dropped})
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entities.ErrInvalidTenantID), errors.Is(err, entities.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entities.ErrGeneration):
		s.logger.Error("generation failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation service error"})
	default:
		s.logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error"})
	}
}
