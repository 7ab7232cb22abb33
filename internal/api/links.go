package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/types"
)

const msgLinkNotFound = "Link not found"

type LinkService interface {
	ListLinks(ctx context.Context, userID uuid.UUID) ([]models.Link, error)
	GetLink(ctx context.Context, id uuid.UUID) (*models.Link, error)
	CreateLink(ctx context.Context, userID uuid.UUID, req types.CreateLinkRequest) (*models.Link, error)
	UpdateLink(ctx context.Context, userID, id uuid.UUID, req types.UpdateLinkRequest) (*models.Link, error)
	DeleteLink(ctx context.Context, userID, id uuid.UUID) error
	TrackClick(ctx context.Context, id uuid.UUID) (*models.Link, error)
}

type LinkHandler struct {
	links  LinkService
	logger *slog.Logger
}

func NewLinkHandler(links LinkService, logger *slog.Logger) *LinkHandler {
	return &LinkHandler{links: links, logger: logger}
}

func (h *LinkHandler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	links := router.Group("/links")
	{
		links.GET("", requireAuth, h.ListOwn)
		links.POST("", requireAuth, h.Create)
		links.GET("/user/:userId", h.ListByUser)
		links.GET("/:id", h.Get)
		links.PUT("/:id", requireAuth, h.Update)
		links.DELETE("/:id", requireAuth, h.Delete)
		links.POST("/:id/click", h.Click)
	}
}

func (h *LinkHandler) ListOwn(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	h.list(c, userID)
}

func (h *LinkHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusOK, []models.Link{})
		return
	}
	h.list(c, userID)
}

func (h *LinkHandler) list(c *gin.Context, userID uuid.UUID) {
	links, err := h.links.ListLinks(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *LinkHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id", msgLinkNotFound)
	if !ok {
		return
	}

	link, err := h.links.GetLink(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *LinkHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	link, err := h.links.CreateLink(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *LinkHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", msgLinkNotFound)
	if !ok {
		return
	}

	var req types.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	link, err := h.links.UpdateLink(c.Request.Context(), userID, id, req)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, link)
}

func (h *LinkHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramUUID(c, "id", msgLinkNotFound)
	if !ok {
		return
	}

	if err := h.links.DeleteLink(c.Request.Context(), userID, id); err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Link deleted successfully"})
}

func (h *LinkHandler) Click(c *gin.Context) {
	id, ok := paramUUID(c, "id", msgLinkNotFound)
	if !ok {
		return
	}

	link, err := h.links.TrackClick(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, types.ClickResponse{URL: link.URL, Clicks: link.Clicks})
}
