package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/models"
)

// maxAssetSize bounds profile image uploads. maxAssetRequestSize leaves room
// for the multipart framing around the file.
const (
	maxAssetSize        = 5 << 20
	maxAssetRequestSize = maxAssetSize + 64<<10
)

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error)
	UploadAsset(ctx context.Context, userID uuid.UUID, kind, filename, contentType string, body io.Reader) (*models.Profile, error)
}

type ProfileHandler struct {
	profiles ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

func (h *ProfileHandler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	profile := router.Group("/profile")
	{
		profile.GET("", requireAuth, h.GetProfile)
		profile.PUT("", requireAuth, h.UpdateProfile)
		profile.PUT("/assets/:kind", requireAuth, h.UploadAsset)
		profile.GET("/:userId", h.GetPublicProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		badRequest(c, err)
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadAsset accepts a multipart form with the image in the "file" field.
func (h *ProfileHandler) UploadAsset(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAssetRequestSize)
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
			return
		}
		badRequest(c, err)
		return
	}
	if header.Size > maxAssetSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	defer file.Close()

	profile, err := h.profiles.UploadAsset(c.Request.Context(), userID, c.Param("kind"),
		header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetPublicProfile(c *gin.Context) {
	userID, ok := paramUUID(c, "userId", "Profile not found")
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, profile)
}
