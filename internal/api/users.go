package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/linkbio/backend/internal/middleware"
	"github.com/pageza/linkbio/backend/internal/models"
	"github.com/pageza/linkbio/backend/internal/types"
)

// AuthService is the account and session lifecycle used by the handlers.
type AuthService interface {
	middleware.TokenValidator
	Register(ctx context.Context, username, email, password string) (string, error)
	Login(ctx context.Context, identifier, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (string, error)
	RequestPasswordReset(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, token, password string) error
	VerifyEmail(ctx context.Context, token string) error
	RequestEmailVerification(ctx context.Context, userID uuid.UUID) error
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
}

type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetMe(ctx context.Context, id uuid.UUID) (*models.User, *models.Profile, error)
	GetPublicPage(ctx context.Context, username string) (*models.User, *models.Profile, error)
	UpdateMe(ctx context.Context, id uuid.UUID, user models.UserUpdate, profile models.ProfileUpdate) (*models.User, *models.Profile, error)
}

type UserHandler struct {
	auth   AuthService
	users  UserService
	logger *slog.Logger
}

func NewUserHandler(auth AuthService, users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{auth: auth, users: users, logger: logger}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter, requireAuth gin.HandlerFunc) {
	users := router.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)
		users.POST("/logout", h.Logout)
		users.POST("/refresh", h.Refresh)
		users.POST("/reset-password", h.ResetPassword)
		users.POST("/update-password", h.UpdatePassword)
		users.GET("/verify/:token", h.VerifyEmail)
		users.GET("/by-username/:username", h.GetByUsername)
		users.GET("/:id", h.GetByID)

		users.GET("/me", requireAuth, h.GetMe)
		users.PUT("/me", requireAuth, h.UpdateMe)
		users.DELETE("/me", requireAuth, h.DeleteMe)
		users.POST("/verify/resend", requireAuth, h.ResendVerification)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "token": token})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), req.EmailOrUsername, req.Password)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{Token: token, User: user.Summary()})
}

// Logout drops the session row of the bearer token, if any. It never requires
// authentication.
func (h *UserHandler) Logout(c *gin.Context) {
	token, _ := middleware.BearerToken(c)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req types.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.auth.Refresh(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req types.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req types.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.auth.UpdatePassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (h *UserHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, h.logger, err, http.StatusBadRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully"})
}

func (h *UserHandler) ResendVerification(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.auth.RequestEmailVerification(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent"})
}

func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, profile, err := h.users.GetMe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, types.MeResponse{User: user, Profile: profile})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, profile, err := h.users.UpdateMe(c.Request.Context(), userID, req.UserUpdate(), req.ProfileUpdate)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, types.MeResponse{User: user, Profile: profile})
}

func (h *UserHandler) DeleteMe(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.auth.DeleteAccount(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, profile, err := h.users.GetPublicPage(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, types.PublicPageResponse{User: user.Public(), Profile: profile})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := paramUUID(c, "id", "User not found")
	if !ok {
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, user)
}
