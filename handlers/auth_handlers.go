package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"sitecms/api/logging"
	"sitecms/api/models"
	"sitecms/api/store"
	"sitecms/api/utils"
)

const tokenCookie = "jwt_token"

// AdminRepository is the subset of store.AdminStore the auth handlers use.
type AdminRepository interface {
	CreateAdmin(ctx context.Context, email string, hashedPassword []byte) (*models.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (*models.Admin, error)
}

type AuthHandlers struct {
	Admins AdminRepository
	JWT    *utils.JWTManager
	// SecureCookie marks the session cookie Secure; on in release mode.
	SecureCookie bool
}

func NewAuthHandlers(admins AdminRepository, jwtManager *utils.JWTManager, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{Admins: admins, JWT: jwtManager, SecureCookie: secureCookie}
}

// Signup creates an admin account. The route is mounted behind AuthRequired so
// only existing admins (or the API key) can add new ones.
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req models.NewAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	ctx := c.Request.Context()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password"})
		return
	}

	admin, err := h.Admins.CreateAdmin(ctx, models.NormalizeEmail(req.Email), hashedPassword)
	if err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Admin with this email already exists"})
			return
		}
		logging.Ctx(ctx).Error().Err(err).Msg("failed to create admin")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register admin"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered successfully", "email": admin.Email})
}

// Login checks credentials and sets the session cookie.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req models.AdminCredentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	ctx := c.Request.Context()

	admin, err := h.Admins.GetAdminByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if !errors.Is(err, store.ErrAdminNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("admin lookup failed during login")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword(admin.HashedPassword, []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tokenString, err := h.JWT.Generate(admin)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Int64("admin_id", admin.ID).Msg("failed to generate JWT")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate authentication token"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, tokenString, int(h.JWT.TTL().Seconds()), "/", "", h.SecureCookie, true)

	logging.Ctx(ctx).Info().Int64("admin_id", admin.ID).Msg("admin logged in")
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "email": admin.Email})
}

func (h *AuthHandlers) Logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", h.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
