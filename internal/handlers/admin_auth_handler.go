package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/detailing-scheduler/internal/config"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/middleware"
)

type AdminAuthHandler struct {
	cfg config.AdminConfig
	log zerolog.Logger
	now func() time.Time
}

func NewAdminAuthHandler(cfg config.AdminConfig, log zerolog.Logger) *AdminAuthHandler {
	return &AdminAuthHandler{cfg: cfg, log: log, now: time.Now}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Informe a senha.")
		return
	}

	if !h.checkPassword(req.Password) {
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("admin login failed")
		httperr.Unauthorized(c, "invalid_credentials", "Senha incorreta.")
		return
	}

	token, exp, err := middleware.IssueAdminToken(h.cfg.JWTSecret, h.cfg.SessionTTL, h.now())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to sign admin token")
		httperr.Internal(c, "failed_to_generate_token", "Erro ao iniciar sessão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp.UTC(),
	})
}

// checkPassword prefers the bcrypt hash when one is configured.
func (h *AdminAuthHandler) checkPassword(password string) bool {
	if h.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(password)) == nil
	}
	if h.cfg.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(h.cfg.Password), []byte(password)) == 1
}

// Logout only acknowledges; the client drops its token.
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}

func (h *AdminAuthHandler) Session(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := middleware.ParseAdminToken(h.cfg.JWTSecret, token)
	if err != nil || claims.ExpiresAt == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"expires_at":    claims.ExpiresAt.Time.UTC(),
	})
}
