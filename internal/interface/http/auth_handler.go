package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/erpmodern/auth-service/internal/application"
	"github.com/erpmodern/auth-service/internal/interface/middleware"
	"github.com/erpmodern/auth-service/pkg/helpers"
	"github.com/erpmodern/auth-service/pkg/response"
	"github.com/erpmodern/auth-service/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.Service
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.Service, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, JWT: jwt, Logger: logger}
}

type loginRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	res, err := h.Svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAccountLocked):
			response.Error[any](c, http.StatusUnauthorized, "account temporarily locked", nil)
		case errors.Is(err, application.ErrUnavailable):
			response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		default:
			response.Error[any](c, http.StatusUnauthorized, "invalid username or password", nil)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":      res.Token,
		"expires_at": res.TokenExpiry,
		"username":   res.Username,
		"user_id":    res.UserID,
		"role":       res.Role,
	}, "login successful")
}

type verifyTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// VerifyToken POST /api/auth/token/verify
// Validates a token with the same key/issuer/audience used for issuance.
// Every failure collapses to one generic result.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req verifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	claims, err := h.JWT.Verify(req.Token)
	if err != nil {
		response.Success(c, http.StatusOK, gin.H{"valid": false}, "token validation failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"valid":      true,
		"user_id":    claims.Subject,
		"username":   claims.Username,
		"role":       claims.Role,
		"token_id":   claims.ID,
		"expires_at": claims.ExpiresAt.Time,
	}, "token valid")
}

// Me GET /api/auth/me (bearer protected)
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user_id":  c.GetString(middleware.CtxUserIDKey),
		"username": c.GetString(middleware.CtxUsernameKey),
		"role":     c.GetString(middleware.CtxRoleKey),
	}, "authenticated identity")
}
