package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erpmodern/auth-service/internal/container"
	handlers "github.com/erpmodern/auth-service/internal/interface/http"
	"github.com/erpmodern/auth-service/internal/interface/middleware"
	"github.com/erpmodern/auth-service/pkg/helpers"
)

// AuthModule wires the authentication endpoints.
// Public: POST /api/auth/login, POST /api/auth/token/verify,
//         POST /api/auth/password/validate
// Protected: GET /api/auth/me
type AuthModule struct {
	Auth     *handlers.AuthHandler
	Password *handlers.PasswordHandler
	JWT      *helpers.JWTManager
}

func NewAuthModule(auth *handlers.AuthHandler, pwd *handlers.PasswordHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Auth: auth, Password: pwd, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with per-IP rate limits. Login gets the tightest
	// budget; the account lockout behind it is the real defense.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	verifyLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIPAndPath(), nil)
	pwdLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/login", loginLimiter, m.Auth.Login)
	rg.POST("/auth/token/verify", verifyLimiter, m.Auth.VerifyToken)
	rg.POST("/auth/password/validate", pwdLimiter, m.Password.Validate)

	// Protected
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/auth/me", m.Auth.Me)
	}
}
