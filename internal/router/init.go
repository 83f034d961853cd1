package router

import (
	"github.com/erpmodern/auth-service/internal/application"
	"github.com/erpmodern/auth-service/internal/container"
	pginfra "github.com/erpmodern/auth-service/internal/infrastructure/postgres"
	handlers "github.com/erpmodern/auth-service/internal/interface/http"
	"github.com/erpmodern/auth-service/internal/router/modules"
)

func buildAuthModule() *modules.AuthModule {
	cfg := container.GetConfig()
	repo := pginfra.NewUserRepository(container.GetPGPool())

	svc := application.NewService(
		repo,
		container.GetHasher(),
		container.GetJWT(),
		container.GetLogger(),
		container.GetRedis(),
		container.GetRabbitPub(),
		container.GetES(),
		cfg.ESAuditIndex,
		cfg.LockoutThreshold,
		cfg.LockoutDuration,
	)

	authHandler := handlers.NewAuthHandler(svc, container.GetJWT(), container.GetLogger())
	return modules.NewAuthModule(authHandler, handlers.NewPasswordHandler(), container.GetJWT())
}

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	r.Add(buildAuthModule())
	if container.GetConfig().DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
