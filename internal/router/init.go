package router

import (
	app "github.com/oksasatya/go-task-manager/internal/application"
	"github.com/oksasatya/go-task-manager/internal/container"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/cache"
	pginfra "github.com/oksasatya/go-task-manager/internal/infrastructure/postgres"
	"github.com/oksasatya/go-task-manager/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-task-manager/internal/interface/http"
	"github.com/oksasatya/go-task-manager/internal/router/modules"
)

// Services bundles the application services the HTTP modules are built on.
type Services struct {
	Auth  *app.AuthService
	Users *app.UserService
	Tasks *app.TaskService
}

// buildServices wires repositories and optional adapters from the container.
// Nil clients leave the matching interface nil so the services skip them.
func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := pginfra.NewUserRepository(pool)
	taskRepo := pginfra.NewTaskRepository(pool)

	auth := app.NewAuthService(userRepo, container.GetJWT(), logger, cfg.BCryptCost)
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		auth.WithWelcomeEmail(pub, cfg.AppName, cfg.AppURL)
	}

	users := app.NewUserService(userRepo, nil, logger)
	if up := container.GetGCSUploader(); up != nil {
		users.Uploader = up
	}

	tasks := app.NewTaskService(taskRepo, nil, nil, logger)
	if rdb := container.GetRedis(); rdb != nil && cfg.CacheEnabled {
		tasks.Cache = cache.NewTaskCache(rdb, cfg.TaskCacheTTL)
	}
	if es := container.GetES(); es != nil && cfg.SearchEnabled {
		tasks.Index = search.NewTaskIndex(es, cfg.ESTasksIndex)
	}

	return Services{Auth: auth, Users: users, Tasks: tasks}
}

// AddModules registers the auth, user, task and (optionally) debug modules.
func AddModules(r *Registry, svc Services, avatarMaxBytes int64, debug bool) {
	jwt := container.GetJWT()
	logger := container.GetLogger()

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger, avatarMaxBytes), jwt))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(svc.Tasks, logger), jwt))
	if debug {
		r.Add(modules.NewDebugModule())
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	AddModules(r, buildServices(), cfg.AvatarMaxBytes, cfg.DebugMetricsEnabled)
}
