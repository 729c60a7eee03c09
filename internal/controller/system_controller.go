package controller

import (
	"time"

	"forge-ai-be/internal/config"
	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/internal/pkg/serverutils"
	"forge-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const serviceVersion = "1.0.0"

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	RegisterRootRoutes(r fiber.Router)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	EnvStatus(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type systemController struct {
	db            *gorm.DB
	cfg           *config.Config
	promptService service.IPromptService
	log           logger.ILogger
}

func NewSystemController(db *gorm.DB, cfg *config.Config, promptService service.IPromptService, log logger.ILogger) ISystemController {
	return &systemController{
		db:            db,
		cfg:           cfg,
		promptService: promptService,
		log:           log,
	}
}

// RegisterRootRoutes mounts the unauthenticated service endpoints.
func (c *systemController) RegisterRootRoutes(r fiber.Router) {
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
	r.Get("/status", c.Status)
}

// RegisterRoutes mounts the operator endpoints under the API group.
func (c *systemController) RegisterRoutes(r fiber.Router) {
	key := serverutils.ServiceKeyMiddleware(c.cfg.Keys.ForgeAi)
	r.Get("/env-status", key, c.EnvStatus)
	r.Get("/system/logs", key, c.Logs)
}

func (c *systemController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"message":     "Forge AI Service is running",
		"version":     serviceVersion,
		"environment": c.cfg.App.Environment,
		"features": []string{
			"AI-powered contribution triage",
			"Dynamic prompt management",
			"Comprehensive prompt testing API",
			"Asynchronous webhook processing",
		},
	})
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	status := "healthy"
	if !c.databaseHealthy(ctx) {
		status = "unhealthy"
	}

	return ctx.JSON(dto.HealthResponse{
		Status:  status,
		Service: "forge-ai-service",
	})
}

func (c *systemController) Status(ctx *fiber.Ctx) error {
	dbHealthy := c.databaseHealthy(ctx)

	promptCount := 0
	if dbHealthy {
		if list, err := c.promptService.List(ctx.Context()); err == nil {
			promptCount = list.TotalCount
		}
	}

	status := "operational"
	if !dbHealthy {
		status = "degraded"
	}

	return ctx.JSON(fiber.Map{
		"service":     "forge-ai-service",
		"version":     serviceVersion,
		"environment": c.cfg.App.Environment,
		"status":      status,
		"database": fiber.Map{
			"connected":      dbHealthy,
			"active_prompts": promptCount,
		},
		"ai": fiber.Map{
			"provider":      c.cfg.Ai.Provider,
			"configuration": "Dynamic - models configured per prompt in database",
		},
		"features": fiber.Map{
			"webhook_processing": "enabled",
			"prompt_testing":     "enabled",
			"background_tasks":   "enabled",
			"authentication":     "bearer_token",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// EnvStatus reports which secrets are configured without revealing values.
func (c *systemController) EnvStatus(ctx *fiber.Ctx) error {
	res := dto.EnvStatusResponse{
		Environment:      c.cfg.App.Environment,
		DatabaseSet:      c.cfg.Database.Connection != "",
		OpenRouterKeySet: c.cfg.Keys.OpenRouter != "",
		ServiceKeySet:    c.cfg.Keys.ForgeAi != "",
		LlmProvider:      c.cfg.Ai.Provider,
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get env status", res))
}

func (c *systemController) Logs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	entries, err := c.log.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", fiber.Map{
		"logs":  entries,
		"count": len(entries),
	}))
}

func (c *systemController) databaseHealthy(ctx *fiber.Ctx) bool {
	sqlDB, err := c.db.DB()
	if err != nil {
		return false
	}
	if err := sqlDB.PingContext(ctx.Context()); err != nil {
		c.log.Error("system", "database health check failed", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}
	return true
}
