package controller

import (
	"errors"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/serverutils"
	"forge-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	ProcessContribution(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type webhookController struct {
	webhookService service.IWebhookService
	serviceKey     string
}

func NewWebhookController(webhookService service.IWebhookService, serviceKey string) IWebhookController {
	return &webhookController{
		webhookService: webhookService,
		serviceKey:     serviceKey,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook")
	h.Get("/health", c.Health)
	h.Use(serverutils.ServiceKeyMiddleware(c.serviceKey))
	h.Post("/process-contribution", c.ProcessContribution)
}

// ProcessContribution accepts the notification, enqueues the pipeline run,
// and answers 202 before any model call happens.
func (c *webhookController) ProcessContribution(ctx *fiber.Ctx) error {
	var req dto.ProcessContributionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.webhookService.ProcessContribution(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrContributionNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Contribution not found")
		}
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Contribution processing started", res))
}

func (c *webhookController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":         "healthy",
		"service":        "forge-ai-webhook",
		"authentication": "Bearer token required",
		"processing":     "Asynchronous background tasks",
	})
}
