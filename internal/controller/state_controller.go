package controller

import (
	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/serverutils"
	"forge-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStateController interface {
	RegisterRoutes(r fiber.Router)
	GetState(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type stateController struct {
	sessionService service.ISessionService
	serviceKey     string
}

func NewStateController(sessionService service.ISessionService, serviceKey string) IStateController {
	return &stateController{
		sessionService: sessionService,
		serviceKey:     serviceKey,
	}
}

func (c *stateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/state")
	h.Use(serverutils.ServiceKeyMiddleware(c.serviceKey))
	h.Get("", c.GetState)
	h.Post("/reset", c.Reset)
}

// GetState is the polling endpoint: clients call it repeatedly while waiting
// for the background pipeline to append its artifacts.
func (c *stateController) GetState(ctx *fiber.Ctx) error {
	forgeId := ctx.Query("forgeId")
	if forgeId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "forgeId is required")
	}

	state, err := c.sessionService.GetState(ctx.Context(), forgeId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get forge state", state))
}

func (c *stateController) Reset(ctx *fiber.Ctx) error {
	var req dto.ResetStateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	state, err := c.sessionService.Reset(ctx.Context(), req.ForgeId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Forge state reset", state))
}
