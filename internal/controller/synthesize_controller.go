package controller

import (
	"errors"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/serverutils"
	"forge-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISynthesizeController interface {
	RegisterRoutes(r fiber.Router)
	Synthesize(ctx *fiber.Ctx) error
}

type synthesizeController struct {
	synthesizeService service.ISynthesizeService
	serviceKey        string
}

func NewSynthesizeController(synthesizeService service.ISynthesizeService, serviceKey string) ISynthesizeController {
	return &synthesizeController{
		synthesizeService: synthesizeService,
		serviceKey:        serviceKey,
	}
}

func (c *synthesizeController) RegisterRoutes(r fiber.Router) {
	r.Post("/synthesize", serverutils.ServiceKeyMiddleware(c.serviceKey), c.Synthesize)
}

func (c *synthesizeController) Synthesize(ctx *fiber.Ctx) error {
	var req dto.SynthesizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.synthesizeService.Synthesize(ctx.Context(), req.ForgeId)
	if err != nil {
		if errors.Is(err, service.ErrNoContributions) {
			return fiber.NewError(fiber.StatusBadRequest, "No contributions found to synthesize")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Synthesis completed successfully", res))
}
