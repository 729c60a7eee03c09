package controller

import (
	"errors"
	"fmt"
	"strconv"

	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/serverutils"
	"forge-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPromptController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Detail(ctx *fiber.Ctx) error
	Sample(ctx *fiber.Ctx) error
	Test(ctx *fiber.Ctx) error
}

type promptController struct {
	promptService service.IPromptService
}

func NewPromptController(promptService service.IPromptService) IPromptController {
	return &promptController{
		promptService: promptService,
	}
}

func (c *promptController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/prompts")
	h.Get("", c.List)
	h.Get("/:name", c.Detail)
	h.Get("/:name/sample", c.Sample)
	h.Post("/:name/test", c.Test)
}

func versionQuery(ctx *fiber.Ctx) *int {
	raw := ctx.Query("version")
	if raw == "" {
		return nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return &v
	}
	return nil
}

func (c *promptController) List(ctx *fiber.Ctx) error {
	res, err := c.promptService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list prompts", res))
}

func (c *promptController) Detail(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	res, err := c.promptService.Detail(ctx.Context(), name, versionQuery(ctx))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Prompt '%s' not found", name))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get prompt details", res))
}

func (c *promptController) Sample(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	res, err := c.promptService.Sample(ctx.Context(), name, versionQuery(ctx))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Prompt '%s' not found", name))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sample variables", res))
}

func (c *promptController) Test(ctx *fiber.Ctx) error {
	name := ctx.Params("name")

	var req dto.PromptTestRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.promptService.Test(ctx.Context(), name, versionQuery(ctx), req.Variables)
	if err != nil {
		var missingErr *service.MissingVariablesError
		if errors.As(err, &missingErr) {
			return fiber.NewError(fiber.StatusBadRequest, missingErr.Error())
		}
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Prompt '%s' not found", name))
	}

	return ctx.JSON(serverutils.SuccessResponse("Success test prompt", res))
}
