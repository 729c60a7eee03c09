package controller

import (
	"forge-ai-be/internal/dto"
	"forge-ai-be/internal/pkg/serverutils"
	"forge-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Handle(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
	serviceKey  string
}

func NewChatController(chatService service.IChatService, serviceKey string) IChatController {
	return &chatController{
		chatService: chatService,
		serviceKey:  serviceKey,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Post("/chat", serverutils.ServiceKeyMiddleware(c.serviceKey), c.Handle)
}

func (c *chatController) Handle(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Handle(ctx.Context(), &req)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Role not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat message processed successfully", res))
}
