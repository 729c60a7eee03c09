package bootstrap

import (
	"context"
	"log"

	"forge-ai-be/internal/config"
	"forge-ai-be/internal/controller"
	"forge-ai-be/internal/pkg/logger"
	"forge-ai-be/internal/repository/unitofwork"
	"forge-ai-be/internal/service"
	"forge-ai-be/pkg/ai/pipeline"
	"forge-ai-be/pkg/ai/triage"
	"forge-ai-be/pkg/llm/factory"
	pkgNats "forge-ai-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController    controller.IWebhookController
	ChatController       controller.IChatController
	SynthesizeController controller.ISynthesizeController
	StateController      controller.IStateController
	PromptController     controller.IPromptController
	SystemController     controller.ISystemController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared infrastructure
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v (state cache disabled)", err)
		rdb = nil
	}

	// 3. LLM Provider
	llmProvider, err := factory.NewLLMProvider(cfg)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s", cfg.Ai.Provider)

	// 4. Services
	sessionService := service.NewSessionService(uowFactory, rdb, natsPub, sysLogger)
	promptService := service.NewPromptService(uowFactory, llmProvider, sysLogger)

	classifier := triage.NewClassifier(llmProvider, promptService)
	executor := pipeline.NewExecutor(llmProvider, promptService, sessionService, sysLogger)

	publisherService := service.NewPublisherService(pubSub, cfg.App.ProcessTopic)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.ProcessTopic,
		sessionService,
		classifier,
		executor,
		natsPub,
		sysLogger,
	)

	webhookService := service.NewWebhookService(sessionService, publisherService, sysLogger)
	chatService := service.NewChatService(sessionService, executor, sysLogger)
	synthesizeService := service.NewSynthesizeService(sessionService, executor, sysLogger)

	// 5. Controllers
	return &Container{
		WebhookController:    controller.NewWebhookController(webhookService, cfg.Keys.ForgeAi),
		ChatController:       controller.NewChatController(chatService, cfg.Keys.ForgeAi),
		SynthesizeController: controller.NewSynthesizeController(synthesizeService, cfg.Keys.ForgeAi),
		StateController:      controller.NewStateController(sessionService, cfg.Keys.ForgeAi),
		PromptController:     controller.NewPromptController(promptService),
		SystemController:     controller.NewSystemController(db, cfg, promptService, sysLogger),
		ConsumerService:      consumerService,
		Logger:               sysLogger,
	}
}
