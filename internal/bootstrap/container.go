package bootstrap

import (
	"context"
	"log"
	"os"
	"time"

	"recovery-coach-be/internal/agenttools"
	"recovery-coach-be/internal/config"
	"recovery-coach-be/internal/constant"
	"recovery-coach-be/internal/controller"
	"recovery-coach-be/internal/pkg/logger"
	"recovery-coach-be/internal/repository/implementation"
	"recovery-coach-be/internal/repository/memory"
	"recovery-coach-be/internal/repository/unitofwork"
	"recovery-coach-be/internal/service"
	"recovery-coach-be/pkg/agent"
	"recovery-coach-be/pkg/agent/crisis"
	"recovery-coach-be/pkg/agent/dispatch"
	"recovery-coach-be/pkg/agent/intent"
	"recovery-coach-be/pkg/agent/tool"
	"recovery-coach-be/pkg/llm/factory"
	"recovery-coach-be/pkg/llm/fallback"
	"recovery-coach-be/pkg/risk"

	pktNats "recovery-coach-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// staticChatReply is the terminal fallback-stage reply for chat turns,
// used only when every provider stage failed.
const staticChatReply = "I'm having trouble connecting right now, but I'm still here with you. " +
	"Take a breath, and try sending that again in a moment."

type Container struct {
	// Controllers
	ChatController controller.IChatController
	RiskController controller.IRiskController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	stdLogger := log.New(os.Stdout, "", log.LstdFlags)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. LLM Providers and Fallback Chains
	primaryProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.StandardModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize primary LLM provider: %v", err)
	}
	log.Printf("[INFO] Using primary LLM provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.StandardModel)

	stages := []fallback.Stage{
		{Name: "primary", Provider: primaryProvider},
	}
	secondaryProvider, err := factory.NewLLMProvider(
		cfg.Ai.FallbackProvider,
		cfg.Ai.FallbackModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Printf("[WARN] No secondary LLM provider: %v", err)
	} else {
		stages = append(stages, fallback.Stage{Name: "secondary", Provider: secondaryProvider})
		log.Printf("[INFO] Using secondary LLM provider: %s (%s)", cfg.Ai.FallbackProvider, cfg.Ai.FallbackModel)
	}

	chatChain := fallback.NewChain(stages, staticChatReply, stdLogger)
	riskChain := fallback.NewChain(stages, risk.StaticMessage, stdLogger)

	// 4. Agent Pipeline
	registry := tool.NewRegistry()
	wellnessRepo := implementation.NewWellnessRepository(db)
	conversationRepo := implementation.NewConversationRepository(db)
	messageRepo := implementation.NewConversationMessageRepository(db)
	registry.Register(agenttools.NewGetRecentJournalEntriesTool(wellnessRepo))
	registry.Register(agenttools.NewGetCheckInHistoryTool(wellnessRepo))
	registry.Register(agenttools.NewGetMoodTrendTool(wellnessRepo))
	registry.Register(agenttools.NewGetConversationSummaryTool(conversationRepo, messageRepo))
	registry.Register(agenttools.NewRecordCheckInTool(wellnessRepo))
	registry.Register(agenttools.NewLogUrgeTool(wellnessRepo))

	detector := crisis.NewKeywordDetector()
	classifier := intent.NewClassifier(primaryProvider, cfg.Ai.FastModel, 10*time.Second, stdLogger)
	dispatcher := dispatch.NewDispatcher(dispatch.ModelTiers{
		Fast:     cfg.Ai.FastModel,
		Standard: cfg.Ai.StandardModel,
	}, registry)
	loop := agent.NewLoop(chatChain, registry, detector, cfg.Agent.MaxToolIterations, stdLogger)

	// 5. Risk Engine
	riskCfg := risk.DefaultConfig()
	riskCfg.InterventionThreshold = cfg.Risk.InterventionThreshold
	collector := risk.NewCollector(riskCfg)
	generator := risk.NewGenerator(riskChain, cfg.Ai.StandardModel)

	// 6. Infrastructure
	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis (risk debounce); falls back to process-local debouncing
	var debouncer service.Debouncer
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Using in-memory debounce", err)
		debouncer = service.NewMemoryDebouncer(cfg.Risk.DebounceInterval)
	} else {
		debouncer = service.NewRedisDebouncer(rdb, cfg.Risk.DebounceInterval)
	}

	// 7. Services
	publisherService := service.NewPublisherService(constant.TopicInterventionTriggered, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		constant.TopicInterventionTriggered,
		natsPub,
	)

	observabilityService := service.NewObservabilityService(uowFactory, sysLogger)

	chatService := service.NewChatService(
		uowFactory,
		sessionRepo,
		classifier,
		dispatcher,
		loop,
		detector,
		observabilityService,
		sysLogger,
	)

	riskService := service.NewRiskService(
		uowFactory,
		riskCfg,
		collector,
		generator,
		debouncer,
		publisherService,
		observabilityService,
		sysLogger,
	)

	// 8. Controllers
	return &Container{
		ChatController:  controller.NewChatController(chatService),
		RiskController:  controller.NewRiskController(riskService),
		ConsumerService: consumerService,
	}
}
