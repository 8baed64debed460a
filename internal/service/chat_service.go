package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recovery-coach-be/internal/constant"
	"recovery-coach-be/internal/dto"
	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/pkg/logger"
	"recovery-coach-be/internal/repository/memory"
	"recovery-coach-be/internal/repository/specification"
	"recovery-coach-be/internal/repository/unitofwork"
	"recovery-coach-be/pkg/agent"
	"recovery-coach-be/pkg/agent/crisis"
	"recovery-coach-be/pkg/agent/dispatch"
	"recovery-coach-be/pkg/agent/intent"
	"recovery-coach-be/pkg/agent/sanitize"
	"recovery-coach-be/pkg/llm"
)

// historyWindow is how many recent messages are handed to the model.
const historyWindow = 12

type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	CreateConversation(ctx context.Context, userId uuid.UUID) (*dto.ConversationDetailResponse, error)
	GetConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error)
	GetConversation(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ConversationDetailResponse, error)
	UpdateConversation(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error)
	DeleteConversation(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type chatService struct {
	uowFactory    unitofwork.RepositoryFactory
	sessionRepo   *memory.SessionRepository
	classifier    *intent.Classifier
	dispatcher    *dispatch.Dispatcher
	loop          *agent.Loop
	detector      crisis.Detector
	observability IObservabilityService
	sysLogger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	sessionRepo *memory.SessionRepository,
	classifier *intent.Classifier,
	dispatcher *dispatch.Dispatcher,
	loop *agent.Loop,
	detector crisis.Detector,
	observability IObservabilityService,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:    uowFactory,
		sessionRepo:   sessionRepo,
		classifier:    classifier,
		dispatcher:    dispatcher,
		loop:          loop,
		detector:      crisis.FailOpen(detector),
		observability: observability,
		sysLogger:     sysLogger,
	}
}

// SendMessage runs one full turn: sanitize, crisis-screen, classify,
// dispatch, execute, persist. The crisis check fails open: if the detector
// errors, the turn is treated as a crisis.
func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (res *dto.SendMessageResponse, err error) {
	started := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cleaned := sanitize.Input(req.Message)

	// Failed turns get an observability row too. The error detail is
	// retained only here; the client sees the reduced envelope.
	defer func() {
		if err == nil {
			return
		}
		detail := err.Error()
		s.observability.LogInvocation(ctx, &entity.ObservabilityLog{
			UserId:         userId,
			FunctionName:   constant.FuncChatTurn,
			InputSummary:   truncateSummary(cleaned, 500),
			ResponseTimeMs: time.Since(started).Milliseconds(),
			ErrorMessage:   &detail,
		})
	}()

	if cleaned == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "message is empty")
	}

	conversation, history, err := s.loadOrCreateConversation(ctx, uow, userId, req.ConversationId, cleaned)
	if err != nil {
		return nil, err
	}

	userMsg := &entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleUser,
		Content:        cleaned,
	}
	if err := uow.ConversationMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	// FailOpen wrapping at construction turns detector failures into
	// positive matches, so the error leg is structurally empty.
	inCrisis, _ := s.detector.Detect(cleaned)

	var reply string
	metrics := dto.TurnMetrics{}

	if inCrisis {
		// Crisis preempts the whole pipeline: no classification, no
		// model, no tools.
		s.sysLogger.Warn("chat", "crisis detected, pipeline preempted", map[string]interface{}{
			"user_id":         userId.String(),
			"conversation_id": conversation.Id.String(),
		})
		reply = crisis.SafetyResponse
		metrics.Lane = "crisis"
	} else {
		classification := s.classifier.Classify(ctx, cleaned, historyToLLM(history))
		binding := s.dispatcher.Dispatch(classification.Lane)

		turn := append(historyToLLM(history), llm.Message{Role: "user", Content: cleaned})
		result := s.loop.Run(ctx, userId, binding, turn)

		if result.CrisisDetected {
			inCrisis = true
			reply = result.Answer
		} else {
			reply = sanitize.Response(result.Answer)
			if reply == "" {
				reply = agent.FallbackAnswer
			}
		}

		metrics = dto.TurnMetrics{
			Lane:           classification.Lane,
			ToolIterations: result.Iterations,
			AutonomyScore:  result.AutonomyScore,
			ReadTools:      result.ReadCalls,
			WriteTools:     result.WriteCalls,
			ToolsCalled:    result.ToolsCalled,
			ServedByStage:  result.ServedByStage,
		}
	}
	metrics.ResponseTimeMs = time.Since(started).Milliseconds()

	assistantMsg := &entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleAssistant,
		Content:        reply,
	}
	if err := uow.ConversationMessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	s.updateSession(conversation, userId, append(history, userMsg, assistantMsg), metrics.Lane)

	s.observability.LogInvocation(ctx, &entity.ObservabilityLog{
		UserId:          userId,
		FunctionName:    constant.FuncChatTurn,
		InputSummary:    truncateSummary(cleaned, 500),
		ResponseSummary: truncateSummary(reply, 500),
		ResponseTimeMs:  metrics.ResponseTimeMs,
		ModelUsed:       metrics.ServedByStage,
		ToolsCalled:     metrics.ToolsCalled,
		CrisisDetected:  inCrisis,
	})

	return &dto.SendMessageResponse{
		ConversationId: conversation.Id,
		Reply:          reply,
		CrisisDetected: inCrisis,
		Metrics:        metrics,
	}, nil
}

// CreateConversation opens an empty conversation seeded with the assistant
// greeting, so the client has a thread to render before the first turn.
func (s *chatService) CreateConversation(ctx context.Context, userId uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation := &entity.Conversation{
		Id:     uuid.New(),
		UserId: userId,
		Title:  constant.DefaultConversationTitle,
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	greeting := &entity.ConversationMessage{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           constant.MessageRoleAssistant,
		Content:        constant.ConversationGreeting,
	}
	if err := uow.ConversationMessageRepository().Create(ctx, greeting); err != nil {
		return nil, err
	}

	s.updateSession(conversation, userId, []*entity.ConversationMessage{greeting}, "")

	return &dto.ConversationDetailResponse{
		Conversation: dto.ConversationResponse{
			Id:        conversation.Id,
			Title:     conversation.Title,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		},
		Messages: []dto.ConversationMessageResponse{{
			Id:        greeting.Id,
			Role:      greeting.Role,
			Content:   greeting.Content,
			CreatedAt: greeting.CreatedAt,
		}},
	}, nil
}

func (s *chatService) loadOrCreateConversation(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	conversationId *uuid.UUID,
	firstMessage string,
) (*entity.Conversation, []*entity.ConversationMessage, error) {
	if conversationId == nil {
		conversation := &entity.Conversation{
			Id:     uuid.New(),
			UserId: userId,
			Title:  deriveTitle(firstMessage),
		}
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return nil, nil, err
		}
		return conversation, nil, nil
	}

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: *conversationId},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}

	// Session cache first; the database is the fallback on a miss.
	if session, ok := s.sessionRepo.Get(conversation.Id); ok && session.UserId == userId {
		return conversation, session.Messages, nil
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversation.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: historyWindow},
	)
	if err != nil {
		return nil, nil, err
	}
	// Reverse to chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return conversation, messages, nil
}

func (s *chatService) updateSession(conversation *entity.Conversation, userId uuid.UUID, messages []*entity.ConversationMessage, lane string) {
	if len(messages) > historyWindow {
		messages = messages[len(messages)-historyWindow:]
	}
	s.sessionRepo.Save(&memory.AgentSession{
		ConversationId: conversation.Id,
		UserId:         userId,
		Messages:       messages,
		LastLane:       lane,
	})
}

func (s *chatService) GetConversations(ctx context.Context, userId uuid.UUID) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		result = append(result, &dto.ConversationResponse{
			Id:        c.Id,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return result, nil
}

func (s *chatService) GetConversation(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}

	messages, err := uow.ConversationMessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ConversationDetailResponse{
		Conversation: dto.ConversationResponse{
			Id:        conversation.Id,
			Title:     conversation.Title,
			CreatedAt: conversation.CreatedAt,
			UpdatedAt: conversation.UpdatedAt,
		},
		Messages: make([]dto.ConversationMessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		res.Messages = append(res.Messages, dto.ConversationMessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return res, nil
}

func (s *chatService) UpdateConversation(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.UpdateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}

	conversation.Title = req.Title
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return nil, err
	}

	return &dto.ConversationResponse{
		Id:        conversation.Id,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
	}, nil
}

func (s *chatService) DeleteConversation(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fiber.NewError(fiber.StatusNotFound, "conversation not found")
	}

	if err := uow.ConversationMessageRepository().DeleteAllByConversationId(ctx, id); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.sessionRepo.Delete(id)
	return nil
}

func historyToLLM(messages []*entity.ConversationMessage) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == constant.MessageRoleTool {
			continue
		}
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

func deriveTitle(firstMessage string) string {
	title := truncateSummary(firstMessage, 60)
	if title == "" {
		title = constant.DefaultConversationTitle
	}
	return title
}

// truncateSummary caps s at n bytes without splitting a rune.
func truncateSummary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
