package service

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recovery-coach-be/internal/constant"
	"recovery-coach-be/internal/dto"
	"recovery-coach-be/internal/repository/memory"
	"recovery-coach-be/pkg/agent"
	"recovery-coach-be/pkg/agent/crisis"
	"recovery-coach-be/pkg/agent/dispatch"
	"recovery-coach-be/pkg/agent/intent"
	"recovery-coach-be/pkg/agent/tool"
	"recovery-coach-be/pkg/llm"
	"recovery-coach-be/pkg/llm/fallback"
)

// scriptedProvider replays canned replies in order; the last one repeats.
type scriptedProvider struct {
	replies []string
	calls   int
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (*llm.Completion, error) {
	idx := p.calls
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	p.calls++
	return &llm.Completion{Content: p.replies[idx]}, nil
}

func (p *scriptedProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	res, err := p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

func newChatServiceForTest(store *fakeStore, provider llm.LLMProvider) IChatService {
	return newChatServiceWith(store, provider, crisis.NewKeywordDetector(), nopObservability{})
}

func newChatServiceWith(store *fakeStore, provider llm.LLMProvider, detector crisis.Detector, obs IObservabilityService) IChatService {
	stdLogger := log.New(os.Stderr, "", 0)
	chain := fallback.NewChain(
		[]fallback.Stage{{Name: "primary", Provider: provider}},
		"static fallback reply",
		stdLogger,
	)
	registry := tool.NewRegistry()
	classifier := intent.NewClassifier(provider, "fast-model", time.Second, stdLogger)
	dispatcher := dispatch.NewDispatcher(dispatch.ModelTiers{Fast: "fast-model", Standard: "std-model"}, registry)
	loop := agent.NewLoop(chain, registry, detector, 5, stdLogger)

	return NewChatService(
		&fakeFactory{store: store},
		memory.NewSessionRepository(),
		classifier,
		dispatcher,
		loop,
		detector,
		obs,
		nopLogger{},
	)
}

func TestSendMessageNormalTurn(t *testing.T) {
	store := newFakeStore()
	provider := &scriptedProvider{replies: []string{
		`{"lane": "chat", "confidence": 0.9, "reasoning": "small talk"}`,
		"Hey, good to hear from you!",
	}}
	svc := newChatServiceForTest(store, provider)

	res, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message: "hello there",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hey, good to hear from you!", res.Reply)
	assert.False(t, res.CrisisDetected)
	assert.Equal(t, intent.LaneChat, res.Metrics.Lane)
	assert.Equal(t, 2, provider.calls) // one classification, one completion

	// One loop iteration against the cap of 5.
	assert.Equal(t, 1, res.Metrics.ToolIterations)
	assert.InDelta(t, 0.2, res.Metrics.AutonomyScore, 1e-9)

	// Both turns persisted, in order.
	require.Len(t, store.messages, 2)
	assert.Equal(t, constant.MessageRoleUser, store.messages[0].Role)
	assert.Equal(t, constant.MessageRoleAssistant, store.messages[1].Role)
	assert.Len(t, store.conversations, 1)
}

func TestSendMessageCrisisSkipsModelEntirely(t *testing.T) {
	store := newFakeStore()
	provider := &scriptedProvider{replies: []string{"should never be used"}}
	svc := newChatServiceForTest(store, provider)

	res, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message: "I just want to end my life",
	})
	require.NoError(t, err)

	assert.True(t, res.CrisisDetected)
	assert.Equal(t, crisis.SafetyResponse, res.Reply)
	assert.Contains(t, res.Reply, "988")
	assert.Zero(t, provider.calls)

	// The crisis turn is still persisted like any other.
	require.Len(t, store.messages, 2)
	assert.Equal(t, crisis.SafetyResponse, store.messages[1].Content)
}

func TestSendMessageRejectsEmptyAfterSanitize(t *testing.T) {
	store := newFakeStore()
	svc := newChatServiceForTest(store, &scriptedProvider{replies: []string{"unused"}})

	_, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message: "   <|im_start|>   ",
	})
	require.Error(t, err)
	assert.Empty(t, store.messages)
}

func TestSendMessageContinuesConversation(t *testing.T) {
	store := newFakeStore()
	provider := &scriptedProvider{replies: []string{
		`{"lane": "chat", "confidence": 0.9, "reasoning": "small talk"}`,
		"First reply.",
		`{"lane": "chat", "confidence": 0.9, "reasoning": "small talk"}`,
		"Second reply.",
	}}
	svc := newChatServiceForTest(store, provider)
	userId := uuid.New()

	first, err := svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{Message: "hi"})
	require.NoError(t, err)

	second, err := svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		ConversationId: &first.ConversationId,
		Message:        "and another thing",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationId, second.ConversationId)
	assert.Len(t, store.conversations, 1)
	assert.Len(t, store.messages, 4)
}

func TestSendMessageSanitizesModelResponse(t *testing.T) {
	store := newFakeStore()
	provider := &scriptedProvider{replies: []string{
		`{"lane": "chat", "confidence": 0.9, "reasoning": "small talk"}`,
		"assistant: Here for you.<|im_end|>",
	}}
	svc := newChatServiceForTest(store, provider)

	res, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{Message: "hey"})
	require.NoError(t, err)

	assert.False(t, strings.Contains(res.Reply, "<|im_end|>"))
	assert.False(t, strings.HasPrefix(res.Reply, "assistant:"))
	assert.Contains(t, res.Reply, "Here for you.")
}

// failingDetector simulates a crashed crisis classifier.
type failingDetector struct{}

func (failingDetector) Detect(text string) (bool, error) {
	return false, errors.New("classifier offline")
}

func TestSendMessageDetectorFailureFailsOpen(t *testing.T) {
	store := newFakeStore()
	provider := &scriptedProvider{replies: []string{"should never be used"}}
	svc := newChatServiceWith(store, provider, failingDetector{}, nopObservability{})

	res, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message: "hello there",
	})
	require.NoError(t, err)

	// A broken detector degrades to the safety response, never to an
	// unscreened model turn.
	assert.True(t, res.CrisisDetected)
	assert.Equal(t, crisis.SafetyResponse, res.Reply)
	assert.Zero(t, provider.calls)
}

func TestSendMessageFailureWritesErrorLog(t *testing.T) {
	store := newFakeStore()
	store.messageCreateErr = errors.New("insert failed")
	obs := &capturingObservability{}
	provider := &scriptedProvider{replies: []string{"unused"}}
	svc := newChatServiceWith(store, provider, crisis.NewKeywordDetector(), obs)

	_, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{
		Message: "hello there",
	})
	require.Error(t, err)

	// The failed turn still gets its observability row, carrying the
	// technical detail the client response omits.
	require.Len(t, obs.logs, 1)
	entry := obs.logs[0]
	assert.Equal(t, constant.FuncChatTurn, entry.FunctionName)
	require.NotNil(t, entry.ErrorMessage)
	assert.Contains(t, *entry.ErrorMessage, "insert failed")
}

func TestCreateConversationSeedsGreeting(t *testing.T) {
	store := newFakeStore()
	svc := newChatServiceForTest(store, &scriptedProvider{replies: []string{"unused"}})
	userId := uuid.New()

	res, err := svc.CreateConversation(context.Background(), userId)
	require.NoError(t, err)

	require.Len(t, res.Messages, 1)
	assert.Equal(t, constant.MessageRoleAssistant, res.Messages[0].Role)
	assert.Equal(t, constant.ConversationGreeting, res.Messages[0].Content)

	require.Len(t, store.messages, 1)
	assert.Len(t, store.conversations, 1)

	// The seeded conversation accepts turns like any other.
	provider := &scriptedProvider{replies: []string{
		`{"lane": "chat", "confidence": 0.9, "reasoning": "small talk"}`,
		"Good to see you back.",
	}}
	svc = newChatServiceForTest(store, provider)
	turn, err := svc.SendMessage(context.Background(), userId, &dto.SendMessageRequest{
		ConversationId: &res.Conversation.Id,
		Message:        "hi again",
	})
	require.NoError(t, err)
	assert.Equal(t, res.Conversation.Id, turn.ConversationId)
}

func TestSendMessageTitleKeepsRuneBoundary(t *testing.T) {
	store := newFakeStore()
	provider := &scriptedProvider{replies: []string{
		`{"lane": "chat", "confidence": 0.9, "reasoning": "small talk"}`,
		"Reply.",
	}}
	svc := newChatServiceForTest(store, provider)

	// 40 two-byte runes: 80 bytes, so the 60-byte title cut lands mid
	// rune unless it backs off.
	msg := strings.Repeat("é", 40)
	_, err := svc.SendMessage(context.Background(), uuid.New(), &dto.SendMessageRequest{Message: msg})
	require.NoError(t, err)

	require.Len(t, store.conversations, 1)
	for _, c := range store.conversations {
		assert.True(t, utf8.ValidString(c.Title))
		assert.LessOrEqual(t, len(c.Title), 60)
	}
}
