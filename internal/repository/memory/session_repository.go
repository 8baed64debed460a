package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"recovery-coach-be/internal/entity"
)

// AgentSession is the hot per-conversation state kept between turns so a
// turn does not reload the full message history from the database. The
// database stays the source of truth; a cache miss just means a reload.
type AgentSession struct {
	ConversationId uuid.UUID
	UserId         uuid.UUID
	Messages       []*entity.ConversationMessage
	LastLane       string
	UpdatedAt      time.Time
}

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Sessions idle for an hour are dropped; expired items are purged
	// every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *AgentSession) {
	session.UpdatedAt = time.Now()
	r.cache.Set(session.ConversationId.String(), session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(conversationID uuid.UUID) (*AgentSession, bool) {
	if x, found := r.cache.Get(conversationID.String()); found {
		return x.(*AgentSession), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(conversationID uuid.UUID) {
	r.cache.Delete(conversationID.String())
}
