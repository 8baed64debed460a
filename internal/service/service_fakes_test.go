package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/repository/contract"
	"recovery-coach-be/internal/repository/specification"
	"recovery-coach-be/internal/repository/unitofwork"
)

// In-memory repository fakes shared by the service tests. They implement
// just enough of the contracts for the pipelines under test.

type fakeStore struct {
	mu            sync.Mutex
	conversations map[uuid.UUID]*entity.Conversation
	messages      []*entity.ConversationMessage
	interventions map[uuid.UUID]*entity.Intervention
	obsLogs       []*entity.ObservabilityLog

	// Error injection for failure-path tests.
	messageCreateErr error
	wellnessErr      error

	latestCheckIn *entity.CheckIn
	latestJournal *entity.JournalEntry
	moodScores    []float64
	avgUrge       float64
	urgeCount     int
	avgStress     float64
	avgSleep      float64
	bioCount      int
	profile       *entity.RecoveryProfile
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conversations: make(map[uuid.UUID]*entity.Conversation),
		interventions: make(map[uuid.UUID]*entity.Intervention),
	}
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) ConversationRepository() contract.ConversationRepository {
	return &fakeConversationRepo{store: u.store}
}

func (u *fakeUow) ConversationMessageRepository() contract.ConversationMessageRepository {
	return &fakeMessageRepo{store: u.store}
}

func (u *fakeUow) InterventionRepository() contract.InterventionRepository {
	return &fakeInterventionRepo{store: u.store}
}

func (u *fakeUow) ObservabilityLogRepository() contract.ObservabilityLogRepository {
	return &fakeObservabilityRepo{store: u.store}
}

func (u *fakeUow) WellnessRepository() contract.WellnessRepository {
	return &fakeWellnessRepo{store: u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeConversationRepo struct{ store *fakeStore }

func (r *fakeConversationRepo) Create(ctx context.Context, c *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c.CreatedAt = time.Now()
	r.store.conversations[c.Id] = c
	return nil
}

func (r *fakeConversationRepo) Update(ctx context.Context, c *entity.Conversation) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.conversations[c.Id] = c
	return nil
}

func (r *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.conversations, id)
	return nil
}

func (r *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := wantedID(specs); ok {
		return r.store.conversations[id], nil
	}
	for _, c := range r.store.conversations {
		return c, nil
	}
	return nil, nil
}

// wantedID extracts a ByID filter if the caller passed one.
func wantedID(specs []specification.Specification) (uuid.UUID, bool) {
	for _, s := range specs {
		if byID, ok := s.(specification.ByID); ok {
			return byID.ID, true
		}
	}
	return uuid.Nil, false
}

func (r *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.Conversation, 0, len(r.store.conversations))
	for _, c := range r.store.conversations {
		out = append(out, c)
	}
	return out, nil
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, m *entity.ConversationMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.messageCreateErr != nil {
		return r.store.messageCreateErr
	}
	m.CreatedAt = time.Now()
	r.store.messages = append(r.store.messages, m)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.ConversationMessage, len(r.store.messages))
	copy(out, r.store.messages)
	return out, nil
}

func (r *fakeMessageRepo) LatestByUser(ctx context.Context, userID uuid.UUID, role string) (*entity.ConversationMessage, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := len(r.store.messages) - 1; i >= 0; i-- {
		if r.store.messages[i].Role == role {
			return r.store.messages[i], nil
		}
	}
	return nil, nil
}

func (r *fakeMessageRepo) DeleteAllByConversationId(ctx context.Context, conversationID uuid.UUID) error {
	return nil
}

// fakeInterventionRepo mirrors the partial unique index behavior: the
// insert is refused while an unacknowledged row exists for the user.
type fakeInterventionRepo struct{ store *fakeStore }

func (r *fakeInterventionRepo) CreateIfNoneOpen(ctx context.Context, intervention *entity.Intervention) (bool, *entity.Intervention, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.interventions {
		if existing.UserId == intervention.UserId && !existing.WasAcknowledged {
			return false, existing, nil
		}
	}
	intervention.CreatedAt = time.Now()
	r.store.interventions[intervention.Id] = intervention
	return true, intervention, nil
}

func (r *fakeInterventionRepo) Acknowledge(ctx context.Context, id uuid.UUID, actionTaken *string, wasHelpful *bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	i, ok := r.store.interventions[id]
	if !ok || i.WasAcknowledged {
		return nil
	}
	now := time.Now()
	i.WasAcknowledged = true
	i.AcknowledgedAt = &now
	i.ActionTaken = actionTaken
	i.WasHelpful = wasHelpful
	return nil
}

func (r *fakeInterventionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Intervention, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if id, ok := wantedID(specs); ok {
		return r.store.interventions[id], nil
	}
	for _, i := range r.store.interventions {
		return i, nil
	}
	return nil, nil
}

func (r *fakeInterventionRepo) FindOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.Intervention, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, i := range r.store.interventions {
		if i.UserId == userID && !i.WasAcknowledged {
			return i, nil
		}
	}
	return nil, nil
}

type fakeObservabilityRepo struct{ store *fakeStore }

func (r *fakeObservabilityRepo) Create(ctx context.Context, log *entity.ObservabilityLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.obsLogs = append(r.store.obsLogs, log)
	return nil
}

type fakeWellnessRepo struct{ store *fakeStore }

func (r *fakeWellnessRepo) LatestCheckIn(ctx context.Context, userID uuid.UUID) (*entity.CheckIn, error) {
	if r.store.wellnessErr != nil {
		return nil, r.store.wellnessErr
	}
	return r.store.latestCheckIn, nil
}

func (r *fakeWellnessRepo) LatestJournalEntry(ctx context.Context, userID uuid.UUID) (*entity.JournalEntry, error) {
	return r.store.latestJournal, nil
}

func (r *fakeWellnessRepo) RecentCheckIns(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*entity.CheckIn, error) {
	return nil, nil
}

func (r *fakeWellnessRepo) RecentJournalEntries(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]*entity.JournalEntry, error) {
	return nil, nil
}

func (r *fakeWellnessRepo) RecentMoodScores(ctx context.Context, userID uuid.UUID, since time.Time, limit int) ([]float64, error) {
	return r.store.moodScores, nil
}

func (r *fakeWellnessRepo) UrgeStats(ctx context.Context, userID uuid.UUID, since time.Time) (float64, int, error) {
	return r.store.avgUrge, r.store.urgeCount, nil
}

func (r *fakeWellnessRepo) BiometricStats(ctx context.Context, userID uuid.UUID, since time.Time) (float64, float64, int, error) {
	return r.store.avgStress, r.store.avgSleep, r.store.bioCount, nil
}

func (r *fakeWellnessRepo) Profile(ctx context.Context, userID uuid.UUID) (*entity.RecoveryProfile, error) {
	return r.store.profile, nil
}

func (r *fakeWellnessRepo) CreateCheckIn(ctx context.Context, checkIn *entity.CheckIn) error {
	r.store.latestCheckIn = checkIn
	return nil
}

func (r *fakeWellnessRepo) CreateUrgeLog(ctx context.Context, urge *entity.UrgeLog) error {
	return nil
}

// Snapshot fixture helpers.

func checkInAt(t time.Time) *entity.CheckIn {
	return &entity.CheckIn{Id: uuid.New(), MoodRating: 7, CreatedAt: t}
}

func journalAt(t time.Time) *entity.JournalEntry {
	return &entity.JournalEntry{Id: uuid.New(), Content: "doing okay", MoodScore: 7, CreatedAt: t}
}

func userMessageAt(t time.Time) *entity.ConversationMessage {
	return &entity.ConversationMessage{Id: uuid.New(), Role: "user", Content: "hi", CreatedAt: t}
}

// nopLogger satisfies logger.ILogger without output.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type allowAllDebouncer struct{}

func (allowAllDebouncer) Acquire(ctx context.Context, key string) (bool, error) { return true, nil }

type denyDebouncer struct{}

func (denyDebouncer) Acquire(ctx context.Context, key string) (bool, error) { return false, nil }

type capturingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *capturingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type nopObservability struct{}

func (nopObservability) LogInvocation(ctx context.Context, log *entity.ObservabilityLog) {}

type capturingObservability struct {
	mu   sync.Mutex
	logs []*entity.ObservabilityLog
}

func (o *capturingObservability) LogInvocation(ctx context.Context, log *entity.ObservabilityLog) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logs = append(o.logs, log)
}
