package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"recovery-coach-be/internal/constant"
	"recovery-coach-be/internal/dto"
	"recovery-coach-be/internal/entity"
	"recovery-coach-be/internal/pkg/logger"
	"recovery-coach-be/internal/repository/specification"
	"recovery-coach-be/internal/repository/unitofwork"
	"recovery-coach-be/pkg/risk"
)

type IRiskService interface {
	CheckRisk(ctx context.Context, userId uuid.UUID) (*dto.RiskCheckResponse, error)
	AcknowledgeIntervention(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.AcknowledgeInterventionRequest) (*dto.InterventionResponse, error)
}

// InterventionTriggeredMessage is the payload handed to the event bus when
// the risk engine opens an intervention.
type InterventionTriggeredMessage struct {
	InterventionId   uuid.UUID `json:"intervention_id"`
	UserId           uuid.UUID `json:"user_id"`
	TriggerType      string    `json:"trigger_type"`
	RiskScore        float64   `json:"risk_score"`
	Message          string    `json:"message"`
	SuggestedActions []string  `json:"suggested_actions"`
}

type riskService struct {
	uowFactory    unitofwork.RepositoryFactory
	cfg           risk.Config
	collector     *risk.Collector
	generator     *risk.Generator
	debouncer     Debouncer
	publisher     IPublisherService
	observability IObservabilityService
	sysLogger     logger.ILogger
}

func NewRiskService(
	uowFactory unitofwork.RepositoryFactory,
	cfg risk.Config,
	collector *risk.Collector,
	generator *risk.Generator,
	debouncer Debouncer,
	publisher IPublisherService,
	observability IObservabilityService,
	sysLogger logger.ILogger,
) IRiskService {
	return &riskService{
		uowFactory:    uowFactory,
		cfg:           cfg,
		collector:     collector,
		generator:     generator,
		debouncer:     debouncer,
		publisher:     publisher,
		observability: observability,
		sysLogger:     sysLogger,
	}
}

// CheckRisk runs one evaluation cycle for the user. Repeated calls inside
// the debounce interval return the user's open intervention (if any)
// without re-evaluating; repeated calls outside it are idempotent anyway
// because the one-open constraint refuses a second insert.
func (s *riskService) CheckRisk(ctx context.Context, userId uuid.UUID) (res *dto.RiskCheckResponse, err error) {
	started := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Failed evaluations are logged with the error detail; callers only
	// ever see the reduced envelope.
	defer func() {
		if err == nil {
			return
		}
		detail := err.Error()
		s.observability.LogInvocation(ctx, &entity.ObservabilityLog{
			UserId:         userId,
			FunctionName:   constant.FuncRiskEvaluation,
			ResponseTimeMs: time.Since(started).Milliseconds(),
			ErrorMessage:   &detail,
		})
	}()

	won, err := s.debouncer.Acquire(ctx, userId.String())
	if err != nil {
		s.sysLogger.Warn("risk", "debouncer unavailable, evaluating anyway", map[string]interface{}{
			"error": err.Error(),
		})
		won = true
	}
	if !won {
		open, err := uow.InterventionRepository().FindOpenByUser(ctx, userId)
		if err != nil {
			return nil, err
		}
		res = &dto.RiskCheckResponse{Debounced: true}
		if open != nil {
			res.Intervention = interventionToDTO(open)
			res.RiskScore = open.RiskScore
			res.NeedsIntervention = true
		}
		return res, nil
	}

	snapshot, err := s.loadSnapshot(ctx, uow, userId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	signals := s.collector.Collect(*snapshot, now)
	score := risk.Score(signals)
	needed := risk.NeedsIntervention(score, signals, s.cfg.InterventionThreshold)

	res = &dto.RiskCheckResponse{
		RiskScore:         score,
		NeedsIntervention: needed,
		Signals:           signalsToDTO(signals),
	}

	var intervention *entity.Intervention
	var created bool
	if needed {
		intervention, created, err = s.openIntervention(ctx, uow, userId, signals, score)
		if err != nil {
			return nil, err
		}
		if intervention != nil {
			res.Intervention = interventionToDTO(intervention)
		}
	}

	s.observability.LogInvocation(ctx, &entity.ObservabilityLog{
		UserId:                userId,
		FunctionName:          constant.FuncRiskEvaluation,
		InputSummary:          summarizeSignals(signals),
		ResponseSummary:       summarizeOutcome(score, needed, created),
		ResponseTimeMs:        time.Since(started).Milliseconds(),
		InterventionTriggered: created,
		InterventionType:      triggerTypeOf(intervention),
	})

	return res, nil
}

// openIntervention generates the message and atomically inserts it. When
// another run already holds the open slot, the existing intervention is
// returned and no event is published.
func (s *riskService) openIntervention(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	userId uuid.UUID,
	signals []risk.Signal,
	score float64,
) (*entity.Intervention, bool, error) {
	// Short-circuit before paying for generation.
	open, err := uow.InterventionRepository().FindOpenByUser(ctx, userId)
	if err != nil {
		return nil, false, err
	}
	if open != nil {
		return open, false, nil
	}

	draft, err := s.generator.Generate(ctx, signals, score)
	if err != nil {
		return nil, false, err
	}

	intervention := &entity.Intervention{
		Id:               uuid.New(),
		UserId:           userId,
		TriggerType:      draft.TriggerType,
		RiskScore:        draft.RiskScore,
		Message:          draft.Message,
		SuggestedActions: draft.SuggestedActions,
	}
	created, existing, err := uow.InterventionRepository().CreateIfNoneOpen(ctx, intervention)
	if err != nil {
		return nil, false, err
	}
	if !created {
		return existing, false, nil
	}

	s.publishTriggered(ctx, intervention)
	return intervention, true, nil
}

// publishTriggered hands the intervention to the notification pipeline.
// Fire and forget: a bus failure never fails the evaluation.
func (s *riskService) publishTriggered(ctx context.Context, intervention *entity.Intervention) {
	payload, err := json.Marshal(InterventionTriggeredMessage{
		InterventionId:   intervention.Id,
		UserId:           intervention.UserId,
		TriggerType:      intervention.TriggerType,
		RiskScore:        intervention.RiskScore,
		Message:          intervention.Message,
		SuggestedActions: intervention.SuggestedActions,
	})
	if err != nil {
		s.sysLogger.Error("risk", "failed to marshal intervention event", map[string]interface{}{
			"intervention_id": intervention.Id.String(),
			"error":           err.Error(),
		})
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.sysLogger.Warn("risk", "failed to publish intervention event", map[string]interface{}{
			"intervention_id": intervention.Id.String(),
			"error":           err.Error(),
		})
	}
}

func (s *riskService) loadSnapshot(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*risk.Snapshot, error) {
	wellness := uow.WellnessRepository()
	now := time.Now()
	activitySince := now.Add(-s.cfg.ActivityLookback)
	moodSince := now.Add(-s.cfg.MoodTrendLookback)

	snap := &risk.Snapshot{}

	if checkIn, err := wellness.LatestCheckIn(ctx, userId); err != nil {
		return nil, err
	} else if checkIn != nil {
		t := checkIn.CreatedAt
		snap.LastCheckIn = &t
	}

	if journal, err := wellness.LatestJournalEntry(ctx, userId); err != nil {
		return nil, err
	} else if journal != nil {
		t := journal.CreatedAt
		snap.LastJournal = &t
	}

	if lastChat, err := uow.ConversationMessageRepository().LatestByUser(ctx, userId, constant.MessageRoleUser); err != nil {
		return nil, err
	} else if lastChat != nil {
		t := lastChat.CreatedAt
		snap.LastChat = &t
	}

	moods, err := wellness.RecentMoodScores(ctx, userId, moodSince, s.cfg.MoodTrendSamples)
	if err != nil {
		return nil, err
	}
	snap.RecentMoodScores = moods

	avgUrge, urgeCount, err := wellness.UrgeStats(ctx, userId, activitySince)
	if err != nil {
		return nil, err
	}
	snap.AvgUrgeIntensity = avgUrge
	snap.UrgeSamples = urgeCount

	avgStress, avgSleep, bioCount, err := wellness.BiometricStats(ctx, userId, activitySince)
	if err != nil {
		return nil, err
	}
	snap.AvgStressLevel = avgStress
	snap.AvgSleepHours = avgSleep
	snap.BiometricSamples = bioCount

	if profile, err := wellness.Profile(ctx, userId); err != nil {
		return nil, err
	} else if profile != nil {
		snap.SobrietyDate = profile.SobrietyDate
	}

	return snap, nil
}

func (s *riskService) AcknowledgeIntervention(ctx context.Context, userId uuid.UUID, id uuid.UUID, req *dto.AcknowledgeInterventionRequest) (*dto.InterventionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.InterventionRepository()

	intervention, err := repo.FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserID{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if intervention == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "intervention not found")
	}

	if !intervention.WasAcknowledged {
		if err := repo.Acknowledge(ctx, id, req.ActionTaken, req.WasHelpful); err != nil {
			return nil, err
		}
		intervention, err = repo.FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
	}

	return interventionToDTO(intervention), nil
}

func interventionToDTO(i *entity.Intervention) *dto.InterventionResponse {
	if i == nil {
		return nil
	}
	return &dto.InterventionResponse{
		Id:               i.Id,
		TriggerType:      i.TriggerType,
		RiskScore:        i.RiskScore,
		Message:          i.Message,
		SuggestedActions: i.SuggestedActions,
		WasAcknowledged:  i.WasAcknowledged,
		CreatedAt:        i.CreatedAt,
	}
}

func signalsToDTO(signals []risk.Signal) []dto.RiskSignalResponse {
	out := make([]dto.RiskSignalResponse, 0, len(signals))
	for _, sig := range signals {
		out = append(out, dto.RiskSignalResponse{
			Type:        sig.Type,
			Severity:    string(sig.Severity),
			Description: sig.Description,
			Weight:      sig.Weight,
		})
	}
	return out
}

func summarizeSignals(signals []risk.Signal) string {
	if len(signals) == 0 {
		return "no signals"
	}
	out := ""
	for i, sig := range signals {
		if i > 0 {
			out += ", "
		}
		out += sig.Type
	}
	return out
}

func summarizeOutcome(score float64, needed, created bool) string {
	switch {
	case created:
		return "intervention created"
	case needed:
		return "intervention needed, open one already exists"
	default:
		return "below threshold"
	}
}

func triggerTypeOf(i *entity.Intervention) *string {
	if i == nil {
		return nil
	}
	t := i.TriggerType
	return &t
}
