package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"recovery-coach-be/pkg/events"
	pktNats "recovery-coach-be/pkg/nats"
)

// EventInterventionTriggered is the NATS event type for a freshly opened
// intervention; the notification service consumes it.
const EventInterventionTriggered = "INTERVENTION_TRIGGERED"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService bridges the in-process bus to NATS: intervention events
// published by the risk engine are relayed to the notification stream
// without the evaluation path ever blocking on the broker.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	natsPub   *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		natsPub:   natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload InterventionTriggeredMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal intervention message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if cs.natsPub == nil {
		// NATS was unreachable at startup; drop rather than retry.
		log.Printf("[WARN] No NATS publisher, dropping intervention event %s", payload.InterventionId)
		msg.Ack()
		return
	}

	event := events.BaseEvent{
		Type: EventInterventionTriggered,
		Data: map[string]interface{}{
			"intervention_id":   payload.InterventionId.String(),
			"user_id":           payload.UserId.String(),
			"trigger_type":      payload.TriggerType,
			"risk_score":        payload.RiskScore,
			"message":           payload.Message,
			"suggested_actions": payload.SuggestedActions,
		},
		OccurredAt: time.Now(),
	}

	if err := cs.natsPub.Publish(ctx, event); err != nil {
		log.Printf("[ERROR] Failed to relay intervention event %s to NATS: %v", payload.InterventionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
