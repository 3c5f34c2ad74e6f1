package service

import (
	"context"
	"encoding/json"

	"lead-inbox-be/internal/dto"
	"lead-inbox-be/internal/model"
	"lead-inbox-be/internal/pkg/logger"
	"lead-inbox-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub          *gochannel.GoChannel
	topicName       string
	auditRepository contract.AuditRepository
	logger          logger.ILogger
}

// NewConsumerService drains the audit topic in the background. The
// repository may be nil when no operational database is configured; records
// are then only logged.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	auditRepository contract.AuditRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:          pubSub,
		topicName:       topicName,
		auditRepository: auditRepository,
		logger:          log,
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
	var payload dto.AuditEventMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal audit message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}
	rec := payload.Record
	if rec == nil {
		msg.Ack()
		return
	}

	fields := map[string]interface{}{
		"tenant_id":    payload.TenantId,
		"lead_id":      rec.LeadID,
		"source":       rec.Source,
		"before_len":   rec.BeforeLen,
		"after_len":    rec.AfterLen,
		"email_blocks": rec.EmailBlockCountAfter,
	}
	if rec.ContentLoss {
		cs.logger.Warn("ConsumerService", "Notes write shrank the email section", fields)
	} else {
		cs.logger.Info("ConsumerService", "Notes write recorded", fields)
	}

	if cs.auditRepository != nil {
		row := &model.AuditRecord{
			Id:                    uuid.New(),
			TenantId:              payload.TenantId,
			LeadId:                rec.LeadID,
			Source:                rec.Source,
			BeforeLen:             rec.BeforeLen,
			AfterLen:              rec.AfterLen,
			EmailSectionBefore:    rec.EmailSectionBefore,
			EmailSectionAfter:     rec.EmailSectionAfter,
			EmailBlockCountBefore: rec.EmailBlockCountBefore,
			EmailBlockCountAfter:  rec.EmailBlockCountAfter,
			ContentLoss:           rec.ContentLoss,
		}
		if err := cs.auditRepository.Create(ctx, row); err != nil {
			cs.logger.Error("ConsumerService", "Failed to persist audit record", map[string]interface{}{"error": err.Error()})
		}
	}

	msg.Ack()
}
