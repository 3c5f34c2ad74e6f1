package service

import (
	"encoding/json"

	"lead-inbox-be/internal/dto"
	"lead-inbox-be/pkg/audit"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishAuditRecord(tenantId string, record *audit.Record) error
}

type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{pubSub: pubSub, topicName: topicName}
}

func (s *publisherService) PublishAuditRecord(tenantId string, record *audit.Record) error {
	payload, err := json.Marshal(&dto.AuditEventMessage{TenantId: tenantId, Record: record})
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	return s.pubSub.Publish(s.topicName, msg)
}
