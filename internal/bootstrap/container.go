package bootstrap

import (
	"time"

	"lead-inbox-be/internal/config"
	"lead-inbox-be/internal/controller"
	"lead-inbox-be/internal/pkg/locker"
	"lead-inbox-be/internal/pkg/logger"
	"lead-inbox-be/internal/pkg/mailer"
	"lead-inbox-be/internal/repository/contract"
	"lead-inbox-be/internal/repository/implementation"
	"lead-inbox-be/internal/repository/memory"
	"lead-inbox-be/internal/service"
	"lead-inbox-be/pkg/rowstore"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	WebhookController controller.IWebhookController
	DebugController   controller.IDebugController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger
}

// NewContainer wires the object graph. db may be nil; audit rows and
// transcript state are then kept out of scope and only the row store is
// written.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	notifierService := mailer.NewNotifierService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Repositories
	rowClient := rowstore.NewClient(cfg.Rowstore.BaseURL, cfg.Rowstore.ApiKey)
	tenantDirectory := memory.NewCachedTenantDirectory(
		implementation.NewTenantDirectory(rowClient, cfg.Rowstore.RegistryBaseId),
		time.Duration(cfg.Rowstore.CacheTTLMins)*time.Minute,
	)
	leadRepository := implementation.NewLeadRepository(rowClient)

	var auditRepository contract.AuditRepository
	var transcriptRepository contract.TranscriptRepository
	if db != nil {
		auditRepository = implementation.NewAuditRepository(db)
		transcriptRepository = implementation.NewTranscriptRepository(db)
	}

	// 4. Services
	publisherService := service.NewPublisherService(cfg.App.AuditTopicName, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.AuditTopicName,
		auditRepository,
		sysLogger,
	)

	resolverService := service.NewResolverService(leadRepository)
	ingestService := service.NewIngestService(
		tenantDirectory,
		leadRepository,
		transcriptRepository,
		resolverService,
		notifierService,
		publisherService,
		locker.NewLeadLocker(),
		sysLogger,
		cfg.Webhook.TrackingMailbox,
	)

	// 5. Controllers
	webhookController := controller.NewWebhookController(ingestService, sysLogger, cfg.Webhook.SigningKey)
	debugController := controller.NewDebugController(
		ingestService,
		tenantDirectory,
		notifierService,
		controller.DebugDeps{
			RowstoreConfigured: cfg.Rowstore.ApiKey != "" && cfg.Rowstore.RegistryBaseId != "",
			MailerConfigured:   cfg.SMTP.Host != "",
			DatabaseConfigured: db != nil,
		},
		cfg.Debug.Key,
	)

	return &Container{
		WebhookController: webhookController,
		DebugController:   debugController,
		ConsumerService:   consumerService,
		Logger:            sysLogger,
	}
}
