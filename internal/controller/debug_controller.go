package controller

import (
	"lead-inbox-be/internal/dto"
	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/pkg/mailer"
	"lead-inbox-be/internal/pkg/serverutils"
	"lead-inbox-be/internal/repository/contract"
	"lead-inbox-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDebugController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	DryRun(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
	TestNotice(ctx *fiber.Ctx) error
}

// DebugDeps carries the health probes the debug surface reports on.
type DebugDeps struct {
	RowstoreConfigured bool
	MailerConfigured   bool
	DatabaseConfigured bool
}

type debugController struct {
	ingestService   service.IIngestService
	tenantDirectory contract.TenantDirectory
	notifier        mailer.INotifierService
	deps            DebugDeps
	debugKey        string
}

func NewDebugController(
	ingestService service.IIngestService,
	tenantDirectory contract.TenantDirectory,
	notifier mailer.INotifierService,
	deps DebugDeps,
	debugKey string,
) IDebugController {
	return &debugController{
		ingestService:   ingestService,
		tenantDirectory: tenantDirectory,
		notifier:        notifier,
		deps:            deps,
		debugKey:        debugKey,
	}
}

func (c *debugController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/debug/v1")
	h.Use(serverutils.DebugKeyMiddleware(c.debugKey))
	h.Get("health", c.Health)
	h.Post("dry-run", c.DryRun)
	h.Post("cache/clear", c.ClearCache)
	h.Post("notice/test", c.TestNotice)
}

func (c *debugController) Health(ctx *fiber.Ctx) error {
	status := "healthy"
	if !c.deps.RowstoreConfigured || !c.deps.MailerConfigured {
		status = "degraded"
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", &dto.HealthResponse{
		Status:   status,
		Rowstore: c.deps.RowstoreConfigured,
		Mailer:   c.deps.MailerConfigured,
		Database: c.deps.DatabaseConfigured,
	}))
}

// DryRun classifies and resolves a synthetic payload without touching any
// lead, for verifying routing before pointing the relay at an account.
func (c *debugController) DryRun(ctx *fiber.Ctx) error {
	var req dto.DryRunRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(err.Error()))
	}

	res, err := c.ingestService.DryRun(ctx.Context(), &entity.InboundMessage{
		Sender:    req.TenantEmail,
		Subject:   req.Subject,
		BodyPlain: req.BodyPlain,
		BodyHTML:  req.BodyHTML,
		To:        req.To,
		Cc:        req.Cc,
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(err.Error()))
	}

	var recipients []string
	for _, lead := range res.Leads {
		recipients = append(recipients, lead.Email)
	}
	return ctx.JSON(serverutils.SuccessResponse("dry run complete", &dto.DryRunResponse{
		Kind:       res.Kind,
		Recipients: recipients,
		Leads:      res.Leads,
	}))
}

func (c *debugController) ClearCache(ctx *fiber.Ctx) error {
	c.tenantDirectory.Invalidate()
	return ctx.JSON(serverutils.SuccessResponse("tenant cache cleared", nil))
}

// TestNotice sends a sample lead-not-found notice to the caller's address so
// the SMTP path can be verified end to end.
func (c *debugController) TestNotice(ctx *fiber.Ctx) error {
	to := ctx.Query("to")
	if to == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("missing to query param"))
	}
	ref, err := c.notifier.SendLeadNotFound(to, "sample@example.com")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("notice sent", &dto.TestNoticeResponse{RefCode: ref}))
}
