package controller

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"lead-inbox-be/internal/dto"
	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/pkg/apperrors"
	"lead-inbox-be/internal/pkg/logger"
	"lead-inbox-be/internal/pkg/serverutils"
	"lead-inbox-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWebhookController interface {
	RegisterRoutes(r fiber.Router)
	Inbound(ctx *fiber.Ctx) error
}

type webhookController struct {
	ingestService service.IIngestService
	logger        logger.ILogger
	signingKey    string
}

func NewWebhookController(ingestService service.IIngestService, log logger.ILogger, signingKey string) IWebhookController {
	return &webhookController{
		ingestService: ingestService,
		logger:        log,
		signingKey:    signingKey,
	}
}

func (c *webhookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/webhook/v1")
	h.Post("inbound", c.Inbound)
}

// Inbound accepts one relay payload, urlencoded or multipart. Permanent
// failures still answer 200 so the relay never retries them; only transient
// errors surface as 500.
func (c *webhookController) Inbound(ctx *fiber.Ctx) error {
	var req dto.InboundWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse("invalid body"))
	}

	if !c.verifySignature(req.Timestamp, req.Token, req.Signature) {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("invalid signature"))
	}

	sender := req.Sender
	if sender == "" {
		if _, email := parseFromHeader(req.From); email != "" {
			sender = email
		}
	}
	senderName, _ := parseFromHeader(req.From)

	msg := &entity.InboundMessage{
		Sender:         strings.ToLower(strings.TrimSpace(sender)),
		SenderName:     senderName,
		Subject:        req.Subject,
		BodyPlain:      req.BodyPlain,
		BodyHTML:       req.BodyHTML,
		StrippedText:   req.StrippedText,
		Recipient:      req.Recipient,
		To:             req.To,
		Cc:             req.Cc,
		MessageHeaders: req.MessageHeaders,
		Timestamp:      req.Timestamp,
	}

	res, err := c.ingestService.ProcessInboundMessage(ctx.Context(), msg)
	if err != nil {
		if apperrors.IsTransient(err) {
			c.logger.Error("WebhookController", "Transient failure, asking relay to retry", map[string]interface{}{"error": err.Error()})
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse("temporary failure"))
		}
		// Permanent failures are settled: retrying the same payload can
		// never succeed.
		c.logger.Error("WebhookController", "Permanent failure, payload dropped", map[string]interface{}{"error": err.Error()})
		return ctx.JSON(serverutils.SuccessResponse("accepted", nil))
	}
	return ctx.JSON(serverutils.SuccessResponse("processed", res))
}

// verifySignature checks the relay's HMAC-SHA256 over timestamp+token. With
// no key configured verification is skipped.
func (c *webhookController) verifySignature(timestamp, token, signature string) bool {
	if c.signingKey == "" {
		return true
	}
	mac := hmac.New(sha256.New, []byte(c.signingKey))
	mac.Write([]byte(timestamp + token))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

// parseFromHeader splits `Name <email>` without pulling the mail package
// into the controller.
func parseFromHeader(from string) (name, email string) {
	from = strings.TrimSpace(from)
	if i := strings.LastIndex(from, "<"); i >= 0 {
		name = strings.Trim(strings.TrimSpace(from[:i]), `"`)
		email = strings.Trim(from[i:], "<> ")
		return name, strings.ToLower(email)
	}
	if strings.Contains(from, "@") {
		return "", strings.ToLower(from)
	}
	return from, ""
}
