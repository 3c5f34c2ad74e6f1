package controller

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"lead-inbox-be/internal/dto"
	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/pkg/apperrors"
	"lead-inbox-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubIngestService struct {
	err  error
	last *entity.InboundMessage
}

func (s *stubIngestService) ProcessInboundMessage(_ context.Context, msg *entity.InboundMessage) (*dto.ProcessResult, error) {
	s.last = msg
	if s.err != nil {
		return nil, s.err
	}
	return &dto.ProcessResult{Success: true}, nil
}

func (s *stubIngestService) DryRun(_ context.Context, msg *entity.InboundMessage) (*dto.ProcessResult, error) {
	return s.ProcessInboundMessage(context.Background(), msg)
}

type silentLogger struct{}

func (silentLogger) Debug(string, string, map[string]interface{}) {}
func (silentLogger) Info(string, string, map[string]interface{})  {}
func (silentLogger) Warn(string, string, map[string]interface{})  {}
func (silentLogger) Error(string, string, map[string]interface{}) {}
func (silentLogger) Sync() error                                  { return nil }

func newWebhookApp(svc *stubIngestService, signingKey string) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewWebhookController(svc, silentLogger{}, signingKey).RegisterRoutes(app.Group("/api"))
	return app
}

func postForm(app *fiber.App, form url.Values) int {
	req := httptest.NewRequest("POST", "/api/webhook/v1/inbound", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, _ := app.Test(req)
	return resp.StatusCode
}

func TestInboundAcceptsUnsignedWhenNoKey(t *testing.T) {
	svc := &stubIngestService{}
	app := newWebhookApp(svc, "")

	form := url.Values{}
	form.Set("sender", "Guy@Acme.io")
	form.Set("from", "Guy Operator <guy@acme.io>")
	form.Set("subject", "hello")
	form.Set("body-plain", "hi")
	form.Set("To", "agnes@caruso.com")
	form.Set("message-headers", `[["To","agnes@caruso.com"]]`)

	assert.Equal(t, fiber.StatusOK, postForm(app, form))
	assert.Equal(t, "guy@acme.io", svc.last.Sender)
	assert.Equal(t, "Guy Operator", svc.last.SenderName)
	assert.Equal(t, "agnes@caruso.com", svc.last.To)
	assert.Equal(t, `[["To","agnes@caruso.com"]]`, svc.last.MessageHeaders)
}

func TestInboundRejectsBadSignature(t *testing.T) {
	svc := &stubIngestService{}
	app := newWebhookApp(svc, "secret")

	form := url.Values{}
	form.Set("timestamp", "123")
	form.Set("token", "tok")
	form.Set("signature", "deadbeef")
	form.Set("sender", "guy@acme.io")

	assert.Equal(t, fiber.StatusUnauthorized, postForm(app, form))
	assert.Nil(t, svc.last)
}

func TestInboundAcceptsValidSignature(t *testing.T) {
	svc := &stubIngestService{}
	app := newWebhookApp(svc, "secret")

	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("123tok"))

	form := url.Values{}
	form.Set("timestamp", "123")
	form.Set("token", "tok")
	form.Set("signature", hex.EncodeToString(mac.Sum(nil)))
	form.Set("sender", "guy@acme.io")

	assert.Equal(t, fiber.StatusOK, postForm(app, form))
	assert.NotNil(t, svc.last)
}

func TestInboundTransientFailureAsksForRetry(t *testing.T) {
	svc := &stubIngestService{err: apperrors.Transient(errors.New("rowstore down"))}
	app := newWebhookApp(svc, "")

	form := url.Values{}
	form.Set("sender", "guy@acme.io")

	assert.Equal(t, fiber.StatusInternalServerError, postForm(app, form))
}

func TestInboundPermanentFailureIsSwallowed(t *testing.T) {
	svc := &stubIngestService{err: errors.New("malformed beyond repair")}
	app := newWebhookApp(svc, "")

	form := url.Values{}
	form.Set("sender", "guy@acme.io")

	assert.Equal(t, fiber.StatusOK, postForm(app, form))
}
