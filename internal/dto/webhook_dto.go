package dto

import "lead-inbox-be/internal/entity"

// InboundWebhookRequest mirrors the form fields the mail relay posts on
// every inbound message. Field names follow the relay's convention.
type InboundWebhookRequest struct {
	Recipient      string `form:"recipient"`
	Sender         string `form:"sender"`
	From           string `form:"from"`
	Subject        string `form:"subject"`
	BodyPlain      string `form:"body-plain"`
	BodyHTML       string `form:"body-html"`
	StrippedText   string `form:"stripped-text"`
	To             string `form:"To"`
	Cc             string `form:"Cc"`
	MessageHeaders string `form:"message-headers"`
	Timestamp      string `form:"timestamp"`
	Token          string `form:"token"`
	Signature      string `form:"signature"`
}

type LeadResult struct {
	Email   string             `json:"email"`
	Outcome entity.LeadOutcome `json:"outcome"`
	Detail  string             `json:"detail,omitempty"`
}

// ProcessResult aggregates what happened to every recipient of one
// inbound message.
type ProcessResult struct {
	Success       bool         `json:"success"`
	Kind          string       `json:"kind"`
	LeadsUpdated  int          `json:"leads_updated"`
	LeadsNotFound []string     `json:"leads_not_found,omitempty"`
	Leads         []LeadResult `json:"leads,omitempty"`
	Ignored       bool         `json:"ignored"`
	IgnoreReason  string       `json:"ignore_reason,omitempty"`
}
