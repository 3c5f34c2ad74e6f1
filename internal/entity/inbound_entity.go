package entity

// PayloadKind classifies one inbound webhook payload.
type PayloadKind string

const (
	PayloadDirectBcc        PayloadKind = "direct"
	PayloadForwardedBcc     PayloadKind = "forward"
	PayloadForwardedMeeting PayloadKind = "meeting"
)

// RecipientSource says where a candidate recipient was found.
type RecipientSource string

const (
	SourceTo            RecipientSource = "to"
	SourceCc            RecipientSource = "cc"
	SourceForwardedTo   RecipientSource = "forwarded-to"
	SourceForwardedCc   RecipientSource = "forwarded-cc"
	SourceForwardedFrom RecipientSource = "forwarded-from"
)

// Recipient is one address that may resolve to a lead.
type Recipient struct {
	Email  string
	Name   string
	Source RecipientSource
}

// InboundMessage is the normalized form of a webhook payload, the
// controller's sole input into the ingestion engine.
type InboundMessage struct {
	Sender       string // envelope sender (lowercased email)
	SenderName   string
	Subject      string
	BodyPlain    string
	BodyHTML     string
	StrippedText string
	Recipient    string // the tracking mailbox the payload arrived on
	To           string
	Cc           string
	// MessageHeaders is the relay's raw [name, value] header array.
	MessageHeaders string
	Timestamp      string
}

// LeadOutcome is the terminal state of one lead within one payload.
type LeadOutcome string

const (
	OutcomeWritten          LeadOutcome = "written"
	OutcomeSkippedDuplicate LeadOutcome = "skipped-duplicate"
	OutcomeNotFound         LeadOutcome = "not-found"
	OutcomeAmbiguous        LeadOutcome = "ambiguous"
	OutcomeError            LeadOutcome = "error"
)
