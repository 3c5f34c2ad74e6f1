package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"lead-inbox-be/internal/dto"
	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/model"
	"lead-inbox-be/internal/pkg/apperrors"
	"lead-inbox-be/internal/pkg/locker"
	"lead-inbox-be/internal/pkg/logger"
	"lead-inbox-be/internal/pkg/mailer"
	"lead-inbox-be/internal/repository/contract"
	"lead-inbox-be/pkg/audit"
	"lead-inbox-be/pkg/convo"
	"lead-inbox-be/pkg/mailaddr"
	"lead-inbox-be/pkg/meeting"
	"lead-inbox-be/pkg/notes"
	"lead-inbox-be/pkg/thread"

	"github.com/google/uuid"
)

type IIngestService interface {
	// ProcessInboundMessage runs the full pipeline on one webhook payload.
	// The returned error is non-nil only for transient failures the relay
	// should retry; every permanent problem is settled internally.
	ProcessInboundMessage(ctx context.Context, msg *entity.InboundMessage) (*dto.ProcessResult, error)
	// DryRun classifies and resolves a payload without writing notes or
	// sending notices.
	DryRun(ctx context.Context, msg *entity.InboundMessage) (*dto.ProcessResult, error)
}

type ingestService struct {
	tenantDirectory      contract.TenantDirectory
	leadRepository       contract.LeadRepository
	transcriptRepository contract.TranscriptRepository
	resolver             IResolverService
	notifier             mailer.INotifierService
	publisher            IPublisherService
	locker               *locker.LeadLocker
	logger               logger.ILogger
	trackingMailbox      string
	followUpAfter        time.Duration
}

func NewIngestService(
	tenantDirectory contract.TenantDirectory,
	leadRepository contract.LeadRepository,
	transcriptRepository contract.TranscriptRepository,
	resolver IResolverService,
	notifier mailer.INotifierService,
	publisher IPublisherService,
	leadLocker *locker.LeadLocker,
	log logger.ILogger,
	trackingMailbox string,
) IIngestService {
	return &ingestService{
		tenantDirectory:      tenantDirectory,
		leadRepository:       leadRepository,
		transcriptRepository: transcriptRepository,
		resolver:             resolver,
		notifier:             notifier,
		publisher:            publisher,
		locker:               leadLocker,
		logger:               log,
		trackingMailbox:      strings.ToLower(trackingMailbox),
		followUpAfter:        14 * 24 * time.Hour,
	}
}

var (
	forwardMarkerRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)-+\s*Forwarded message\s*-+`),
		regexp.MustCompile(`(?i)-+\s*Original Message\s*-+`),
		regexp.MustCompile(`(?i)^Begin forwarded message:`),
	}
	fwdSubjectRe = regexp.MustCompile(`(?i)^\s*(?:fwd?|fw)\s*:\s*`)
	headerFromRe = regexp.MustCompile(`(?m)^\s*>?\s*\*?From:\*?\s*(.+)$`)
	headerToRe   = regexp.MustCompile(`(?m)^\s*>?\s*\*?To:\*?\s*(.+)$`)
	headerCcRe   = regexp.MustCompile(`(?m)^\s*>?\s*\*?Cc:\*?\s*(.+)$`)
	// An inline header block pasted without a marker line still signals a
	// forward when From, Subject and To appear together.
	embeddedBlockRe = regexp.MustCompile(`(?ms)^From:.*?^(?:Date|Sent):.*?^Subject:.*?^To:`)
)

const meetingRuler = "──────────────────────────────"

// stripSubjectPrefixes removes every stacked Fwd:/FW: prefix, not just the
// outermost one.
func stripSubjectPrefixes(subject string) string {
	for fwdSubjectRe.MatchString(subject) {
		subject = fwdSubjectRe.ReplaceAllString(subject, "")
	}
	return subject
}

func (s *ingestService) ProcessInboundMessage(ctx context.Context, msg *entity.InboundMessage) (*dto.ProcessResult, error) {
	return s.process(ctx, msg, false)
}

func (s *ingestService) DryRun(ctx context.Context, msg *entity.InboundMessage) (*dto.ProcessResult, error) {
	return s.process(ctx, msg, true)
}

func (s *ingestService) process(ctx context.Context, msg *entity.InboundMessage, dryRun bool) (*dto.ProcessResult, error) {
	sender := strings.ToLower(strings.TrimSpace(msg.Sender))

	// 1. The envelope sender must be a registered operator.
	tenant, err := s.resolveTenant(ctx, sender)
	if err != nil {
		if apperrors.IsTransient(err) {
			return nil, err
		}
		// A permanent registry failure (bad key, gone base) will fail the
		// same way on every retry; settle it.
		s.logger.Error("IngestService", "Tenant registry lookup failed", map[string]interface{}{"error": err.Error()})
		return &dto.ProcessResult{Ignored: true, IgnoreReason: "tenant registry failure"}, nil
	}
	if tenant == nil {
		s.logger.Warn("IngestService", "Payload from unknown sender", map[string]interface{}{"sender": sender})
		if !dryRun {
			if _, err := s.notifier.SendTenantNotFound(sender, sender); err != nil {
				s.logger.Error("IngestService", "Failed to send unknown-sender notice", map[string]interface{}{"error": err.Error()})
			}
		}
		return &dto.ProcessResult{Success: true, Ignored: true, IgnoreReason: "unknown sender"}, nil
	}

	// 2. Classify the payload.
	kind := classify(msg)
	result := &dto.ProcessResult{Success: true, Kind: string(kind)}

	now := s.tenantNow(tenant, msg.Timestamp)

	if kind == entity.PayloadForwardedMeeting {
		return s.processMeeting(ctx, tenant, msg, now, result, dryRun)
	}

	// 3. Collect candidate recipients.
	recipients := s.collectRecipients(tenant, msg, kind)
	if len(recipients) == 0 {
		result.Ignored = true
		result.IgnoreReason = "no external recipients"
		return result, nil
	}

	// 4. Resolve and write each recipient independently. One bad address
	// never blocks the rest.
	var notFound []string
	for _, rcpt := range recipients {
		outcome := s.processRecipient(ctx, tenant, msg, kind, rcpt, now, dryRun)
		result.Leads = append(result.Leads, outcome)
		switch outcome.Outcome {
		case entity.OutcomeWritten, entity.OutcomeSkippedDuplicate:
			result.LeadsUpdated++
		case entity.OutcomeNotFound, entity.OutcomeAmbiguous:
			notFound = append(notFound, rcpt.Email)
		}
	}
	result.LeadsNotFound = notFound

	// A single batched notice, and only when nothing at all matched.
	if !dryRun && result.LeadsUpdated == 0 && len(notFound) > 0 {
		if _, err := s.notifier.SendLeadsNotFound(tenant.PrimaryEmail, notFound); err != nil {
			s.logger.Error("IngestService", "Failed to send leads-not-found notice", map[string]interface{}{"error": err.Error()})
		}
	}
	return result, nil
}

func (s *ingestService) resolveTenant(ctx context.Context, sender string) (*entity.Tenant, error) {
	if sender == "" {
		return nil, nil
	}
	tenants, err := s.tenantDirectory.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range tenants {
		if t.OwnsEmail(sender) {
			return t, nil
		}
	}
	return nil, nil
}

// tenantNow anchors all date stamping in the tenant's timezone, preferring
// the relay's payload timestamp over the local clock.
func (s *ingestService) tenantNow(tenant *entity.Tenant, timestamp string) time.Time {
	now := time.Now()
	if ts, err := strconv.ParseInt(strings.TrimSpace(timestamp), 10, 64); err == nil && ts > 0 {
		now = time.Unix(ts, 0)
	}
	if tenant.IanaTimezone != "" {
		if loc, err := time.LoadLocation(tenant.IanaTimezone); err == nil {
			now = now.In(loc)
		}
	}
	return now
}

func classify(msg *entity.InboundMessage) entity.PayloadKind {
	origSender := msg.Sender
	body := bestBody(msg)
	if from := innermostFrom(body); from != "" {
		if _, email := mailaddr.Parse(from); email != "" {
			origSender = email
		}
	}
	subject := stripSubjectPrefixes(msg.Subject)
	if _, ok := meeting.Detect(origSender, subject, body); ok {
		return entity.PayloadForwardedMeeting
	}

	for _, re := range forwardMarkerRes {
		if re.MatchString(body) {
			return entity.PayloadForwardedBcc
		}
	}
	if fwdSubjectRe.MatchString(msg.Subject) || embeddedBlockRe.MatchString(body) {
		return entity.PayloadForwardedBcc
	}
	return entity.PayloadDirectBcc
}

func bestBody(msg *entity.InboundMessage) string {
	if strings.TrimSpace(msg.BodyPlain) != "" {
		return msg.BodyPlain
	}
	return msg.StrippedText
}

// innermostFrom returns the last embedded From: header, the original author
// at the bottom of a forward chain.
func innermostFrom(body string) string {
	matches := headerFromRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}

// collectRecipients gathers every address the payload names, from the relay
// fields, the raw header array and any forwarded header blocks, keeping the
// ones that can belong to a lead.
func (s *ingestService) collectRecipients(tenant *entity.Tenant, msg *entity.InboundMessage, kind entity.PayloadKind) []entity.Recipient {
	var out []entity.Recipient
	seen := map[string]bool{}

	add := func(name, email string, source entity.RecipientSource) {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" || seen[email] {
			return
		}
		if email == s.trackingMailbox || tenant.OwnsEmail(email) {
			return
		}
		seen[email] = true
		out = append(out, entity.Recipient{Email: email, Name: name, Source: source})
	}
	addList := func(raw string, source entity.RecipientSource) {
		for _, addr := range mailaddr.ParseList(raw) {
			add(addr.Name, addr.Address, source)
		}
	}

	addList(msg.To, entity.SourceTo)
	addList(msg.Cc, entity.SourceCc)

	// The relay's To/Cc form fields are sometimes empty while the raw
	// header array still carries them.
	if hdrTo, hdrCc := headerAddressLines(msg.MessageHeaders); hdrTo != "" || hdrCc != "" {
		addList(hdrTo, entity.SourceTo)
		addList(hdrCc, entity.SourceCc)
	}

	if kind == entity.PayloadForwardedBcc {
		body := bestBody(msg)
		for _, m := range headerToRe.FindAllStringSubmatch(body, -1) {
			addList(m[1], entity.SourceForwardedTo)
		}
		for _, m := range headerCcRe.FindAllStringSubmatch(body, -1) {
			addList(m[1], entity.SourceForwardedCc)
		}
		if from := innermostFrom(body); from != "" {
			name, email := mailaddr.Parse(from)
			add(name, email, entity.SourceForwardedFrom)
		}
	}
	return out
}

// headerAddressLines pulls To and Cc out of the relay's [name, value]
// header array.
func headerAddressLines(raw string) (to, cc string) {
	if strings.TrimSpace(raw) == "" {
		return "", ""
	}
	var headers [][2]string
	if err := json.Unmarshal([]byte(raw), &headers); err != nil {
		return "", ""
	}
	for _, h := range headers {
		switch strings.ToLower(h[0]) {
		case "to":
			to = h[1]
		case "cc":
			cc = h[1]
		}
	}
	return to, cc
}

func (s *ingestService) processRecipient(
	ctx context.Context,
	tenant *entity.Tenant,
	msg *entity.InboundMessage,
	kind entity.PayloadKind,
	rcpt entity.Recipient,
	now time.Time,
	dryRun bool,
) dto.LeadResult {
	res, err := s.resolver.ResolveByEmail(ctx, tenant, rcpt.Email)
	if err != nil {
		s.logger.Error("IngestService", "Lead lookup failed", map[string]interface{}{"email": rcpt.Email, "error": err.Error()})
		return dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeError, Detail: err.Error()}
	}
	if res.MatchType != entity.MatchUnique {
		name := rcpt.Name
		if name == "" {
			// A bare To: address can still carry a name in the quoted
			// thread's "Name <email> wrote:" line.
			name = thread.SenderName(bestBody(msg), rcpt.Email)
		}
		if name != "" {
			nameRes, err := s.resolver.Resolve(ctx, tenant, &entity.Candidate{Email: rcpt.Email, Name: name})
			if err != nil {
				return dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeError, Detail: err.Error()}
			}
			// The name fallback commits on a unique hit only.
			switch nameRes.MatchType {
			case entity.MatchUnique:
				res = nameRes
			case entity.MatchAmbiguous:
				return dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeAmbiguous}
			}
		}
	}
	if res.MatchType != entity.MatchUnique {
		return dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeNotFound}
	}
	lead := res.Lead

	section, content := s.sectionContent(tenant, msg, kind, now)
	if strings.TrimSpace(content) == "" {
		return dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeError, Detail: "empty body"}
	}
	if dryRun {
		return dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeWritten, Detail: "dry-run"}
	}

	outcome := dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeWritten}
	s.locker.Do(lead.Id, func() {
		// Re-read inside the lock so concurrent payloads for the same lead
		// merge instead of clobbering each other.
		fresh, err := s.leadRepository.Get(ctx, tenant, lead.Id)
		if err != nil || fresh == nil {
			outcome = dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeError, Detail: "re-read failed"}
			return
		}
		before := fresh.Notes

		updated, err := notes.UpdateSection(before, section, content, notes.UpdateOptions{
			Mode:         notes.ModeAppend,
			SortMessages: true,
		})
		if err != nil {
			outcome = dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeError, Detail: err.Error()}
			return
		}
		if updated.SkippedDuplicate {
			outcome = dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeSkippedDuplicate}
			return
		}

		followUp := now.Add(s.followUpAfter)
		fresh.Notes = updated.Notes
		fresh.FollowUpDate = &followUp
		if err := s.leadRepository.Update(ctx, tenant, fresh); err != nil {
			outcome = dto.LeadResult{Email: rcpt.Email, Outcome: entity.OutcomeError, Detail: err.Error()}
			return
		}
		s.publishAudit(tenant.Id, lead.Id, string(kind), before, updated.Notes)
	})
	return outcome
}

// sectionContent picks the target section for a payload and renders it as
// dated entries. A direct payload whose body is a raw LinkedIn or Sales
// Navigator paste is filed under that section; everything else is email
// correspondence.
func (s *ingestService) sectionContent(tenant *entity.Tenant, msg *entity.InboundMessage, kind entity.PayloadKind, now time.Time) (notes.SectionKey, string) {
	if kind == entity.PayloadDirectBcc {
		body := bestBody(msg)
		switch convo.DetectFormat(body) {
		case convo.FormatLinkedIn, convo.FormatSalesNav:
			res := convo.Parse(body, convo.Options{
				TenantDisplayName: tenant.DisplayFirstName,
				ReferenceDate:     now,
				NewestFirst:       true,
			})
			if res.Format == convo.FormatSalesNav {
				return notes.SectionSalesNav, res.Formatted
			}
			return notes.SectionLinkedIn, res.Formatted
		}
	}
	return notes.SectionEmail, s.emailSectionContent(tenant, msg, kind, now)
}

// emailSectionContent renders a payload as dated entries for the email
// correspondence section, newest fragment first, with the subject attached
// above the newest entry.
func (s *ingestService) emailSectionContent(tenant *entity.Tenant, msg *entity.InboundMessage, kind entity.PayloadKind, now time.Time) string {
	body := bestBody(msg)
	outerSender := msg.SenderName
	if kind == entity.PayloadDirectBcc {
		if tenant.DisplayFirstName != "" {
			outerSender = tenant.DisplayFirstName
		}
	} else {
		// The outer fragment of a forward was written by the forwarded
		// author, not the forwarding tenant.
		if from := innermostFrom(body); from != "" {
			name, email := mailaddr.Parse(from)
			if tenant.OwnsEmail(email) && tenant.DisplayFirstName != "" {
				outerSender = tenant.DisplayFirstName
			} else if name != "" {
				outerSender = name
			}
		}
		body = stripForwardWrapper(body)
	}
	if outerSender == "" {
		outerSender = msg.Sender
	}

	fragments := thread.Parse(body, thread.Options{
		OuterSender:   outerSender,
		ReferenceDate: now,
		OuterTime:     now.Format("3:04 PM"),
	})
	if len(fragments) == 0 {
		return ""
	}

	subject := strings.TrimSpace(stripSubjectPrefixes(msg.Subject))
	var b strings.Builder
	for i, f := range fragments {
		text := strings.TrimSpace(f.Message)
		if text == "" {
			continue
		}
		if i == 0 && subject != "" {
			b.WriteString("Subject: " + subject + "\n")
		}
		sender := f.Sender
		// Quoted copies of the tenant's own messages get the same stamp a
		// direct BCC would have written, so the merge dedups them.
		if tenant.OwnsEmail(f.Email) && tenant.DisplayFirstName != "" {
			sender = tenant.DisplayFirstName
		}
		lines := strings.Split(text, "\n")
		fmt.Fprintf(&b, "%s %s - %s - %s\n", f.Date, f.Time, sender, lines[0])
		for _, line := range lines[1:] {
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// stripForwardWrapper removes everything up to and including the forward
// marker plus the header block that follows it, leaving the forwarded
// conversation itself.
func stripForwardWrapper(body string) string {
	cut := -1
	for _, re := range forwardMarkerRes {
		if loc := re.FindStringIndex(body); loc != nil && (cut == -1 || loc[1] < cut) {
			cut = loc[1]
		}
	}
	if cut == -1 {
		return body
	}
	rest := body[cut:]
	lines := strings.Split(rest, "\n")
	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			i++
			continue
		}
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "from:") || strings.HasPrefix(lower, "to:") ||
			strings.HasPrefix(lower, "cc:") || strings.HasPrefix(lower, "date:") ||
			strings.HasPrefix(lower, "sent:") || strings.HasPrefix(lower, "subject:") {
			i++
			continue
		}
		break
	}
	return strings.Join(lines[i:], "\n")
}

func (s *ingestService) publishAudit(tenantId, leadId, source, before, after string) {
	if s.publisher == nil {
		return
	}
	rec := audit.Diff(leadId, source, before, after)
	if err := s.publisher.PublishAuditRecord(tenantId, rec); err != nil {
		s.logger.Error("IngestService", "Failed to publish audit record", map[string]interface{}{"error": err.Error()})
	}
}

func (s *ingestService) processMeeting(
	ctx context.Context,
	tenant *entity.Tenant,
	msg *entity.InboundMessage,
	now time.Time,
	result *dto.ProcessResult,
	dryRun bool,
) (*dto.ProcessResult, error) {
	body := bestBody(msg)
	origSender := msg.Sender
	if from := innermostFrom(body); from != "" {
		if _, email := mailaddr.Parse(from); email != "" {
			origSender = email
		}
	}
	subject := stripSubjectPrefixes(msg.Subject)
	provider, _ := meeting.Detect(origSender, subject, body)
	details := meeting.Extract(provider, subject, body, msg.BodyHTML)

	if details.ContactName == "" && details.ContactEmail == "" &&
		details.FirstNameOnly == "" && details.Domain == "" {
		if !dryRun {
			if _, err := s.notifier.SendMeetingError(tenant.PrimaryEmail, msg.Subject); err != nil {
				s.logger.Error("IngestService", "Failed to send meeting-error notice", map[string]interface{}{"error": err.Error()})
			}
		}
		result.Ignored = true
		result.IgnoreReason = "no contact evidence in recap"
		return result, nil
	}

	res, err := s.resolver.Resolve(ctx, tenant, &entity.Candidate{
		Email:          details.ContactEmail,
		Name:           details.ContactName,
		FirstName:      details.FirstNameOnly,
		Company:        details.Company,
		Domain:         details.Domain,
		AlternateNames: details.AlternateNames,
	})
	if err != nil {
		if apperrors.IsTransient(err) {
			return nil, err
		}
		s.logger.Error("IngestService", "Meeting lead lookup failed", map[string]interface{}{"error": err.Error()})
		result.Leads = append(result.Leads, dto.LeadResult{Email: details.ContactEmail, Outcome: entity.OutcomeError, Detail: err.Error()})
		return result, nil
	}

	switch res.MatchType {
	case entity.MatchAmbiguous:
		if !dryRun {
			if _, err := s.notifier.SendMeetingAmbiguous(tenant.PrimaryEmail, details.ContactName, res.AllMatches); err != nil {
				s.logger.Error("IngestService", "Failed to send ambiguous-meeting notice", map[string]interface{}{"error": err.Error()})
			}
		}
		result.Leads = append(result.Leads, dto.LeadResult{Email: details.ContactEmail, Outcome: entity.OutcomeAmbiguous})
		return result, nil
	case entity.MatchNone:
		if !dryRun {
			if _, err := s.notifier.SendMeetingError(tenant.PrimaryEmail, msg.Subject); err != nil {
				s.logger.Error("IngestService", "Failed to send meeting-error notice", map[string]interface{}{"error": err.Error()})
			}
		}
		result.Leads = append(result.Leads, dto.LeadResult{Email: details.ContactEmail, Outcome: entity.OutcomeNotFound})
		result.LeadsNotFound = []string{details.ContactName}
		return result, nil
	}
	lead := res.Lead

	if dryRun {
		result.Leads = append(result.Leads, dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeWritten, Detail: "dry-run"})
		result.LeadsUpdated++
		return result, nil
	}

	block := meetingBlock(details, now)
	baseLink := meeting.BaseLink(details.MeetingLink)

	outcome := dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeWritten}
	s.locker.Do(lead.Id, func() {
		fresh, err := s.leadRepository.Get(ctx, tenant, lead.Id)
		if err != nil || fresh == nil {
			outcome = dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeError, Detail: "re-read failed"}
			return
		}
		before := fresh.Notes

		// The same recap often arrives twice, once per attendee filter.
		if baseLink != "" && strings.Contains(before, baseLink) {
			outcome = dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeSkippedDuplicate}
			return
		}
		if s.transcriptRepository != nil && baseLink != "" {
			if exists, err := s.transcriptRepository.ExistsByBaseLink(ctx, tenant.Id, baseLink); err == nil && exists {
				outcome = dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeSkippedDuplicate}
				return
			}
		}

		updated, err := notes.UpdateSection(before, notes.SectionMeeting, block, notes.UpdateOptions{Mode: notes.ModeAppend})
		if err != nil {
			outcome = dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeError, Detail: err.Error()}
			return
		}

		followUp := now.Add(s.followUpAfter)
		fresh.Notes = updated.Notes
		fresh.FollowUpDate = &followUp
		if err := s.leadRepository.Update(ctx, tenant, fresh); err != nil {
			outcome = dto.LeadResult{Email: lead.Email, Outcome: entity.OutcomeError, Detail: err.Error()}
			return
		}
		s.publishAudit(tenant.Id, lead.Id, string(entity.PayloadForwardedMeeting), before, updated.Notes)

		if s.transcriptRepository != nil {
			row := &model.MeetingTranscript{
				Id:       uuid.New(),
				TenantId: tenant.Id,
				LeadId:   lead.Id,
				Provider: string(details.Provider),
				BaseLink: baseLink,
				Payload:  msg.Subject + "\n\n" + bestBody(msg),
			}
			if err := s.transcriptRepository.Create(ctx, row); err != nil {
				s.logger.Error("IngestService", "Failed to persist transcript row", map[string]interface{}{"error": err.Error()})
			}
		}
	})

	result.Leads = append(result.Leads, outcome)
	if outcome.Outcome == entity.OutcomeWritten || outcome.Outcome == entity.OutcomeSkippedDuplicate {
		result.LeadsUpdated++
	}
	return result, nil
}

// meetingBlock renders one recap as a self-contained block for the meeting
// notes section.
func meetingBlock(d *meeting.Details, now time.Time) string {
	var b strings.Builder
	b.WriteString(meetingRuler + "\n")

	title := d.Title
	if title == "" {
		title = "Meeting"
	}
	b.WriteString(title)
	if d.Date != "" {
		b.WriteString(" | " + d.Date)
	}
	if d.Duration != "" {
		b.WriteString(" | " + d.Duration)
	}
	b.WriteString("\n")

	if d.ActionItems != "" {
		b.WriteString("\nACTION ITEMS\n" + d.ActionItems + "\n")
	}
	if d.Summary != "" {
		b.WriteString("\nMEETING NOTES\n" + d.Summary + "\n")
	}
	if d.MeetingLink != "" {
		b.WriteString("\nView: " + d.MeetingLink + "\n")
	}
	fmt.Fprintf(&b, "\n[Recorded %s, %s]",
		now.Format("02/01/2006"),
		strings.ToLower(now.Format("3:04 PM")))
	return b.String()
}
