package service

import (
	"context"
	"strings"
	"testing"

	"lead-inbox-be/internal/entity"
	"lead-inbox-be/internal/pkg/locker"
	"lead-inbox-be/pkg/notes"
	"lead-inbox-be/pkg/rowstore"

	"github.com/stretchr/testify/assert"
)

type fakeTenantDirectory struct {
	tenants []*entity.Tenant
	err     error
}

func (f *fakeTenantDirectory) List(_ context.Context) ([]*entity.Tenant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.tenants, nil
}
func (f *fakeTenantDirectory) Invalidate() {}

type fakeNotifier struct {
	tenantNotFound   []string
	leadsNotFound    [][]string
	meetingAmbiguous []string
	meetingErrors    []string
}

func (f *fakeNotifier) SendTenantNotFound(_, senderEmail string) (string, error) {
	f.tenantNotFound = append(f.tenantNotFound, senderEmail)
	return "TEST", nil
}
func (f *fakeNotifier) SendLeadNotFound(_ string, attempted string) (string, error) {
	f.leadsNotFound = append(f.leadsNotFound, []string{attempted})
	return "TEST", nil
}
func (f *fakeNotifier) SendLeadsNotFound(_ string, attempted []string) (string, error) {
	f.leadsNotFound = append(f.leadsNotFound, attempted)
	return "TEST", nil
}
func (f *fakeNotifier) SendMeetingAmbiguous(_, contactName string, _ []*entity.Lead) (string, error) {
	f.meetingAmbiguous = append(f.meetingAmbiguous, contactName)
	return "TEST", nil
}
func (f *fakeNotifier) SendMeetingError(_, subject string) (string, error) {
	f.meetingErrors = append(f.meetingErrors, subject)
	return "TEST", nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestIngest(leads []*entity.Lead) (IIngestService, *fakeLeadRepository, *fakeNotifier) {
	repo := &fakeLeadRepository{leads: leads}
	notifier := &fakeNotifier{}
	dir := &fakeTenantDirectory{tenants: []*entity.Tenant{{
		Id:               "recTenant",
		PrimaryEmail:     "guy@acme.io",
		AlternateEmails:  []string{"guy.alt@acme.io"},
		NotesBaseId:      "appBase",
		DisplayFirstName: "Guy",
		IanaTimezone:     "UTC",
	}}}
	svc := NewIngestService(
		dir, repo, nil,
		NewResolverService(repo),
		notifier, nil,
		locker.NewLeadLocker(),
		nopLogger{},
		"track@inbox.acme.io",
	)
	return svc, repo, notifier
}

func TestProcessDirectBccWritesEmailSection(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:     "guy@acme.io",
		SenderName: "Guy Operator",
		Subject:    "Quick follow up",
		BodyPlain:  "Hi Agnes,\n\nGreat speaking earlier. Sending the deck tomorrow.",
		To:         "Agnes Caruso <agnes@caruso.com>, track@inbox.acme.io",
		Timestamp:  "1764936000", // 05-12-25
	})
	assert.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, string(entity.PayloadDirectBcc), res.Kind)
	assert.Equal(t, 1, res.LeadsUpdated)
	assert.Empty(t, res.LeadsNotFound)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	email := notes.GetSection(lead.Notes, notes.SectionEmail)
	assert.Contains(t, email, "Subject: Quick follow up")
	assert.Contains(t, email, "05-12-25 12:00 PM - Guy - Hi Agnes,")
	assert.NotNil(t, lead.FollowUpDate)
}

func TestProcessDirectBccIgnoresTrackingOnlyRecipients(t *testing.T) {
	svc, _, notifier := newTestIngest(nil)

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "note to self",
		BodyPlain: "remember this",
		To:        "track@inbox.acme.io",
	})
	assert.NoError(t, err)
	assert.True(t, res.Ignored)
	assert.Empty(t, notifier.leadsNotFound)
}

func TestProcessUnknownSenderNotifiesAndSwallows(t *testing.T) {
	svc, _, notifier := newTestIngest(nil)

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "stranger@nowhere.com",
		Subject:   "hello",
		BodyPlain: "hi",
		To:        "track@inbox.acme.io",
	})
	assert.NoError(t, err)
	assert.True(t, res.Ignored)
	assert.Equal(t, []string{"stranger@nowhere.com"}, notifier.tenantNotFound)
}

func TestProcessForwardResolvesEmbeddedAuthor(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	body := strings.Join([]string{
		"---------- Forwarded message ---------",
		"From: Agnes Caruso <agnes@caruso.com>",
		"Date: Thu, 4 Dec 2025 at 10:30",
		"Subject: Re: pricing",
		"To: Guy Operator <guy@acme.io>",
		"",
		"Thanks Guy, the pricing works for us.",
	}, "\n")

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "Fwd: Re: pricing",
		BodyPlain: body,
		To:        "track@inbox.acme.io",
		Timestamp: "1764936000",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(entity.PayloadForwardedBcc), res.Kind)
	assert.Equal(t, 1, res.LeadsUpdated)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	email := notes.GetSection(lead.Notes, notes.SectionEmail)
	assert.Contains(t, email, "Subject: Re: pricing")
	assert.Contains(t, email, "Agnes Caruso - Thanks Guy, the pricing works for us.")
}

func TestProcessForwardedReplyDedupsQuotedTenantMessage(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	_, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:     "guy@acme.io",
		SenderName: "Guy Operator",
		BodyPlain:  "Hi Agnes, sending the deck tomorrow.",
		To:         "agnes@caruso.com",
		Timestamp:  "1764930600", // 05-12-25 10:30 AM UTC
	})
	assert.NoError(t, err)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	email := notes.GetSection(lead.Notes, notes.SectionEmail)
	assert.Contains(t, email, "05-12-25 10:30 AM - Guy - Hi Agnes, sending the deck tomorrow.")

	fwd := strings.Join([]string{
		"---------- Forwarded message ---------",
		"From: Agnes Caruso <agnes@caruso.com>",
		"Date: Fri, 5 Dec 2025 at 11:00",
		"Subject: Re: deck",
		"To: Guy Operator <guy@acme.io>",
		"",
		"Perfect, looking forward to it.",
		"",
		"On Fri, 5 Dec 2025 at 10:30, Guy Operator <guy@acme.io> wrote:",
		"> Hi Agnes, sending the deck tomorrow.",
	}, "\n")
	_, err = svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:     "guy@acme.io",
		SenderName: "Guy Operator",
		Subject:    "Fwd: Re: deck",
		BodyPlain:  fwd,
		To:         "track@inbox.acme.io",
		Timestamp:  "1764945900", // 05-12-25 2:45 PM UTC
	})
	assert.NoError(t, err)

	lead, _ = repo.Get(context.Background(), nil, "rec1")
	email = notes.GetSection(lead.Notes, notes.SectionEmail)
	assert.Equal(t, 1, strings.Count(email, "sending the deck tomorrow."))
	reply := strings.Index(email, "05-12-25 2:45 PM - Agnes Caruso - Perfect, looking forward to it.")
	quoted := strings.Index(email, "05-12-25 10:30 AM - Guy - Hi Agnes, sending the deck tomorrow.")
	assert.True(t, reply >= 0, email)
	assert.True(t, quoted >= 0, email)
	assert.Less(t, reply, quoted)
}

func TestProcessBareAddressGetsQuoteHeaderNameFallback(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Company: "Caruso"},
	})

	body := strings.Join([]string{
		"Thanks again, talk Thursday.",
		"",
		"On Thu, 4 Dec 2025 at 10:30, Agnes Caruso <agnes@caruso.com> wrote:",
		"> Looking forward to it.",
	}, "\n")

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:     "guy@acme.io",
		SenderName: "Guy Operator",
		Subject:    "pricing",
		BodyPlain:  body,
		To:         "agnes@caruso.com",
		Timestamp:  "1764936000",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.LeadsUpdated)
	assert.Empty(t, res.LeadsNotFound)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	email := notes.GetSection(lead.Notes, notes.SectionEmail)
	assert.Contains(t, email, "Agnes Caruso - Looking forward to it.")
}

func TestProcessBccNameFallbackRequiresUnique(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "John", LastName: "Smith", Company: "Acme", Email: "js@acme.com"},
		{Id: "rec2", FirstName: "John", LastName: "Smith", Company: "Globex", Email: "john.smith@globex.com"},
	})

	// Narrowing to the Globex John would be a guess; only a unique name hit
	// may commit a BCC write.
	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "intro",
		BodyPlain: "Hi John",
		To:        "John Smith <john@globex.com>",
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.LeadsUpdated)
	assert.Equal(t, entity.OutcomeNotFound, res.Leads[0].Outcome)

	lead, _ := repo.Get(context.Background(), nil, "rec2")
	assert.Empty(t, lead.Notes)
}

func TestProcessTenantRegistryErrorDiscipline(t *testing.T) {
	newSvc := func(listErr error) IIngestService {
		repo := &fakeLeadRepository{}
		return NewIngestService(
			&fakeTenantDirectory{err: listErr}, repo, nil,
			NewResolverService(repo), &fakeNotifier{}, nil,
			locker.NewLeadLocker(), nopLogger{},
			"track@inbox.acme.io",
		)
	}
	msg := &entity.InboundMessage{Sender: "guy@acme.io", Subject: "hi", BodyPlain: "hi", To: "a@b.com"}

	// Bad credentials fail identically on every retry; the payload is
	// settled, not bounced.
	res, err := newSvc(&rowstore.StatusError{Code: 401, Body: "unauthorized"}).ProcessInboundMessage(context.Background(), msg)
	assert.NoError(t, err)
	assert.True(t, res.Ignored)

	_, err = newSvc(&rowstore.StatusError{Code: 503, Body: "unavailable"}).ProcessInboundMessage(context.Background(), msg)
	assert.Error(t, err)
}

func TestStripSubjectPrefixes(t *testing.T) {
	cases := map[string]string{
		"Fwd: FW: pricing":    "pricing",
		"FW: Fwd: fwd: intro": "intro",
		"Re: pricing":         "Re: pricing",
		"pricing":             "pricing",
	}
	for in, want := range cases {
		assert.Equal(t, want, stripSubjectPrefixes(in), in)
	}
}

func TestProcessLinkedInPasteFilesToLinkedInSection(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	body := strings.Join([]string{
		"Agnes Caruso sent the following messages at 9:15 AM",
		"View Agnes Caruso's profile",
		"Dec 4, 2025",
		"Agnes Caruso 9:15 AM",
		"Hi Guy, thanks for reaching out.",
		"You 10:02 AM",
		"Great, sending over a calendar link.",
	}, "\n")

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "linkedin thread",
		BodyPlain: body,
		To:        "agnes@caruso.com",
		Timestamp: "1764936000",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.LeadsUpdated)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	section := notes.GetSection(lead.Notes, notes.SectionLinkedIn)
	assert.Contains(t, section, "04-12-25 9:15 AM - Agnes Caruso - Hi Guy, thanks for reaching out.")
	assert.Contains(t, section, "04-12-25 10:02 AM - Guy - Great, sending over a calendar link.")
	assert.Empty(t, notes.GetSection(lead.Notes, notes.SectionEmail))
}

func TestProcessDuplicatePayloadSkipsSecondWrite(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	msg := &entity.InboundMessage{
		Sender:     "guy@acme.io",
		SenderName: "Guy Operator",
		Subject:    "Quick follow up",
		BodyPlain:  "Hi Agnes, sending the deck tomorrow.",
		To:         "agnes@caruso.com",
		Timestamp:  "1764936000",
	}

	first, err := svc.ProcessInboundMessage(context.Background(), msg)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeWritten, first.Leads[0].Outcome)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	afterFirst := lead.Notes

	second, err := svc.ProcessInboundMessage(context.Background(), msg)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeSkippedDuplicate, second.Leads[0].Outcome)

	lead, _ = repo.Get(context.Background(), nil, "rec1")
	assert.Equal(t, afterFirst, lead.Notes)
}

func TestProcessAllRecipientsUnknownSendsBatchedNotice(t *testing.T) {
	svc, _, notifier := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "intro",
		BodyPlain: "Hi both",
		To:        "a@unknown.com, b@unknown.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, 0, res.LeadsUpdated)
	assert.Equal(t, []string{"a@unknown.com", "b@unknown.com"}, res.LeadsNotFound)
	assert.Len(t, notifier.leadsNotFound, 1)
	assert.Equal(t, []string{"a@unknown.com", "b@unknown.com"}, notifier.leadsNotFound[0])
}

func TestProcessMixedRecipientsSkipsNotice(t *testing.T) {
	svc, _, notifier := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "intro",
		BodyPlain: "Hi both",
		To:        "agnes@caruso.com, b@unknown.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.LeadsUpdated)
	assert.Equal(t, []string{"b@unknown.com"}, res.LeadsNotFound)
	assert.Empty(t, notifier.leadsNotFound)
}

func meetingRecapBody() string {
	return strings.Join([]string{
		"Agnes Caruso and Guy Operator meeting",
		"",
		"ACTION ITEMS",
		"- Send revised proposal",
		"Guy Operator",
		"",
		"MEETING SUMMARY",
		"Meeting Purpose",
		"Review the rollout plan.",
		"",
		"View the recording: https://fathom.video/call/xyz123?timestamp=0",
	}, "\n")
}

func TestProcessMeetingRecapWritesMeetingSection(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "Fwd: Recap of your meeting with Agnes Caruso - 30 mins",
		BodyPlain: "---------- Forwarded message ---------\nFrom: Fathom <notifications@fathom.video>\n\n" + meetingRecapBody(),
		To:        "track@inbox.acme.io",
		Timestamp: "1764936000",
	})
	assert.NoError(t, err)
	assert.Equal(t, string(entity.PayloadForwardedMeeting), res.Kind)
	assert.Equal(t, 1, res.LeadsUpdated)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	section := notes.GetSection(lead.Notes, notes.SectionMeeting)
	assert.Contains(t, section, "ACTION ITEMS")
	assert.Contains(t, section, "MEETING NOTES")
	assert.Contains(t, section, "https://fathom.video/call/xyz123")
	assert.Contains(t, section, "[Recorded 05/12/2025,")
}

func TestProcessMeetingRecapDeduplicatesByLink(t *testing.T) {
	svc, repo, _ := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	msg := &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "Fwd: Recap of your meeting with Agnes Caruso - 30 mins",
		BodyPlain: "---------- Forwarded message ---------\nFrom: Fathom <notifications@fathom.video>\n\n" + meetingRecapBody(),
		To:        "track@inbox.acme.io",
		Timestamp: "1764936000",
	}

	_, err := svc.ProcessInboundMessage(context.Background(), msg)
	assert.NoError(t, err)
	lead, _ := repo.Get(context.Background(), nil, "rec1")
	afterFirst := lead.Notes

	second, err := svc.ProcessInboundMessage(context.Background(), msg)
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeSkippedDuplicate, second.Leads[0].Outcome)

	lead, _ = repo.Get(context.Background(), nil, "rec1")
	assert.Equal(t, afterFirst, lead.Notes)
}

func TestProcessMeetingAmbiguousNotifiesWithoutWriting(t *testing.T) {
	svc, repo, notifier := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Company: "Acme"},
		{Id: "rec2", FirstName: "Agnes", LastName: "Caruso", Company: "Globex"},
	})

	res, err := svc.ProcessInboundMessage(context.Background(), &entity.InboundMessage{
		Sender:    "guy@acme.io",
		Subject:   "Fwd: Recap of your meeting with Agnes Caruso - 30 mins",
		BodyPlain: "---------- Forwarded message ---------\nFrom: Fathom <notifications@fathom.video>\n\n" + meetingRecapBody(),
		To:        "track@inbox.acme.io",
	})
	assert.NoError(t, err)
	assert.Equal(t, entity.OutcomeAmbiguous, res.Leads[0].Outcome)
	assert.Equal(t, []string{"Agnes Caruso"}, notifier.meetingAmbiguous)

	for _, id := range []string{"rec1", "rec2"} {
		lead, _ := repo.Get(context.Background(), nil, id)
		assert.Empty(t, lead.Notes)
	}
}

func TestDryRunNeverWrites(t *testing.T) {
	svc, repo, notifier := newTestIngest([]*entity.Lead{
		{Id: "rec1", FirstName: "Agnes", LastName: "Caruso", Email: "agnes@caruso.com"},
	})

	res, err := svc.DryRun(context.Background(), &entity.InboundMessage{
		Sender:     "guy@acme.io",
		SenderName: "Guy Operator",
		Subject:    "Quick follow up",
		BodyPlain:  "Hi Agnes",
		To:         "agnes@caruso.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.LeadsUpdated)

	lead, _ := repo.Get(context.Background(), nil, "rec1")
	assert.Empty(t, lead.Notes)
	assert.Empty(t, notifier.leadsNotFound)
}
